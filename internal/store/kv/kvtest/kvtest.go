// Package kvtest holds the behaviour every kv.DB backend must share.
package kvtest

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

// Run exercises db against the kv contract. db must start empty.
func Run(t *testing.T, db kv.DB) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		err := db.View(ctx, func(r kv.Reader) error {
			_, err := r.Get(kv.NamespaceSwaps, "missing")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			ok, err := r.Has(kv.NamespaceSwaps, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("committed writes are visible", func(t *testing.T) {
		err := db.Update(ctx, func(tx kv.Tx) error {
			if err := tx.Put(kv.NamespaceSwaps, "b", []byte("2")); err != nil {
				return err
			}
			return tx.Put(kv.NamespaceSwaps, "a", []byte("1"))
		})
		require.NoError(t, err)

		err = db.View(ctx, func(r kv.Reader) error {
			v, err := r.Get(kv.NamespaceSwaps, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), v)

			ok, err := r.Has(kv.NamespaceSwaps, "b")
			require.NoError(t, err)
			assert.True(t, ok)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		err := db.View(ctx, func(r kv.Reader) error {
			ok, err := r.Has(kv.NamespaceBalances, "a")
			require.NoError(t, err)
			assert.False(t, ok)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("failed update is discarded", func(t *testing.T) {
		errAbort := errors.New("abort")
		err := db.Update(ctx, func(tx kv.Tx) error {
			require.NoError(t, tx.Put(kv.NamespaceSwaps, "a", []byte("overwritten")))
			require.NoError(t, tx.Put(kv.NamespaceSwaps, "c", []byte("3")))
			return errAbort
		})
		assert.ErrorIs(t, err, errAbort)

		err = db.View(ctx, func(r kv.Reader) error {
			v, err := r.Get(kv.NamespaceSwaps, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), v)

			ok, err := r.Has(kv.NamespaceSwaps, "c")
			require.NoError(t, err)
			assert.False(t, ok)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("reads see own writes", func(t *testing.T) {
		err := db.Update(ctx, func(tx kv.Tx) error {
			require.NoError(t, tx.Put(kv.NamespaceUserSwaps, "u", []byte("x")))
			require.NoError(t, tx.Put(kv.NamespaceUserSwaps, "u", []byte("y")))

			v, err := tx.Get(kv.NamespaceUserSwaps, "u")
			require.NoError(t, err)
			assert.Equal(t, []byte("y"), v)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("for each is ordered", func(t *testing.T) {
		var keys []string
		err := db.View(ctx, func(r kv.Reader) error {
			return r.ForEach(kv.NamespaceSwaps, func(key string, value []byte) error {
				keys = append(keys, key)
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, keys)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, db.Ping(ctx))
	})

	t.Run("concurrent read-modify-write keeps every update", func(t *testing.T) {
		const (
			workers   = 4
			perWorker = 5
		)
		require.NoError(t, db.Update(ctx, func(tx kv.Tx) error {
			return tx.Put(kv.NamespaceBalances, "counter", []byte("0"))
		}))

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					err := db.Update(ctx, func(tx kv.Tx) error {
						v, err := tx.Get(kv.NamespaceBalances, "counter")
						if err != nil {
							return err
						}
						n, err := strconv.Atoi(string(v))
						if err != nil {
							return err
						}
						return tx.Put(kv.NamespaceBalances, "counter", []byte(strconv.Itoa(n+1)))
					})
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		err := db.View(ctx, func(r kv.Reader) error {
			v, err := r.Get(kv.NamespaceBalances, "counter")
			require.NoError(t, err)
			assert.Equal(t, strconv.Itoa(workers*perWorker), string(v))
			return nil
		})
		require.NoError(t, err)
	})
}
