package bolt

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

var errBucketMissing = errors.New("bucket nil")

// Store is a kv.DB on a bbolt file with one bucket per namespace.
type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt file %s", path)
	}

	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func New(db *bbolt.DB) (*Store, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, ns := range kv.Namespaces {
			if _, err := tx.CreateBucketIfNotExists([]byte(ns)); err != nil {
				return errors.Wrapf(err, "create bucket %s", ns)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) View(_ context.Context, fn func(r kv.Reader) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

// Update relies on bbolt rolling back when the callback returns an error.
func (s *Store) Update(_ context.Context, fn func(tx kv.Tx) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (s *Store) Ping(context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(kv.NamespaceSwaps)) == nil {
			return errBucketMissing
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) bucket(ns kv.Namespace) (*bbolt.Bucket, error) {
	b := t.tx.Bucket([]byte(ns))
	if b == nil {
		return nil, errors.Wrapf(errBucketMissing, "namespace %s", ns)
	}
	return b, nil
}

func (t *boltTx) Get(ns kv.Namespace, key string) ([]byte, error) {
	b, err := t.bucket(ns)
	if err != nil {
		return nil, err
	}

	v := b.Get([]byte(key))
	if v == nil {
		return nil, kv.ErrNotFound
	}
	// bbolt memory is only valid for the life of the transaction
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (t *boltTx) Has(ns kv.Namespace, key string) (bool, error) {
	b, err := t.bucket(ns)
	if err != nil {
		return false, err
	}
	return b.Get([]byte(key)) != nil, nil
}

func (t *boltTx) Put(ns kv.Namespace, key string, value []byte) error {
	b, err := t.bucket(ns)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), value)
}

func (t *boltTx) ForEach(ns kv.Namespace, fn func(key string, value []byte) error) error {
	b, err := t.bucket(ns)
	if err != nil {
		return err
	}
	return b.ForEach(func(k, v []byte) error {
		out := make([]byte, len(v))
		copy(out, v)
		return fn(string(k), out)
	})
}
