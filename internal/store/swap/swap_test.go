package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/store/memory"
)

func pendingSwap() *model.Swap {
	return &model.Swap{
		Hashlock: model.HashlockOf("secret"),
		Timelock: 1_700_007_200,
		Sender:   "cosmos1sender",
		Receiver: "cosmos1receiver",
		Denom:    "uatom",
		Amount:   model.NewAmount(100),
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	db := memory.New()
	s := New()
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.Tx) error {
		return s.Create(tx, "id-1", pendingSwap())
	}))

	err := db.Update(ctx, func(tx kv.Tx) error {
		return s.Create(tx, "id-1", pendingSwap())
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	require.NoError(t, db.View(ctx, func(r kv.Reader) error {
		got, err := s.Get(r, "id-1")
		require.NoError(t, err)
		assert.Equal(t, pendingSwap().Hashlock, got.Hashlock)
		assert.Equal(t, "100", got.Amount.String())
		assert.Nil(t, got.Preimage)

		exists, err := s.Exists(r, "id-1")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = s.Get(r, "id-2")
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	}))
}

func TestStore_RejectsInvalidRecords(t *testing.T) {
	db := memory.New()
	s := New()

	invalid := pendingSwap()
	invalid.Withdrawn = true

	err := db.Update(context.Background(), func(tx kv.Tx) error {
		return s.Create(tx, "id-1", invalid)
	})
	assert.ErrorIs(t, err, model.ErrSwapPreimageState)
}

func TestStore_Update(t *testing.T) {
	db := memory.New()
	s := New()
	ctx := context.Background()

	err := db.Update(ctx, func(tx kv.Tx) error {
		return s.Update(tx, "id-1", pendingSwap())
	})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.Update(ctx, func(tx kv.Tx) error {
		if err := s.Create(tx, "id-1", pendingSwap()); err != nil {
			return err
		}
		withdrawn := pendingSwap()
		withdrawn.Withdrawn = true
		preimage := "secret"
		withdrawn.Preimage = &preimage
		return s.Update(tx, "id-1", withdrawn)
	}))

	require.NoError(t, db.View(ctx, func(r kv.Reader) error {
		got, err := s.Get(r, "id-1")
		require.NoError(t, err)
		assert.Equal(t, model.SwapStatusWithdrawn, got.Status())
		require.NotNil(t, got.Preimage)
		assert.Equal(t, "secret", *got.Preimage)
		return nil
	}))
}

func TestStore_List(t *testing.T) {
	db := memory.New()
	s := New()
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(tx kv.Tx) error {
		for _, id := range []string{"b", "a", "c"} {
			if err := s.Create(tx, id, pendingSwap()); err != nil {
				return err
			}
		}
		return nil
	}))

	var ids []string
	require.NoError(t, db.View(ctx, func(r kv.Reader) error {
		return s.List(r, func(id string, swap *model.Swap) error {
			ids = append(ids, id)
			return nil
		})
	}))
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
