package store

import (
	"github.com/dwarvesf/htlc-backend/internal/store/balance"
	"github.com/dwarvesf/htlc-backend/internal/store/swap"
	"github.com/dwarvesf/htlc-backend/internal/store/userswap"
)

type Store struct {
	Swap      swap.IStore
	UserSwaps userswap.IStore
	Balance   balance.IStore
}

func New() *Store {
	return &Store{
		Swap:      swap.New(),
		UserSwaps: userswap.New(),
		Balance:   balance.New(),
	}
}
