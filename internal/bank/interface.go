package bank

import (
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

// IBank moves funds between accounts inside the caller's transaction.
type IBank interface {
	// Escrow moves funds from an account into the contract account.
	Escrow(tx kv.Tx, from string, funds model.Coins) error
	// Release executes a directive out of the contract account.
	Release(tx kv.Tx, release model.Release) error
	// Deposit credits an account from outside the ledger.
	Deposit(tx kv.Tx, address string, coins model.Coins) error
	Balances(r kv.Reader, address string) (model.Coins, error)
	ContractAddress() string
}
