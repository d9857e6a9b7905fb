package balance

import (
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

type IStore interface {
	// Get returns zero for an account that never held the denom.
	Get(r kv.Reader, address, denom string) (model.Amount, error)
	Set(tx kv.Tx, address, denom string, amount model.Amount) error
	// List returns the account's non-zero balances ordered by denom.
	List(r kv.Reader, address string) (model.Coins, error)
}
