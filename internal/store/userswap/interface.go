package userswap

import (
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

type IStore interface {
	// Append adds id to the end of the address's list. Duplicates are kept.
	Append(tx kv.Tx, address, id string) error
	// List returns an empty slice for an unknown address.
	List(r kv.Reader, address string) ([]string, error)
}
