package swap

import (
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

type IStore interface {
	Create(tx kv.Tx, id string, swap *model.Swap) error
	Get(r kv.Reader, id string) (*model.Swap, error)
	Exists(r kv.Reader, id string) (bool, error)
	Update(tx kv.Tx, id string, swap *model.Swap) error
	List(r kv.Reader, fn func(id string, swap *model.Swap) error) error
}
