package htlc

import (
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

// Querier reads swaps without mutating anything and without checking who
// asks.
type Querier struct {
	engine *Engine
}

func NewQuerier(engine *Engine) *Querier {
	return &Querier{engine: engine}
}

func (q *Querier) GetSwap(r kv.Reader, id string) (*model.Swap, error) {
	return q.engine.load(r, id)
}

// GetUserSwaps returns an empty list for an address with no swaps.
func (q *Querier) GetUserSwaps(r kv.Reader, address string) ([]string, error) {
	return q.engine.store.UserSwaps.List(r, address)
}

func (q *Querier) IsWithdrawable(r kv.Reader, id string, now uint64) (bool, error) {
	swap, err := q.engine.load(r, id)
	if err != nil {
		return false, err
	}
	return IsWithdrawable(swap, now), nil
}

func (q *Querier) IsRefundable(r kv.Reader, id string, now uint64) (bool, error) {
	swap, err := q.engine.load(r, id)
	if err != nil {
		return false, err
	}
	return IsRefundable(swap, now), nil
}

func IsWithdrawable(swap *model.Swap, now uint64) bool {
	return now < swap.Timelock && !swap.Withdrawn && !swap.Refunded
}

func IsRefundable(swap *model.Swap, now uint64) bool {
	return now >= swap.Timelock && !swap.Withdrawn && !swap.Refunded
}

// ListSwaps visits every stored swap in id order.
func (q *Querier) ListSwaps(r kv.Reader, fn func(id string, swap *model.Swap) error) error {
	return q.engine.store.Swap.List(r, fn)
}
