package balance

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

// keys are "<address>/<denom>"; addresses never contain '/'.
const separator = "/"

type Store struct {
}

func New() IStore {
	return &Store{}
}

func key(address, denom string) string {
	return address + separator + denom
}

func (s *Store) Get(r kv.Reader, address, denom string) (model.Amount, error) {
	data, err := r.Get(kv.NamespaceBalances, key(address, denom))
	if errors.Is(err, kv.ErrNotFound) {
		return model.Amount{}, nil
	}
	if err != nil {
		return model.Amount{}, errors.Wrapf(err, "get balance %s of %s", denom, address)
	}

	amount, err := model.ParseAmount(string(data))
	if err != nil {
		return model.Amount{}, errors.Wrapf(err, "decode balance %s of %s", denom, address)
	}
	return amount, nil
}

func (s *Store) Set(tx kv.Tx, address, denom string, amount model.Amount) error {
	return tx.Put(kv.NamespaceBalances, key(address, denom), []byte(amount.String()))
}

func (s *Store) List(r kv.Reader, address string) (model.Coins, error) {
	prefix := address + separator
	coins := model.Coins{}

	err := r.ForEach(kv.NamespaceBalances, func(k string, data []byte) error {
		if !strings.HasPrefix(k, prefix) {
			return nil
		}
		amount, err := model.ParseAmount(string(data))
		if err != nil {
			return errors.Wrapf(err, "decode balance %s", k)
		}
		if amount.IsZero() {
			return nil
		}
		coins = append(coins, model.Coin{Denom: strings.TrimPrefix(k, prefix), Amount: amount})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coins, nil
}
