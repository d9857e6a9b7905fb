package userswap

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Append(tx kv.Tx, address, id string) error {
	ids, err := s.List(tx, address)
	if err != nil {
		return err
	}

	data, err := json.Marshal(append(ids, id))
	if err != nil {
		return errors.Wrapf(err, "encode swaps of %s", address)
	}
	return tx.Put(kv.NamespaceUserSwaps, address, data)
}

func (s *Store) List(r kv.Reader, address string) ([]string, error) {
	data, err := r.Get(kv.NamespaceUserSwaps, address)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get swaps of %s", address)
	}

	ids := []string{}
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, errors.Wrapf(err, "decode swaps of %s", address)
	}
	return ids, nil
}
