package swap

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

var (
	ErrNotFound      = errors.New("swap does not exist")
	ErrAlreadyExists = errors.New("swap already exists")
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

// Create refuses to overwrite an existing id and to persist a record that
// breaks a swap invariant.
func (s *Store) Create(tx kv.Tx, id string, swap *model.Swap) error {
	exists, err := tx.Has(kv.NamespaceSwaps, id)
	if err != nil {
		return errors.Wrapf(err, "check swap %s", id)
	}
	if exists {
		return ErrAlreadyExists
	}
	return s.put(tx, id, swap)
}

func (s *Store) Get(r kv.Reader, id string) (*model.Swap, error) {
	data, err := r.Get(kv.NamespaceSwaps, id)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get swap %s", id)
	}
	return decode(id, data)
}

func (s *Store) Exists(r kv.Reader, id string) (bool, error) {
	exists, err := r.Has(kv.NamespaceSwaps, id)
	if err != nil {
		return false, errors.Wrapf(err, "check swap %s", id)
	}
	return exists, nil
}

func (s *Store) Update(tx kv.Tx, id string, swap *model.Swap) error {
	exists, err := tx.Has(kv.NamespaceSwaps, id)
	if err != nil {
		return errors.Wrapf(err, "check swap %s", id)
	}
	if !exists {
		return ErrNotFound
	}
	return s.put(tx, id, swap)
}

// List visits every swap in id order.
func (s *Store) List(r kv.Reader, fn func(id string, swap *model.Swap) error) error {
	return r.ForEach(kv.NamespaceSwaps, func(id string, data []byte) error {
		swap, err := decode(id, data)
		if err != nil {
			return err
		}
		return fn(id, swap)
	})
}

func (s *Store) put(tx kv.Tx, id string, swap *model.Swap) error {
	if err := swap.Validate(); err != nil {
		return errors.Wrapf(err, "refusing to store swap %s", id)
	}
	data, err := json.Marshal(swap)
	if err != nil {
		return errors.Wrapf(err, "encode swap %s", id)
	}
	return tx.Put(kv.NamespaceSwaps, id, data)
}

func decode(id string, data []byte) (*model.Swap, error) {
	var swap model.Swap
	if err := json.Unmarshal(data, &swap); err != nil {
		return nil, errors.Wrapf(err, "decode swap %s", id)
	}
	return &swap, nil
}
