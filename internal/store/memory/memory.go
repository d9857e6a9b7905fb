package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

// Store is an in-process kv.DB. Writes made inside Update are buffered and
// applied only when the callback succeeds.
type Store struct {
	mu   sync.RWMutex
	data map[kv.Namespace]map[string][]byte
}

func New() *Store {
	data := make(map[kv.Namespace]map[string][]byte)
	for _, ns := range kv.Namespaces {
		data[ns] = make(map[string][]byte)
	}
	return &Store{data: data}
}

func (s *Store) View(_ context.Context, fn func(r kv.Reader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&snapshot{data: s.data})
}

func (s *Store) Update(_ context.Context, fn func(tx kv.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := kv.NewBuffer(&snapshot{data: s.data})
	if err := fn(buf); err != nil {
		return err
	}

	for _, w := range buf.Writes() {
		ns, ok := s.data[w.Namespace]
		if !ok {
			ns = make(map[string][]byte)
			s.data[w.Namespace] = ns
		}
		ns[w.Key] = w.Value
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// snapshot reads committed data; callers hold the store lock.
type snapshot struct {
	data map[kv.Namespace]map[string][]byte
}

func (r *snapshot) Get(ns kv.Namespace, key string) ([]byte, error) {
	v, ok := r.data[ns][key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *snapshot) Has(ns kv.Namespace, key string) (bool, error) {
	_, ok := r.data[ns][key]
	return ok, nil
}

func (r *snapshot) ForEach(ns kv.Namespace, fn func(key string, value []byte) error) error {
	keys := make([]string, 0, len(r.data[ns]))
	for key := range r.data[ns] {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := r.data[ns][key]
		out := make([]byte, len(v))
		copy(out, v)
		if err := fn(key, out); err != nil {
			return err
		}
	}
	return nil
}
