package kv

import "sort"

// Write is a pending Put recorded by a Buffer.
type Write struct {
	Namespace Namespace
	Key       string
	Value     []byte
}

// Buffer is a Tx that keeps writes in memory on top of a read-only base.
// Backends without native transactions commit Writes() once the callback
// succeeds and simply drop the Buffer otherwise.
type Buffer struct {
	base    Reader
	pending map[Namespace]map[string]int
	writes  []Write
}

func NewBuffer(base Reader) *Buffer {
	return &Buffer{
		base:    base,
		pending: make(map[Namespace]map[string]int),
	}
}

func (b *Buffer) lookup(ns Namespace, key string) ([]byte, bool) {
	idx, ok := b.pending[ns][key]
	if !ok {
		return nil, false
	}
	return b.writes[idx].Value, true
}

func (b *Buffer) Get(ns Namespace, key string) ([]byte, error) {
	if v, ok := b.lookup(ns, key); ok {
		return clone(v), nil
	}
	return b.base.Get(ns, key)
}

func (b *Buffer) Has(ns Namespace, key string) (bool, error) {
	if _, ok := b.lookup(ns, key); ok {
		return true, nil
	}
	return b.base.Has(ns, key)
}

func (b *Buffer) Put(ns Namespace, key string, value []byte) error {
	keys, ok := b.pending[ns]
	if !ok {
		keys = make(map[string]int)
		b.pending[ns] = keys
	}

	if idx, ok := keys[key]; ok {
		b.writes[idx].Value = clone(value)
		return nil
	}

	keys[key] = len(b.writes)
	b.writes = append(b.writes, Write{Namespace: ns, Key: key, Value: clone(value)})
	return nil
}

func (b *Buffer) ForEach(ns Namespace, fn func(key string, value []byte) error) error {
	merged := make(map[string][]byte)
	err := b.base.ForEach(ns, func(key string, value []byte) error {
		merged[key] = clone(value)
		return nil
	})
	if err != nil {
		return err
	}
	for key, idx := range b.pending[ns] {
		merged[key] = clone(b.writes[idx].Value)
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := fn(key, merged[key]); err != nil {
			return err
		}
	}
	return nil
}

// Writes returns the pending writes in first-write order; a key written
// twice appears once with its last value.
func (b *Buffer) Writes() []Write {
	out := make([]Write, len(b.writes))
	copy(out, b.writes)
	return out
}

func clone(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
