package kv

import (
	"context"
	"errors"
)

// Namespace partitions the key space, like a table or a bucket.
type Namespace string

const (
	NamespaceSwaps     Namespace = "swaps"
	NamespaceUserSwaps Namespace = "user_swaps"
	NamespaceBalances  Namespace = "balances"
)

// Namespaces lists every namespace a backend must provision.
var Namespaces = []Namespace{NamespaceSwaps, NamespaceUserSwaps, NamespaceBalances}

var ErrNotFound = errors.New("key not found")

type Reader interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ns Namespace, key string) ([]byte, error)
	Has(ns Namespace, key string) (bool, error)
	// ForEach visits the namespace in ascending key order.
	ForEach(ns Namespace, fn func(key string, value []byte) error) error
}

type Tx interface {
	Reader
	Put(ns Namespace, key string, value []byte) error
}

// DB is the transaction boundary. Update commits the writes made through tx
// only when fn returns nil; any error discards all of them.
type DB interface {
	View(ctx context.Context, fn func(r Reader) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
