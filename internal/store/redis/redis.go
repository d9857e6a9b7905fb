package redisstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
)

const (
	scanBatch           = 200
	conflictRetryWindow = 5 * time.Second
)

// Store is a kv.DB on Redis. Keys are "<prefix>:<namespace>:<key>". Writes are
// buffered during Update and flushed in one MULTI/EXEC when the callback
// succeeds. Every key read inside Update is WATCHed first, so the EXEC
// fails, and the whole callback runs again, when another client changed
// one of them in between.
type Store struct {
	client  *redis.Client
	prefix  string
	breaker *gobreaker.CircuitBreaker
}

func New(cfg config.RedisConfig, breaker *gobreaker.CircuitBreaker) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.KeyPrefix, breaker)
}

// NewWithClient takes an existing client; breaker may be nil.
func NewWithClient(client *redis.Client, prefix string, breaker *gobreaker.CircuitBreaker) *Store {
	return &Store{client: client, prefix: prefix, breaker: breaker}
}

func (s *Store) key(ns kv.Namespace, key string) string {
	return s.prefix + ":" + string(ns) + ":" + key
}

func (s *Store) call(fn func() (interface{}, error)) (interface{}, error) {
	if s.breaker == nil {
		return fn()
	}
	return s.breaker.Execute(fn)
}

func (s *Store) View(ctx context.Context, fn func(r kv.Reader) error) error {
	return fn(&reader{ctx: ctx, store: s, cmd: s.client})
}

func (s *Store) Update(ctx context.Context, fn func(tx kv.Tx) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 5 * time.Millisecond
	policy.MaxElapsedTime = conflictRetryWindow

	return backoff.Retry(func() error {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			return s.update(ctx, tx, fn)
		})
		if err != nil && !errors.Is(err, redis.TxFailedErr) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy, ctx))
}

func (s *Store) update(ctx context.Context, tx *redis.Tx, fn func(tx kv.Tx) error) error {
	buf := kv.NewBuffer(&reader{
		ctx:   ctx,
		store: s,
		cmd:   tx,
		watch: func(key string) error { return tx.Watch(ctx, key).Err() },
	})
	if err := fn(buf); err != nil {
		return err
	}

	writes := buf.Writes()
	if len(writes) == 0 {
		return nil
	}

	_, err := s.call(func() (interface{}, error) {
		return tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, w := range writes {
				pipe.Set(ctx, s.key(w.Namespace, w.Key), w.Value, 0)
			}
			return nil
		})
	})
	if err != nil {
		return errors.Wrap(err, "commit redis transaction")
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.call(func() (interface{}, error) {
		return s.client.Ping(ctx).Result()
	})
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}

// commander is the part of *redis.Client and *redis.Tx the reader uses.
type commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

type reader struct {
	ctx   context.Context
	store *Store
	cmd   commander
	// watch is set inside Update
	watch func(key string) error
}

func (r *reader) watched(key string) error {
	if r.watch == nil {
		return nil
	}
	return r.watch(key)
}

func (r *reader) Get(ns kv.Namespace, key string) ([]byte, error) {
	k := r.store.key(ns, key)
	v, err := r.store.call(func() (interface{}, error) {
		if err := r.watched(k); err != nil {
			return nil, err
		}
		return r.cmd.Get(r.ctx, k).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s/%s", ns, key)
	}
	return v.([]byte), nil
}

func (r *reader) Has(ns kv.Namespace, key string) (bool, error) {
	k := r.store.key(ns, key)
	v, err := r.store.call(func() (interface{}, error) {
		if err := r.watched(k); err != nil {
			return nil, err
		}
		return r.cmd.Exists(r.ctx, k).Result()
	})
	if err != nil {
		return false, errors.Wrapf(err, "has %s/%s", ns, key)
	}
	return v.(int64) > 0, nil
}

func (r *reader) ForEach(ns kv.Namespace, fn func(key string, value []byte) error) error {
	prefix := r.store.key(ns, "")

	// SCAN may return a key more than once
	seen := make(map[string]struct{})
	_, err := r.store.call(func() (interface{}, error) {
		iter := r.cmd.Scan(r.ctx, 0, prefix+"*", scanBatch).Iterator()
		for iter.Next(r.ctx) {
			seen[strings.TrimPrefix(iter.Val(), prefix)] = struct{}{}
		}
		return nil, iter.Err()
	})
	if err != nil {
		return errors.Wrapf(err, "scan %s", ns)
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, err := r.Get(ns, key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}
