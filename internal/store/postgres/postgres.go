package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
)

const (
	// SQLSTATE codes postgres uses to abort one of two conflicting transactions
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	conflictRetryWindow = 5 * time.Second
)

var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

// PostgresStore is a kv.DB over the kv_entries table. Updates run
// SERIALIZABLE, so replicas sharing the table cannot both act on the same
// read; the losing transaction is retried from the start.
type PostgresStore struct {
	db *gorm.DB
}

func New(appConfig *config.AppConfig) (*PostgresStore, error) {
	conn, err := connectPostgres(appConfig)
	if err != nil {
		return nil, err
	}

	return NewWithDB(conn), nil
}

func NewWithDB(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// DB exposes the connection for migrations.
func (s *PostgresStore) DB() *gorm.DB {
	return s.db
}

func connectPostgres(appConfig *config.AppConfig) (*gorm.DB, error) {
	ds := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		appConfig.Postgres.Host,
		appConfig.Postgres.User,
		appConfig.Postgres.Pass,
		appConfig.Postgres.Name,
		appConfig.Postgres.Port,
		appConfig.Postgres.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(ds),
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: false,
			},
		})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

func (s *PostgresStore) View(ctx context.Context, fn func(r kv.Reader) error) error {
	return fn(&gormTx{db: s.db.WithContext(ctx)})
}

func (s *PostgresStore) Update(ctx context.Context, fn func(tx kv.Tx) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxElapsedTime = conflictRetryWindow

	return backoff.Retry(func() error {
		err := DoInTx(s.db.WithContext(ctx), func(tx *gorm.DB) error {
			return fn(&gormTx{db: tx})
		}, serializable)
		if err != nil && !isConflict(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy, ctx))
}

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Get(ns kv.Namespace, key string) ([]byte, error) {
	var entry model.KVEntry
	err := t.db.Where("namespace = ? AND key = ?", string(ns), key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s/%s", ns, key)
	}
	return entry.Value, nil
}

func (t *gormTx) Has(ns kv.Namespace, key string) (bool, error) {
	var count int64
	err := t.db.Model(&model.KVEntry{}).
		Where("namespace = ? AND key = ?", string(ns), key).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrapf(err, "has %s/%s", ns, key)
	}
	return count > 0, nil
}

func (t *gormTx) Put(ns kv.Namespace, key string, value []byte) error {
	entry := model.KVEntry{
		Namespace: string(ns),
		Key:       key,
		Value:     value,
	}
	err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return errors.Wrapf(err, "put %s/%s", ns, key)
	}
	return nil
}

func (t *gormTx) ForEach(ns kv.Namespace, fn func(key string, value []byte) error) error {
	var entries []model.KVEntry
	// byte order, to match the other backends
	err := t.db.Where("namespace = ?", string(ns)).
		Order(`key COLLATE "C"`).
		Find(&entries).Error
	if err != nil {
		return errors.Wrapf(err, "list %s", ns)
	}

	for _, entry := range entries {
		if err := fn(entry.Key, entry.Value); err != nil {
			return err
		}
	}
	return nil
}
