package model

import "time"

// KVEntry is one row of the postgres-backed key-value store.
type KVEntry struct {
	Namespace string    `gorm:"column:namespace;primaryKey;type:varchar(64)"`
	Key       string    `gorm:"column:key;primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"column:value;type:bytea;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
