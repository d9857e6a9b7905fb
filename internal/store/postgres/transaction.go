package pgstore

import (
	"database/sql"

	"gorm.io/gorm"
)

// DoInTx runs fn inside a database transaction, rolling back when fn fails.
func DoInTx(db *gorm.DB, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	tx := db.Begin(opts...)
	if tx.Error != nil {
		return tx.Error
	}

	err := fn(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
