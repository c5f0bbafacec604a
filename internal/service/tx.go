// Package service contains the business rules of the skill exchange.
package service

import (
	"context"

	"gorm.io/gorm"
)

// TxFunc runs fn inside one database transaction. Returning an error from fn
// rolls the transaction back.
type TxFunc func(ctx context.Context, fn func(tx *gorm.DB) error) error

// GormTx returns a TxFunc backed by db.Transaction.
func GormTx(db *gorm.DB) TxFunc {
	return func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return db.WithContext(ctx).Transaction(fn)
	}
}
