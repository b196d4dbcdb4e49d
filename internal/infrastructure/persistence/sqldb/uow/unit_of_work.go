package uow

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"menuhub/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork with gorm. Nested calls join the
// outer transaction through a savepoint.
type UnitOfWork struct {
	db *gorm.DB
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	base := u.db
	if existing := ports.TxFromContext(ctx); existing != nil {
		gormTx, ok := existing.(*gorm.DB)
		if !ok || gormTx == nil {
			return fmt.Errorf("invalid tx in context: %T", existing)
		}
		base = gormTx
	}

	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
}
