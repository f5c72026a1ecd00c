package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Page applies skip/limit pagination with a stable created_at, id ordering.
func Page(params pagination.Params) func(*gorm.DB) *gorm.DB {
	params = params.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC").Order("id ASC").Offset(params.Skip).Limit(params.Limit)
	}
}
