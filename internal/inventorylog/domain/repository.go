package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	ListByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]Entry, error)
}
