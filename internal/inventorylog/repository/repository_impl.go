package repository

import (
	"context"

	"github.com/openshelf/stockroom/internal/inventorylog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO inventory_logs (id, product_id, old_quantity, new_quantity, delta, actor, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ProductID,
		entry.OldQuantity,
		entry.NewQuantity,
		entry.Delta,
		entry.Actor,
		entry.CreatedAt,
	).Error
}

func (r *repo) ListByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, old_quantity, new_quantity, delta, actor, created_at
		 FROM inventory_logs WHERE product_id = ?
		 ORDER BY created_at DESC, id DESC`,
		productID,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
