package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Name     string
	Category string
	SortBy   string
	OrderBy  string
	Offset   int
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Product, int64, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
