package repository

import (
	"context"
	"strings"

	"github.com/openshelf/stockroom/internal/product/domain"
	"gorm.io/gorm"
)

// allowed sort columns, to keep caller-supplied sort fields out of the SQL
var sortColumns = map[string]string{
	"name":       "name",
	"unit":       "unit",
	"category":   "category",
	"brand":      "brand",
	"stock":      "stock",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, unit, category, brand, stock, status, image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Unit,
		product.Category,
		product.Brand,
		product.Stock,
		product.Status,
		product.Image,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, unit, category, brand, stock, status, image, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, unit, category, brand, stock, status, image, created_at, updated_at
		 FROM products ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Product, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Product{})

	if name := strings.TrimSpace(filter.Name); name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		stmt = stmt.Where("category = ?", category)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[strings.TrimSpace(filter.SortBy)]
	if !ok {
		column = "name"
	}
	order := "asc"
	if strings.EqualFold(strings.TrimSpace(filter.OrderBy), "desc") {
		order = "desc"
	}
	stmt = stmt.Order(column + " " + order)

	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var items []domain.Product
	if err := stmt.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, unit = ?, category = ?, brand = ?, stock = ?, status = ?, image = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name,
		product.Unit,
		product.Category,
		product.Brand,
		product.Stock,
		product.Status,
		product.Image,
		product.UpdatedAt,
		product.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM products WHERE id = ?`, id).Error
}
