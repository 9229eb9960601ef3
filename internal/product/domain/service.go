package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) ([]HistoryEntry, error)
	Import(ctx context.Context, r io.Reader) (int, error)
	Export(ctx context.Context, w io.Writer) error
}

type CreateRequest struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Stock    *int   `json:"stock"`
	Image    string `json:"image"`
}

// UpdateRequest carries a partial update. Nil fields keep their stored
// values; Status is deliberately absent because it is always derived.
type UpdateRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name"`
	Unit     *string `json:"unit"`
	Category *string `json:"category"`
	Brand    *string `json:"brand"`
	Stock    *int    `json:"stock"`
	Image    *string `json:"image"`
}

type ListRequest struct {
	Name     string
	Category string
	Page     int
	Size     int
	SortBy   string
	OrderBy  string
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	Brand     string    `json:"brand"`
	Stock     int       `json:"stock"`
	Status    string    `json:"status"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListResponse struct {
	Items []Response `json:"items"`
	Total int64      `json:"total"`
}

type HistoryEntry struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	Delta       int       `json:"delta"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidStock = errors.New("invalid_stock")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
