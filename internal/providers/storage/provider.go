package storage

import (
	"context"
	"io"
)

// Provider stores uploaded files and returns a URL the browser can fetch.
type Provider interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}
