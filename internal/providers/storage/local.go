package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider writes uploads to a directory on disk and serves them under
// a public base path.
type LocalProvider struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*LocalProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &LocalProvider{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (p *LocalProvider) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	_ = ctx

	// filename is generated by the caller; strip any path components anyway
	filename = filepath.Base(filename)

	dst, err := os.Create(filepath.Join(p.dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return p.baseURL + "/" + filename, nil
}
