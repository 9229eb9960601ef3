package pagination

import "strconv"

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 250
)

// Pagination is a 1-indexed page window over a filtered result set.
type Pagination struct {
	Page int `form:"page"`
	Size int `form:"limit"`
}

// Normalize clamps the window to valid bounds. Missing or malformed values
// fall back to defaults rather than erroring.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

// Parse builds a Pagination from raw query string values.
func Parse(page, limit string) Pagination {
	p := Pagination{}
	if v, err := strconv.Atoi(page); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(limit); err == nil {
		p.Size = v
	}
	return p.Normalize()
}
