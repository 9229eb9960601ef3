// Package csv encodes and decodes the bulk product interchange format.
package csv

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cast"
)

// ImportRow mirrors one line of an uploaded CSV. Every field is read as text;
// normalization happens afterwards so one malformed cell never aborts the batch.
type ImportRow struct {
	Name     string `csv:"name"`
	Category string `csv:"category"`
	Stock    string `csv:"stock"`
	Status   string `csv:"status"`
	Image    string `csv:"image"`
}

// NormalizedRow is an ImportRow after the per-row defaulting policy.
type NormalizedRow struct {
	Name     string
	Category string
	Stock    int
	Image    string
}

// Normalize applies the per-row defaulting policy: blank name becomes
// "Unnamed Product", blank category becomes "General", unparseable stock
// becomes 0. The file's status column is ignored; status is derived from
// stock like every other write path.
func (r ImportRow) Normalize() NormalizedRow {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "Unnamed Product"
	}
	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = "General"
	}
	stock := cast.ToInt(strings.TrimSpace(r.Stock))
	if stock < 0 {
		stock = 0
	}
	return NormalizedRow{
		Name:     name,
		Category: category,
		Stock:    stock,
		Image:    strings.TrimSpace(r.Image),
	}
}

// ReadRows decodes an uploaded CSV stream. Columns beyond the known header
// set are ignored.
func ReadRows(r io.Reader) ([]ImportRow, error) {
	var rows []ImportRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ExportRow mirrors one line of the export dump.
type ExportRow struct {
	Name     string `csv:"name"`
	Unit     string `csv:"unit"`
	Category string `csv:"category"`
	Brand    string `csv:"brand"`
	Stock    int    `csv:"stock"`
	Status   string `csv:"status"`
	Image    string `csv:"image"`
}

// WriteRows encodes the export dump. Values containing commas or newlines are
// quoted by the underlying csv writer.
func WriteRows(w io.Writer, rows []ExportRow) error {
	return gocsv.Marshal(rows, w)
}
