// internal/app/system/csvutil/products.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Upload size and row limits for CSV processing.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)

// ProductRow is one normalized row from a product upload. Prices are in
// whole rupees, matching the catalog.
type ProductRow struct {
	Name        string
	Category    string
	Price       int
	MRP         int
	Stock       int
	Weight      string
	Description string
}

// RowError describes one rejected line of the upload.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Columns: name, category, price, mrp, stock, weight, description.
// Only the first three are required; mrp/stock default to 0.
var productHeader = []string{"name", "category", "price", "mrp", "stock", "weight", "description"}

// PreScanProductsCSV reads all rows from r, skips a header if present,
// and validates every row before anything is written. It returns either
// the normalized rows or the per-line problems; an upload with any bad
// row imports nothing.
func PreScanProductsCSV(r io.Reader) ([]ProductRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	line := 1
	var raw [][]string
	var lines []int
	if !isProductHeader(first) {
		raw = append(raw, first)
		lines = append(lines, line)
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(raw) >= MaxRows {
			return nil, nil, fmt.Errorf("too many rows (max %d)", MaxRows)
		}
		raw = append(raw, rec)
		lines = append(lines, line)
	}

	var rows []ProductRow
	var errs []RowError
	for i, rec := range raw {
		row, problems := parseProductRow(rec)
		if row == nil && len(problems) == 0 {
			continue // blank line
		}
		for _, p := range problems {
			errs = append(errs, RowError{Line: lines[i], Reason: p})
		}
		if row != nil && len(problems) == 0 {
			rows = append(rows, *row)
		}
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}
	return rows, nil, nil
}

func isProductHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	// A line whose first cells match the canonical column names is a header.
	for i, cell := range rec {
		if i >= len(productHeader) {
			break
		}
		if !strings.EqualFold(strings.TrimSpace(cell), productHeader[i]) {
			return false
		}
	}
	return true
}

func parseProductRow(rec []string) (*ProductRow, []string) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	row := ProductRow{
		Name:        field(0),
		Category:    field(1),
		Weight:      field(5),
		Description: field(6),
	}

	blank := row.Name == "" && row.Category == "" && field(2) == ""
	if blank {
		return nil, nil
	}

	var problems []string
	if row.Name == "" {
		problems = append(problems, "missing name")
	}
	if row.Category == "" {
		problems = append(problems, "missing category")
	}

	parseInt := func(i int, label string, required bool) int {
		s := field(i)
		if s == "" {
			if required {
				problems = append(problems, "missing "+label)
			}
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			problems = append(problems, label+" must be a non-negative whole number")
			return 0
		}
		return n
	}

	row.Price = parseInt(2, "price", true)
	row.MRP = parseInt(3, "mrp", false)
	row.Stock = parseInt(4, "stock", false)

	if len(problems) > 0 {
		return nil, problems
	}
	return &row, nil
}
