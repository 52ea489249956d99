// Package tabular reads batch prediction files (CSV and XLSX) into ordered
// rows keyed by column header.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/i474232898/temperature-prediction/internal/common"
)

var (
	// ErrUnsupportedFormat is returned when a file name has no known tabular extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMalformed is returned when a file cannot be read as a table.
	ErrMalformed = errors.New("malformed tabular data")
)

// Row is one data row. Index is 1-based and counts data rows only.
type Row struct {
	Index  int
	values map[string]string
}

// NewRow builds a Row from header -> cell pairs.
func NewRow(index int, values map[string]string) Row {
	return Row{Index: index, values: values}
}

// Get returns the cell under column and whether the row has it.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Parser turns a stream into rows, preserving their order.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
}

// Format is a supported tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Detect picks the format from the file name extension.
func Detect(filename string) (Format, error) {
	switch {
	case common.HasAnyExt(filename, ".csv"):
		return FormatCSV, nil
	case common.HasAnyExt(filename, ".xlsx"):
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, filename)
	}
}

// ParserFor returns the parser for a detected format.
func ParserFor(f Format) (Parser, error) {
	switch f {
	case FormatCSV:
		return CSVParser{}, nil
	case FormatXLSX:
		return XLSXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// ForFile combines Detect and ParserFor. Nothing is read from the file.
func ForFile(filename string) (Parser, error) {
	f, err := Detect(filename)
	if err != nil {
		return nil, err
	}
	return ParserFor(f)
}

// buildRows keys each record by header. The first occurrence of a duplicate
// header wins; cells past the header width are dropped and short records
// simply lack the trailing columns.
func buildRows(header []string, records [][]string) []Row {
	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		cols[i] = h
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		values := make(map[string]string, len(cols))
		for i, cell := range rec {
			if i >= len(cols) || cols[i] == "" {
				continue
			}
			values[cols[i]] = cell
		}
		rows = append(rows, NewRow(len(rows)+1, values))
	}
	return rows
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
