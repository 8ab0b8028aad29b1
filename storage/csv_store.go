package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"yelp-sampler/models"
)

// Table is an in-memory CSV dataset: a header row plus data rows. Cells are
// addressed by column name so datasets written by older runs with different
// column sets can still be read.
type Table struct {
	Header []string
	Rows   [][]string

	cols map[string]int
}

// NewTable creates an empty table with the given header.
func NewTable(header []string) *Table {
	t := &Table{Header: append([]string(nil), header...)}
	t.index()
	return t
}

func (t *Table) index() {
	t.cols = make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		t.cols[name] = i
	}
}

// Col returns the index of the named column, or -1 when absent.
func (t *Table) Col(name string) int {
	i, ok := t.cols[name]
	if !ok {
		return -1
	}
	return i
}

// Cell returns the value of the named column in row, or "" when the column
// is absent or the row is short.
func (t *Table) Cell(row []string, name string) string {
	i := t.Col(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Append adds a data row. Short rows are padded to the header width.
func (t *Table) Append(row []string) {
	for len(row) < len(t.Header) {
		row = append(row, "")
	}
	t.Rows = append(t.Rows, row)
}

// ReadTable loads the CSV dataset at path. A missing file yields a
// *models.ReferenceDataMissingError so callers can abort before producing
// partial output.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &models.ReferenceDataMissingError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged historical rows

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return NewTable(nil), nil
	}

	t := NewTable(records[0])
	for _, row := range records[1:] {
		t.Append(row)
	}
	return t, nil
}

// WriteTable persists the table to path, creating intermediate directories.
// The write replaces any existing file in one pass so the dataset on disk is
// always a complete header-plus-rows CSV.
func WriteTable(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// AppendTable merges rows into the dataset at path. When no dataset exists,
// the new rows become the dataset. Otherwise existing rows are preserved in
// file order as a prefix, the new rows follow in their given order, and
// columns are aligned by header name (a column unknown to one side is
// filled with empty cells). No deduplication happens here: the raw dataset
// is an append-only log of every query result.
func AppendTable(path string, rows *Table) error {
	existing, err := ReadTable(path)
	if err != nil {
		var missing *models.ReferenceDataMissingError
		if !errors.As(err, &missing) {
			return err
		}
		return WriteTable(path, rows)
	}
	if len(existing.Header) == 0 {
		return WriteTable(path, rows)
	}

	merged := NewTable(existing.Header)
	for _, name := range rows.Header {
		if merged.Col(name) < 0 {
			merged.Header = append(merged.Header, name)
			merged.index()
		}
	}

	for _, row := range existing.Rows {
		out := make([]string, len(merged.Header))
		for i, name := range existing.Header {
			if i < len(row) {
				out[merged.Col(name)] = row[i]
			}
		}
		merged.Append(out)
	}
	for _, row := range rows.Rows {
		out := make([]string, len(merged.Header))
		for i, name := range rows.Header {
			if i < len(row) {
				out[merged.Col(name)] = row[i]
			}
		}
		merged.Append(out)
	}

	return WriteTable(path, merged)
}
