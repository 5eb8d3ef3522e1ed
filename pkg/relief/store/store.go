package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/relief/pkg/relief/dataset"
)

// DefaultTable is the table the builder writes and the trainer reads
const DefaultTable = "DisasterResponse"

var ErrTableNotFound = errors.New("table not found")

// Store persists cleaned datasets as named tables
type Store interface {
	Close() error

	// ReplaceDataset drops any existing table of the same name and writes ds.
	ReplaceDataset(ctx context.Context, table string, ds *dataset.Dataset) error

	// LoadTable reads a full table, preserving column order.
	LoadTable(ctx context.Context, table string) (*Frame, error)

	Tables(ctx context.Context) ([]string, error)
}

// ColumnType is the storage class of a column
type ColumnType int

const (
	Text ColumnType = iota
	Integer
)

// SQL returns the column's declared type
func (c ColumnType) SQL() string {
	if c == Integer {
		return "INTEGER"
	}
	return "TEXT"
}

// Frame is a table read back from a store.
// Cells are nil (NULL), int64 or string.
type Frame struct {
	Columns []string
	Types   []ColumnType
	Rows    [][]any
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Index returns the position of a column by name
func (f *Frame) Index(name string) (int, bool) {
	for i, c := range f.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Strings returns a column rendered as text; NULL becomes "".
func (f *Frame) Strings(name string) ([]string, error) {
	idx, ok := f.Index(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", dataset.ErrMissingColumn, name)
	}
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = AsString(row[idx])
	}
	return out, nil
}

// Labels returns every column from position from onward as an integer
// matrix (one row per record) along with the column names.
func (f *Frame) Labels(from int) ([][]int, []string, error) {
	if from < 0 || from >= len(f.Columns) {
		return nil, nil, fmt.Errorf("%w: no label columns from position %d of %d", dataset.ErrMissingColumn, from, len(f.Columns))
	}
	names := append([]string{}, f.Columns[from:]...)
	y := make([][]int, len(f.Rows))
	for i, row := range f.Rows {
		y[i] = make([]int, len(names))
		for j := range names {
			v, err := AsInt(row[from+j])
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %s: %w", i, names[j], err)
			}
			y[i][j] = int(v)
		}
	}
	return y, names, nil
}

// FromDataset converts a cleaned dataset into a frame. Base columns whose
// non-empty cells all parse as integers are typed Integer; empty cells
// become NULL.
func FromDataset(ds *dataset.Dataset) *Frame {
	nBase := len(ds.BaseColumns)
	f := &Frame{
		Columns: ds.Columns(),
		Types:   make([]ColumnType, len(ds.BaseColumns)+len(ds.Categories)),
		Rows:    make([][]any, len(ds.Records)),
	}

	for j := range ds.BaseColumns {
		f.Types[j] = Integer
		for _, r := range ds.Records {
			cell := strings.TrimSpace(r.Base[j])
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				f.Types[j] = Text
				break
			}
		}
	}
	for j := range ds.Categories {
		f.Types[nBase+j] = Integer
	}

	for i, r := range ds.Records {
		row := make([]any, 0, len(f.Columns))
		for j, cell := range r.Base {
			trimmed := strings.TrimSpace(cell)
			switch {
			case cell == "", f.Types[j] == Integer && trimmed == "":
				row = append(row, nil)
			case f.Types[j] == Integer:
				v, _ := strconv.ParseInt(trimmed, 10, 64)
				row = append(row, v)
			default:
				row = append(row, cell)
			}
		}
		for _, v := range r.Labels {
			row = append(row, int64(v))
		}
		f.Rows[i] = row
	}
	return f
}

// AsString renders a cell as text
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// AsInt reads a cell as an integer
func AsInt(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("non-integer value %v", x)
		}
		return int64(x), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
	case nil:
		return 0, errors.New("NULL value")
	default:
		return 0, fmt.Errorf("unsupported value %T", v)
	}
}
