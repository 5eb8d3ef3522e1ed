// Package dataset turns joined message/category records into the cleaned,
// one-column-per-category table the trainer consumes.
package dataset

import "errors"

var (
	ErrMissingColumn  = errors.New("missing column")
	ErrBadFlag        = errors.New("malformed category flag")
	ErrSchemaMismatch = errors.New("category schema mismatch")
	ErrNonBinary      = errors.New("category value outside {0,1}")
	ErrNoRows         = errors.New("no rows")
)

// Record is one cleaned row: the base cells followed by category labels
type Record struct {
	Base   []string
	Labels []int
}

// Dataset is the cleaned table. Column order is BaseColumns then Categories.
type Dataset struct {
	BaseColumns []string
	Categories  []string
	Records     []Record
}

// Columns returns every column name in stored order
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, len(d.BaseColumns)+len(d.Categories))
	cols = append(cols, d.BaseColumns...)
	return append(cols, d.Categories...)
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Label returns the values of one category column
func (d *Dataset) Label(name string) ([]int, bool) {
	idx := indexOf(d.Categories, name)
	if idx < 0 {
		return nil, false
	}
	out := make([]int, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Labels[idx]
	}
	return out, true
}

// Base returns the values of one base column
func (d *Dataset) Base(name string) ([]string, bool) {
	idx := indexOf(d.BaseColumns, name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Base[idx]
	}
	return out, true
}

// dropCategory removes a category column from every record
func (d *Dataset) dropCategory(idx int) {
	d.Categories = append(d.Categories[:idx], d.Categories[idx+1:]...)
	for i := range d.Records {
		labels := d.Records[i].Labels
		d.Records[i].Labels = append(labels[:idx], labels[idx+1:]...)
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
