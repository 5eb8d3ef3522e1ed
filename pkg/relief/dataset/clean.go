package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/relief/internal/records"
)

// Rules configures the category expansion and preprocessing applied by Clean
type Rules struct {
	CategoryColumn string
	Delimiter      string

	// Categories fixes the expected category names and order. Empty takes
	// them from the first row.
	Categories []string

	// DropColumns lists categories removed after expansion. Names absent
	// from the data are skipped.
	DropColumns []string

	// DropZeroVariance also removes any category whose value is the same
	// on every row.
	DropZeroVariance bool

	// Collapse rewrites values per category, e.g. related: {2: 1}.
	Collapse map[string]map[int]int
}

// DefaultRules returns the rules for the disaster-response corpus:
// child_alone is zero on every row of that corpus and related uses 2 for
// an ambiguous "related" that is treated as 1.
func DefaultRules() Rules {
	return Rules{
		CategoryColumn: "categories",
		Delimiter:      ";",
		DropColumns:    []string{"child_alone"},
		Collapse: map[string]map[int]int{
			"related": {2: 1},
		},
	}
}

// CleanStats summarizes what Clean removed
type CleanStats struct {
	Rows           int
	Duplicates     int
	DroppedColumns []string
	Collapsed      int
}

// Clean expands the category column of a joined table into one integer
// column per category, applies rules and removes duplicate rows.
func Clean(joined *records.Table, rules Rules) (*Dataset, CleanStats, error) {
	var stats CleanStats
	if rules.CategoryColumn == "" {
		rules.CategoryColumn = "categories"
	}
	if rules.Delimiter == "" {
		rules.Delimiter = ";"
	}

	catIdx, ok := joined.Index(rules.CategoryColumn)
	if !ok {
		return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumn, rules.CategoryColumn)
	}
	if joined.Len() == 0 {
		return nil, stats, fmt.Errorf("clean: %w", ErrNoRows)
	}

	var schema *Schema
	if len(rules.Categories) > 0 {
		schema = NewSchema(rules.Categories, rules.Delimiter)
	} else {
		var err error
		if schema, err = DeriveSchema(joined.Rows[0][catIdx], rules.Delimiter); err != nil {
			return nil, stats, fmt.Errorf("row 0: %w", err)
		}
	}

	ds := &Dataset{Categories: schema.Names()}
	for i, c := range joined.Columns {
		if i != catIdx {
			ds.BaseColumns = append(ds.BaseColumns, c)
		}
	}

	ds.Records = make([]Record, joined.Len())
	for i, row := range joined.Rows {
		labels, err := schema.Decode(row[catIdx])
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", i, err)
		}
		base := make([]string, 0, len(row)-1)
		base = append(base, row[:catIdx]...)
		base = append(base, row[catIdx+1:]...)
		ds.Records[i] = Record{Base: base, Labels: labels}
	}

	for _, name := range rules.DropColumns {
		if idx := indexOf(ds.Categories, name); idx >= 0 {
			ds.dropCategory(idx)
			stats.DroppedColumns = append(stats.DroppedColumns, name)
		}
	}
	if rules.DropZeroVariance {
		stats.DroppedColumns = append(stats.DroppedColumns, dropConstant(ds)...)
	}

	stats.Collapsed = collapse(ds, rules.Collapse)

	if err := checkBinary(ds); err != nil {
		return nil, stats, err
	}

	stats.Duplicates = Dedup(ds)
	stats.Rows = ds.Len()
	return ds, stats, nil
}

// dropConstant removes categories with a single distinct value
func dropConstant(ds *Dataset) []string {
	var dropped []string
	for idx := len(ds.Categories) - 1; idx >= 0; idx-- {
		constant := true
		for _, r := range ds.Records[1:] {
			if r.Labels[idx] != ds.Records[0].Labels[idx] {
				constant = false
				break
			}
		}
		if constant {
			dropped = append(dropped, ds.Categories[idx])
			ds.dropCategory(idx)
		}
	}
	sort.Strings(dropped)
	return dropped
}

func collapse(ds *Dataset, rules map[string]map[int]int) int {
	n := 0
	for name, mapping := range rules {
		idx := indexOf(ds.Categories, name)
		if idx < 0 {
			continue
		}
		for i := range ds.Records {
			if to, ok := mapping[ds.Records[i].Labels[idx]]; ok {
				ds.Records[i].Labels[idx] = to
				n++
			}
		}
	}
	return n
}

func checkBinary(ds *Dataset) error {
	for i, r := range ds.Records {
		for j, v := range r.Labels {
			if v != 0 && v != 1 {
				return fmt.Errorf("row %d: %w: %s=%d", i, ErrNonBinary, ds.Categories[j], v)
			}
		}
	}
	return nil
}

// Dedup removes rows equal in every column, keeping the first occurrence.
// It returns the number of rows removed.
func Dedup(ds *Dataset) int {
	seen := make(map[string]struct{}, len(ds.Records))
	kept := ds.Records[:0]
	var b strings.Builder
	for _, r := range ds.Records {
		b.Reset()
		for _, cell := range r.Base {
			b.WriteString(strconv.Quote(cell))
			b.WriteByte(',')
		}
		for _, v := range r.Labels {
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(',')
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}
	removed := len(ds.Records) - len(kept)
	ds.Records = kept
	return removed
}
