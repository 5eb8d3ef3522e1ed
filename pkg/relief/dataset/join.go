package dataset

import (
	"fmt"
	"strings"

	"github.com/cognicore/relief/internal/records"
)

// JoinStats reports how many rows survived an inner join
type JoinStats struct {
	Left           int
	Right          int
	Joined         int
	UnmatchedLeft  int // left rows with no partner, dropped
	UnmatchedRight int // right rows with no partner, dropped
}

// Join performs an inner join of left and right on the key column.
//
// Output columns are every left column followed by every right column except
// the key. Rows are ordered by left row, then by right row for keys that
// repeat on the right. Rows whose key appears on one side only are dropped.
func Join(left, right *records.Table, key string) (*records.Table, JoinStats, error) {
	stats := JoinStats{Left: left.Len(), Right: right.Len()}

	lk, ok := left.Index(key)
	if !ok {
		return nil, stats, fmt.Errorf("left table: %w: %s", ErrMissingColumn, key)
	}
	rk, ok := right.Index(key)
	if !ok {
		return nil, stats, fmt.Errorf("right table: %w: %s", ErrMissingColumn, key)
	}

	byKey := make(map[string][]int, right.Len())
	for i, row := range right.Rows {
		k := strings.TrimSpace(row[rk])
		byKey[k] = append(byKey[k], i)
	}

	columns := append([]string{}, left.Columns...)
	for i, c := range right.Columns {
		if i == rk {
			continue
		}
		columns = append(columns, c)
	}

	out := &records.Table{Columns: columns}
	matched := make(map[string]struct{}, len(byKey))
	for _, lrow := range left.Rows {
		k := strings.TrimSpace(lrow[lk])
		partners := byKey[k]
		if len(partners) == 0 {
			stats.UnmatchedLeft++
			continue
		}
		matched[k] = struct{}{}
		for _, ri := range partners {
			row := make([]string, 0, len(columns))
			row = append(row, lrow...)
			for j, cell := range right.Rows[ri] {
				if j == rk {
					continue
				}
				row = append(row, cell)
			}
			out.Rows = append(out.Rows, row)
		}
	}

	for k, idx := range byKey {
		if _, ok := matched[k]; !ok {
			stats.UnmatchedRight += len(idx)
		}
	}
	stats.Joined = out.Len()
	return out, stats, nil
}
