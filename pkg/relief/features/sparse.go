package features

import (
	"math"
	"sort"
)

// SparseVector holds the non-zero entries of a row, sorted by index
type SparseVector struct {
	Indices []int32   `msgpack:"i"`
	Values  []float64 `msgpack:"v"`
}

// Get returns the value at index i
func (v SparseVector) Get(i int) float64 {
	k := sort.Search(len(v.Indices), func(j int) bool { return int(v.Indices[j]) >= i })
	if k < len(v.Indices) && int(v.Indices[k]) == i {
		return v.Values[k]
	}
	return 0
}

// Norm returns the Euclidean length of the vector
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Matrix is a row-major sparse matrix
type Matrix struct {
	Rows []SparseVector
	Dim  int
}

// Len returns the number of rows
func (m *Matrix) Len() int {
	return len(m.Rows)
}

// Subset returns a matrix sharing the selected rows
func (m *Matrix) Subset(idx []int) *Matrix {
	out := &Matrix{Rows: make([]SparseVector, len(idx)), Dim: m.Dim}
	for i, r := range idx {
		out.Rows[i] = m.Rows[r]
	}
	return out
}

// Entry is one non-zero cell of a column
type Entry struct {
	Row   int32
	Value float64
}

// CSC is a column index over a Matrix. Entries of each column are sorted by
// ascending value, then row; rows absent from a column hold zero.
type CSC struct {
	NumRows int
	Cols    [][]Entry
}

// NewCSC builds the column index of m
func NewCSC(m *Matrix) *CSC {
	c := &CSC{NumRows: m.Len(), Cols: make([][]Entry, m.Dim)}
	for r, row := range m.Rows {
		for k, idx := range row.Indices {
			c.Cols[idx] = append(c.Cols[idx], Entry{Row: int32(r), Value: row.Values[k]})
		}
	}
	for _, col := range c.Cols {
		sort.Slice(col, func(i, j int) bool {
			if col[i].Value != col[j].Value {
				return col[i].Value < col[j].Value
			}
			return col[i].Row < col[j].Row
		})
	}
	return c
}
