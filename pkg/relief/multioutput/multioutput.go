// Package multioutput fits one independent binary booster per label column.
package multioutput

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/relief/pkg/relief/boost"
	"github.com/cognicore/relief/pkg/relief/features"
)

var ErrShape = errors.New("label matrix shape mismatch")

// Classifier holds one booster per label, in label column order
type Classifier struct {
	Estimators []*boost.Classifier `msgpack:"estimators"`
}

// Fit trains one booster per column of y. y has one row per row of x.
// Up to workers boosters are trained at once; workers <= 0 uses every CPU.
func Fit(ctx context.Context, x *features.Matrix, y [][]int, p boost.Params, workers int) (*Classifier, error) {
	if len(y) != x.Len() {
		return nil, fmt.Errorf("%w: %d label rows, %d feature rows", ErrShape, len(y), x.Len())
	}
	if len(y) == 0 {
		return nil, boost.ErrNoRows
	}
	nLabels := len(y[0])
	for i, row := range y {
		if len(row) != nLabels {
			return nil, fmt.Errorf("%w: row %d has %d labels, want %d", ErrShape, i, len(row), nLabels)
		}
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	cols := features.NewCSC(x)
	c := &Classifier{Estimators: make([]*boost.Classifier, nLabels)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for j := range nLabels {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			column := make([]int, len(y))
			for i := range y {
				column[i] = y[i][j]
			}
			est, err := boost.FitColumns(gctx, x, cols, column, p)
			if err != nil {
				return fmt.Errorf("label %d: %w", j, err)
			}
			c.Estimators[j] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// NumLabels returns the number of fitted label columns
func (c *Classifier) NumLabels() int {
	return len(c.Estimators)
}

// PredictOne returns the label vector for one row
func (c *Classifier) PredictOne(v features.SparseVector) []int {
	out := make([]int, len(c.Estimators))
	for j, est := range c.Estimators {
		out[j] = est.Predict(v)
	}
	return out
}

// Predict returns one label vector per row of x
func (c *Classifier) Predict(x *features.Matrix) [][]int {
	out := make([][]int, x.Len())
	for i, row := range x.Rows {
		out[i] = c.PredictOne(row)
	}
	return out
}

// PredictProba returns per-label positive probabilities for one row
func (c *Classifier) PredictProba(v features.SparseVector) []float64 {
	out := make([]float64, len(c.Estimators))
	for j, est := range c.Estimators {
		out[j] = est.PredictProba(v)
	}
	return out
}
