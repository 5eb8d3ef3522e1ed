// Package boost fits gradient-boosted regression trees with logistic loss
// for binary classification over sparse, non-negative features.
//
// Trees are grown level by level with the exact greedy split search: every
// feature column is scanned once per level, in descending value order, and
// each active node accumulates the gradient statistics of its own rows. A
// row missing from a column holds zero and therefore always falls left.
package boost

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cognicore/relief/pkg/relief/features"
)

var (
	ErrNoRows          = errors.New("no training rows")
	ErrLabelMismatch   = errors.New("label count does not match rows")
	ErrNonBinaryLabel  = errors.New("label outside {0,1}")
	ErrNegativeFeature = errors.New("negative feature value")
)

// minHessian keeps leaf weights finite when predictions saturate
const minHessian = 1e-16

// minGain is the smallest loss reduction accepted for a split
const minGain = 1e-6

// Node is a tree node; Feature < 0 marks a leaf
type Node struct {
	Feature   int32   `msgpack:"f"`
	Threshold float64 `msgpack:"t"`
	Left      int32   `msgpack:"l"`
	Right     int32   `msgpack:"r"`
	Leaf      float64 `msgpack:"w"`
}

// Tree is a flat regression tree rooted at Nodes[0]
type Tree struct {
	Nodes []Node `msgpack:"nodes"`
}

// Predict returns the leaf weight reached by v.
// A row goes left when its feature value is below the threshold.
func (t *Tree) Predict(v features.SparseVector) float64 {
	nid := int32(0)
	for {
		n := &t.Nodes[nid]
		if n.Feature < 0 {
			return n.Leaf
		}
		if v.Get(int(n.Feature)) < n.Threshold {
			nid = n.Left
		} else {
			nid = n.Right
		}
	}
}

// Leaves counts leaf nodes
func (t *Tree) Leaves() int {
	n := 0
	for _, node := range t.Nodes {
		if node.Feature < 0 {
			n++
		}
	}
	return n
}

// Classifier is a fitted binary booster
type Classifier struct {
	Params     Params  `msgpack:"params"`
	BaseMargin float64 `msgpack:"base_margin"`
	Trees      []Tree  `msgpack:"trees"`
}

// Fit trains a classifier on x and binary labels y
func Fit(ctx context.Context, x *features.Matrix, y []int, p Params) (*Classifier, error) {
	return FitColumns(ctx, x, features.NewCSC(x), y, p)
}

// FitColumns trains with a prebuilt column index of x. The index is only
// read, so one index can serve several concurrent fits.
func FitColumns(ctx context.Context, x *features.Matrix, cols *features.CSC, y []int, p Params) (*Classifier, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := x.Len()
	if n == 0 {
		return nil, ErrNoRows
	}
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d labels, %d rows", ErrLabelMismatch, len(y), n)
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("%w: row %d has %d", ErrNonBinaryLabel, i, v)
		}
	}
	for f, col := range cols.Cols {
		if len(col) > 0 && col[0].Value < 0 {
			return nil, fmt.Errorf("%w: feature %d", ErrNegativeFeature, f)
		}
	}

	c := &Classifier{
		Params:     p,
		BaseMargin: math.Log(p.BaseScore / (1 - p.BaseScore)),
		Trees:      make([]Tree, 0, p.NEstimators),
	}

	margin := make([]float64, n)
	for i := range margin {
		margin[i] = c.BaseMargin
	}
	g := make([]float64, n)
	h := make([]float64, n)
	b := &treeBuilder{x: x, cols: cols, p: p, pos: make([]int32, n)}

	for round := 0; round < p.NEstimators; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range margin {
			pr := sigmoid(margin[i])
			g[i] = pr - float64(y[i])
			h[i] = math.Max(pr*(1-pr), minHessian)
		}

		tree, leafOf := b.build(g, h)
		for i := range margin {
			margin[i] += tree.Nodes[leafOf[i]].Leaf
		}
		c.Trees = append(c.Trees, tree)
	}
	return c, nil
}

// Margin returns the raw log-odds score of v
func (c *Classifier) Margin(v features.SparseVector) float64 {
	m := c.BaseMargin
	for i := range c.Trees {
		m += c.Trees[i].Predict(v)
	}
	return m
}

// PredictProba returns P(label = 1 | v)
func (c *Classifier) PredictProba(v features.SparseVector) float64 {
	return sigmoid(c.Margin(v))
}

// Predict returns 1 when the positive probability exceeds 0.5
func (c *Classifier) Predict(v features.SparseVector) int {
	if c.Margin(v) > 0 {
		return 1
	}
	return 0
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
