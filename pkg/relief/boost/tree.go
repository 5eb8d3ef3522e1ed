package boost

import (
	"github.com/cognicore/relief/pkg/relief/features"
)

// nodeStat holds gradient and hessian sums of the rows in a node
type nodeStat struct {
	G, H float64
}

type split struct {
	ok        bool
	feature   int32
	threshold float64
	gain      float64
	right     nodeStat
}

type treeBuilder struct {
	x    *features.Matrix
	cols *features.CSC
	p    Params
	pos  []int32 // row -> node holding it
}

// build grows one tree and returns it with the leaf of every row
func (b *treeBuilder) build(g, h []float64) (Tree, []int32) {
	var root nodeStat
	for i := range g {
		root.G += g[i]
		root.H += h[i]
		b.pos[i] = 0
	}

	tree := Tree{Nodes: []Node{{Feature: -1}}}
	stats := []nodeStat{root}
	active := []int32{0}

	for depth := 0; depth < b.p.MaxDepth && len(active) > 0; depth++ {
		splits := b.findSplits(active, g, h, stats)

		var next []int32
		for k, nid := range active {
			s := splits[k]
			if !s.ok {
				continue
			}
			left := int32(len(tree.Nodes))
			right := left + 1
			tree.Nodes[nid].Feature = s.feature
			tree.Nodes[nid].Threshold = s.threshold
			tree.Nodes[nid].Left = left
			tree.Nodes[nid].Right = right
			tree.Nodes = append(tree.Nodes, Node{Feature: -1}, Node{Feature: -1})

			parent := stats[nid]
			stats = append(stats,
				nodeStat{G: parent.G - s.right.G, H: parent.H - s.right.H},
				s.right,
			)
			next = append(next, left, right)
		}
		if len(next) == 0 {
			break
		}

		for i := range b.pos {
			n := &tree.Nodes[b.pos[i]]
			if n.Feature < 0 {
				continue
			}
			if b.x.Rows[i].Get(int(n.Feature)) < n.Threshold {
				b.pos[i] = n.Left
			} else {
				b.pos[i] = n.Right
			}
		}
		active = next
	}

	for nid := range tree.Nodes {
		if tree.Nodes[nid].Feature < 0 {
			s := stats[nid]
			tree.Nodes[nid].Leaf = -s.G / (s.H + b.p.Lambda) * b.p.LearningRate
		}
	}
	return tree, b.pos
}

// findSplits returns the best split of each active node, if any
func (b *treeBuilder) findSplits(active []int32, g, h []float64, stats []nodeStat) []split {
	slot := make([]int, len(stats))
	for i := range slot {
		slot[i] = -1
	}
	for k, nid := range active {
		slot[nid] = k
	}

	best := make([]split, len(active))
	acc := make([]nodeStat, len(active))
	last := make([]float64, len(active))
	seen := make([]bool, len(active))

	for f, col := range b.cols.Cols {
		if len(col) == 0 {
			continue
		}
		for k := range active {
			acc[k] = nodeStat{}
			seen[k] = false
		}

		// Descending scan: acc holds the rows with value >= last.
		for e := len(col) - 1; e >= 0; e-- {
			ent := col[e]
			k := slot[b.pos[ent.Row]]
			if k < 0 {
				continue
			}
			if seen[k] && ent.Value != last[k] {
				b.try(&best[k], stats[active[k]], acc[k], int32(f), (ent.Value+last[k])/2)
			}
			acc[k].G += g[ent.Row]
			acc[k].H += h[ent.Row]
			last[k] = ent.Value
			seen[k] = true
		}

		// Split every non-zero row of the node away from its zero rows.
		for k := range active {
			if seen[k] && last[k] > 0 {
				b.try(&best[k], stats[active[k]], acc[k], int32(f), last[k]/2)
			}
		}
	}
	return best
}

// try records a candidate split when it beats the current best
func (b *treeBuilder) try(best *split, parent, right nodeStat, feature int32, threshold float64) {
	left := nodeStat{G: parent.G - right.G, H: parent.H - right.H}
	if left.H < b.p.MinChildWeight || right.H < b.p.MinChildWeight {
		return
	}
	gain := b.gain(parent, left, right)
	if gain <= minGain || (best.ok && gain <= best.gain) {
		return
	}
	*best = split{ok: true, feature: feature, threshold: threshold, gain: gain, right: right}
}

func (b *treeBuilder) gain(parent, left, right nodeStat) float64 {
	score := func(s nodeStat) float64 { return s.G * s.G / (s.H + b.p.Lambda) }
	return 0.5*(score(left)+score(right)-score(parent)) - b.p.Gamma
}
