package layout

import (
	"math"

	"github.com/factlens/origintrace/pkg/diagram"
	"github.com/factlens/origintrace/pkg/geo"
)

// =============================================================================
// Overlap Resolution
// =============================================================================

// Resolve separates overlapping or crowded nodes and snaps every position to
// the grid. It returns a fresh slice; the input is never mutated. Nodes
// without a position pass through untouched and do not participate.
//
// Resolution is best-effort with a fixed pass budget. If the passes would
// leave more truly overlapping pairs than the input had, the input positions
// (snapped) are kept instead, so the result is never worse than the initial
// placement.
func Resolve(nodes []diagram.Node, opts ...Option) []diagram.Node {
	cfg := newConfig(opts...)
	out := diagram.CloneNodes(nodes)
	work := make([]int, 0, len(out))
	for i := range out {
		if out[i].Position != nil {
			work = append(work, i)
		}
	}
	resolveWork(out, work, cfg)
	return out
}

// Overlaps counts the truly overlapping node pairs under the given
// configuration. Only positioned nodes participate. Since separation is
// best-effort, callers use this to judge how crowded a finished layout
// still is.
func Overlaps(nodes []diagram.Node, opts ...Option) int {
	cfg := newConfig(opts...)
	points := make([]geo.Point, 0, len(nodes))
	for i := range nodes {
		if nodes[i].Position != nil {
			points = append(points, *nodes[i].Position)
		}
	}
	return overlapPairs(points, cfg)
}

// resolveWork runs the separation passes and the final grid snap over the
// positioned subset, in place. work indexes the positioned nodes in slice
// order, which fixes the pair visit order and with it the output.
func resolveWork(nodes []diagram.Node, work []int, cfg Config) {
	if len(work) < 2 {
		snapWork(nodes, work, cfg)
		return
	}

	// Baseline for the never-worse guarantee, measured on the snapped
	// initial positions so both sides of the comparison sit on the grid.
	initial := make([]geo.Point, len(work))
	for k, i := range work {
		initial[k] = geo.SnapPoint(*nodes[i].Position, cfg.GridSize)
	}
	baseline := overlapPairs(initial, cfg)

	for pass := 0; pass < cfg.Passes; pass++ {
		for i := 0; i < len(work); i++ {
			for j := i + 1; j < len(work); j++ {
				a := nodes[work[i]]
				b := nodes[work[j]]
				separatePair(a.Position, b.Position, a.ID, b.ID, cfg)
			}
		}
	}
	snapWork(nodes, work, cfg)

	resolved := make([]geo.Point, len(work))
	for k, i := range work {
		resolved[k] = *nodes[i].Position
	}
	if overlapPairs(resolved, cfg) > baseline {
		for k, i := range work {
			*nodes[i].Position = initial[k]
		}
	}
}

// separatePair applies the two displacement rules to one pair, mutating both
// positions.
//
// Rule one handles true bounding-box interpenetration: the pair is pushed
// apart along the axis of lesser overlap, splitting overlap plus buffer
// evenly so both nodes move away from each other.
//
// Rule two enforces minimum spacing even without box overlap: nodes nearly
// aligned on one axis and closer than the pitch on the other are pushed to
// the full pitch. Visually close pairs read as cluttered long before their
// boxes touch.
func separatePair(a, b *geo.Point, aID, bID string, cfg Config) {
	dx, dy := geo.Delta(*a, *b)
	ox, oy := geo.Overlap(
		geo.BoxAround(*a, cfg.NodeWidth, cfg.NodeHeight),
		geo.BoxAround(*b, cfg.NodeWidth, cfg.NodeHeight),
	)
	if ox > 0 && oy > 0 {
		if ox <= oy {
			shift := (ox + cfg.Buffer) / 2
			dir := geo.Sign(dx)
			if dir == 0 {
				dir = tieDirection(aID, bID)
			}
			a.X -= dir * shift
			b.X += dir * shift
		} else {
			shift := (oy + cfg.Buffer) / 2
			dir := geo.Sign(dy)
			if dir == 0 {
				dir = tieDirection(aID, bID)
			}
			a.Y -= dir * shift
			b.Y += dir * shift
		}
		return
	}

	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case adx > 0 && adx < cfg.HSpacing && ady < cfg.AlignTolerance:
		shift := (cfg.HSpacing - adx) / 2
		dir := geo.Sign(dx)
		a.X -= dir * shift
		b.X += dir * shift
	case ady > 0 && ady < cfg.VSpacing && adx < cfg.AlignTolerance:
		shift := (cfg.VSpacing - ady) / 2
		dir := geo.Sign(dy)
		a.Y -= dir * shift
		b.Y += dir * shift
	}
}

// tieDirection breaks the displacement tie for coincident nodes: the
// lexicographically lower ID moves in the negative direction, the higher in
// the positive. Keeps coincident pairs deterministic.
func tieDirection(aID, bID string) float64 {
	if aID < bID {
		return 1
	}
	return -1
}

// overlapPairs counts truly interpenetrating pairs by the nominal node box.
func overlapPairs(points []geo.Point, cfg Config) int {
	count := 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			a := geo.BoxAround(points[i], cfg.NodeWidth, cfg.NodeHeight)
			b := geo.BoxAround(points[j], cfg.NodeWidth, cfg.NodeHeight)
			if geo.Intersects(a, b) {
				count++
			}
		}
	}
	return count
}

// snapWork snaps the positioned subset to the grid.
func snapWork(nodes []diagram.Node, work []int, cfg Config) {
	for _, i := range work {
		*nodes[i].Position = geo.SnapPoint(*nodes[i].Position, cfg.GridSize)
	}
}
