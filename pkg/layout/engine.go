package layout

import "github.com/factlens/origintrace/pkg/diagram"

// =============================================================================
// Layout Orchestrator
// =============================================================================

// Compute lays out the classified nodes and returns a fresh node slice with
// positions assigned. The input slice is never mutated.
//
// Classification IDs without a matching node are skipped silently; the
// caller's classification is not this package's to validate. Nodes the
// classification does not reference pass through unchanged, keeping whatever
// position they arrived with.
//
// Compute is pure and deterministic: no I/O, no randomness, no state across
// calls. Identical inputs yield bit-identical positions, so re-rendering an
// unchanged analysis never jitters.
func Compute(cls Classification, nodes []diagram.Node, opts ...Option) []diagram.Node {
	cfg := newConfig(opts...)
	out := diagram.CloneNodes(nodes)

	index := make(map[string]int, len(out))
	for i, n := range out {
		if _, ok := index[n.ID]; !ok {
			index[n.ID] = i
		}
	}

	cls = cls.filter(index)
	regions := PlanRegions(cls, cfg)
	points := placeRegions(regions, cfg)

	work := make([]int, 0, len(points))
	for i := range out {
		p, ok := points[out[i].ID]
		if !ok {
			continue
		}
		pos := p
		out[i].Position = &pos
		work = append(work, i)
	}

	resolveWork(out, work, cfg)
	return out
}

// Arrange classifies g's nodes by role, lays them out, and wraps the result
// in a renderable diagram carrying the frame and grid metadata. This is the
// everything-included entry point used by the pipeline and the API; callers
// with an external classification use [Compute] directly.
func Arrange(g diagram.Graph, opts ...Option) diagram.Diagram {
	cfg := newConfig(opts...)
	nodes := Compute(ClassifyByRole(g.Nodes), g.Nodes, WithConfig(cfg))

	var edges []diagram.Edge
	if g.Edges != nil {
		edges = append(edges, g.Edges...)
	}
	return diagram.Diagram{
		FrameWidth:  cfg.FrameWidth,
		FrameHeight: cfg.FrameHeight,
		GridSize:    cfg.GridSize,
		Nodes:       nodes,
		Edges:       edges,
	}
}
