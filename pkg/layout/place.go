package layout

import "github.com/factlens/origintrace/pkg/geo"

// =============================================================================
// Initial Placement
// =============================================================================

// placeRegions assigns an initial position per member node. Placement only
// aims for a readable default shape; the resolver owns the no-overlap
// invariant.
func placeRegions(regions []Region, cfg Config) map[string]geo.Point {
	points := make(map[string]geo.Point)
	for _, r := range regions {
		switch r.Cluster {
		case ClusterClaim:
			points[r.IDs[0]] = r.Center
		case ClusterTimeline:
			placeFlow(r, cfg, points)
		case ClusterBeliefs, ClusterSources:
			placeGrid(r, cfg, points)
		case ClusterLinks:
			placeColumn(r, cfg, points)
		}
	}
	return points
}

// placeFlow fills the timeline left to right, row-major. Columns stay
// aligned across rows so the reading order follows the narrative flow.
func placeFlow(r Region, cfg Config, points map[string]geo.Point) {
	for i, id := range r.IDs {
		row, col := i/r.Cols, i%r.Cols
		points[id] = geo.Point{
			X: r.Center.X + (float64(col)-float64(r.Cols-1)/2)*cfg.HSpacing,
			Y: r.Center.Y + (float64(row)-float64(r.Rows-1)/2)*cfg.VSpacing,
		}
	}
}

// placeGrid fills a band region row-major with each row centered on the
// region anchor, so an incomplete final row does not list to one side.
func placeGrid(r Region, cfg Config, points map[string]geo.Point) {
	n := len(r.IDs)
	for i, id := range r.IDs {
		row, col := i/r.Cols, i%r.Cols
		rowLen := r.Cols
		if rem := n - row*r.Cols; rem < rowLen {
			rowLen = rem
		}
		points[id] = geo.Point{
			X: r.Center.X + (float64(col)-float64(rowLen-1)/2)*cfg.HSpacing,
			Y: r.Center.Y + (float64(row)-float64(r.Rows-1)/2)*cfg.VSpacing,
		}
	}
}

// placeColumn stacks links vertically with a small alternating horizontal
// jitter. The jitter is cosmetic only.
func placeColumn(r Region, cfg Config, points map[string]geo.Point) {
	n := len(r.IDs)
	for i, id := range r.IDs {
		jitter := cfg.LinkJitter
		if i%2 == 1 {
			jitter = -jitter
		}
		points[id] = geo.Point{
			X: r.Center.X + jitter,
			Y: r.Center.Y + (float64(i)-float64(n-1)/2)*cfg.LinkSpacing,
		}
	}
}
