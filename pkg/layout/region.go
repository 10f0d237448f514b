package layout

import "github.com/factlens/origintrace/pkg/geo"

// =============================================================================
// Cluster Regions
// =============================================================================

// Cluster names a region of the canvas sharing one placement rule.
type Cluster string

// Cluster names, in canvas order.
const (
	// ClusterTimeline holds the origin and evolution steps, left of center.
	ClusterTimeline Cluster = "timeline"
	// ClusterClaim holds the single claim cell at the canvas center.
	ClusterClaim Cluster = "claim"
	// ClusterBeliefs holds belief drivers, above center.
	ClusterBeliefs Cluster = "beliefs"
	// ClusterSources holds cited sources, below center.
	ClusterSources Cluster = "sources"
	// ClusterLinks holds the reference column beside the sources.
	ClusterLinks Cluster = "links"
)

// Region is the rectangular zone reserved for one cluster. Extent scales
// with member count so dense groups cannot crowd their neighbors.
type Region struct {
	Cluster Cluster
	// IDs are the member nodes in placement order.
	IDs []string
	// Center anchors the region on the canvas.
	Center geo.Point
	// Width and Height are the full extent including padding.
	Width  float64
	Height float64
	// Cols and Rows describe the cell grid placement fills.
	Cols int
	Rows int
}

// Box returns the region's bounding box.
func (r Region) Box() geo.Box {
	return geo.BoxAround(r.Center, r.Width, r.Height)
}

// Right returns the x coordinate of the region's right edge.
func (r Region) Right() float64 {
	return r.Center.X + r.Width/2
}

// PlanRegions computes a region per non-empty cluster, ordered timeline,
// claim, beliefs, sources, links. Empty clusters produce no region. The
// classification must already be filtered to known node IDs.
func PlanRegions(cls Classification, cfg Config) []Region {
	anchor := cfg.Anchor()
	regions := make([]Region, 0, 5)

	if timeline := cls.timeline(); len(timeline) > 0 {
		regions = append(regions, planTimeline(timeline, anchor, cfg))
	}
	if cls.Claim != "" {
		regions = append(regions, planClaim(cls.Claim, anchor, cfg))
	}
	if len(cls.Beliefs) > 0 {
		regions = append(regions, planBand(ClusterBeliefs, cls.Beliefs, anchor, cfg))
	}
	var sources Region
	haveSources := len(cls.Sources) > 0
	if haveSources {
		sources = planBand(ClusterSources, cls.Sources, anchor, cfg)
		regions = append(regions, sources)
	}
	if len(cls.Links) > 0 {
		regions = append(regions, planLinks(cls.Links, anchor, sources, haveSources, cfg))
	}
	return regions
}

// planTimeline lays the flow region left of the claim so its last cell sits
// one horizontal pitch before the anchor. Up to three members fit one row;
// longer timelines wrap into two rows to keep the canvas from stretching
// unboundedly wide.
func planTimeline(ids []string, anchor geo.Point, cfg Config) Region {
	cols, rows := len(ids), 1
	if cols > 3 {
		cols = (len(ids) + 1) / 2
		rows = 2
	}
	center := geo.Point{
		X: anchor.X - cfg.HSpacing - float64(cols-1)*cfg.HSpacing/2,
		Y: anchor.Y,
	}
	return Region{
		Cluster: ClusterTimeline,
		IDs:     ids,
		Center:  center,
		Width:   float64(cols)*cfg.HSpacing + cfg.Padding,
		Height:  float64(rows)*cfg.VSpacing + cfg.Padding,
		Cols:    cols,
		Rows:    rows,
	}
}

// planClaim reserves a single fixed cell at the anchor.
func planClaim(id string, anchor geo.Point, cfg Config) Region {
	return Region{
		Cluster: ClusterClaim,
		IDs:     []string{id},
		Center:  anchor,
		Width:   cfg.NodeWidth + cfg.Padding,
		Height:  cfg.NodeHeight + cfg.Padding,
		Cols:    1,
		Rows:    1,
	}
}

// planBand lays a centered grid either above (beliefs) or below (sources)
// the claim. The row nearest the claim keeps a fixed clearance of one
// vertical pitch plus the node height; additional rows stack away from the
// center.
func planBand(cluster Cluster, ids []string, anchor geo.Point, cfg Config) Region {
	n := len(ids)
	cols := n
	if cols > 3 {
		cols = 3
	}
	rows := (n + cols - 1) / cols

	gap := cfg.VSpacing + cfg.NodeHeight + float64(rows-1)*cfg.VSpacing/2
	centerY := anchor.Y + gap
	if cluster == ClusterBeliefs {
		centerY = anchor.Y - gap
	}
	return Region{
		Cluster: cluster,
		IDs:     ids,
		Center:  geo.Point{X: anchor.X, Y: centerY},
		Width:   float64(cols)*cfg.HSpacing + cfg.Padding,
		Height:  float64(rows)*cfg.VSpacing + cfg.Padding,
		Cols:    cols,
		Rows:    rows,
	}
}

// planLinks stacks the reference column just right of the sources region,
// or right of the claim cell when no sources exist.
func planLinks(ids []string, anchor geo.Point, sources Region, haveSources bool, cfg Config) Region {
	right := anchor.X + (cfg.NodeWidth+cfg.Padding)/2
	centerY := anchor.Y + cfg.VSpacing + cfg.NodeHeight
	if haveSources {
		right = sources.Right()
		centerY = sources.Center.Y
	}
	return Region{
		Cluster: ClusterLinks,
		IDs:     ids,
		Center:  geo.Point{X: right + cfg.HSpacing/2 + cfg.NodeWidth/2, Y: centerY},
		Width:   cfg.NodeWidth + 2*cfg.LinkJitter + cfg.Padding,
		Height:  float64(len(ids))*cfg.LinkSpacing + cfg.Padding,
		Cols:    1,
		Rows:    len(ids),
	}
}
