package cache

import "github.com/factlens/origintrace/pkg/layout"

// Keyer builds cache keys for pipeline stages. Each key mixes the
// content hash of the stage input with the options that affect the
// stage output, so a change to either yields a fresh key.
type Keyer interface {
	// GraphKey identifies a graph built from an analysis.
	GraphKey(analysisHash string) string

	// LayoutKey identifies a positioned diagram computed from a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies an artifact rendered from a diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts capture the placement parameters that affect node
// positions.
type LayoutKeyOpts struct {
	Config layout.Config `json:"config"`
}

// ArtifactKeyOpts capture the rendering parameters that affect an
// exported artifact. Node box dimensions are included because they
// shape the rendered output but are not part of the diagram document.
type ArtifactKeyOpts struct {
	// Format is the output format: json, dot, svg or png.
	Format string `json:"format"`

	// Detailed selects the expanded node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Scale is the PNG supersampling factor.
	Scale float64 `json:"scale,omitempty"`

	// NodeWidth and NodeHeight size the rendered node boxes.
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`
}

// DefaultKeyer is the standard Keyer with SHA-256 hashed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for graph caching.
func (k *DefaultKeyer) GraphKey(analysisHash string) string {
	return hashKey("graph", analysisHash)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
