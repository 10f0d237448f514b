package layout

import "github.com/factlens/origintrace/pkg/geo"

// =============================================================================
// Configuration
// =============================================================================

// Default configuration values. All distances are in canvas units.
const (
	// DefaultFrameWidth and DefaultFrameHeight define the logical canvas.
	// The claim cluster anchors at the frame center.
	DefaultFrameWidth  = 1920.0
	DefaultFrameHeight = 1080.0

	// DefaultNodeWidth and DefaultNodeHeight are the nominal bounding box
	// used for overlap math. Nodes are not measured individually.
	DefaultNodeWidth  = 320.0
	DefaultNodeHeight = 140.0

	// DefaultHSpacing and DefaultVSpacing are the center-to-center distances
	// between neighboring cells. Both exceed the nominal box on their axis so
	// adjacent cells never start out overlapping.
	DefaultHSpacing = 380.0
	DefaultVSpacing = 240.0

	// DefaultAlignTolerance is how closely two nodes must align on one axis
	// for the minimum-spacing rule to engage on the other.
	DefaultAlignTolerance = 150.0

	// DefaultPadding is the breathing room added around each region.
	DefaultPadding = 80.0

	// DefaultLinkSpacing is the vertical step of the link column and
	// DefaultLinkJitter its alternating horizontal offset.
	DefaultLinkSpacing = 240.0
	DefaultLinkJitter  = 30.0

	// DefaultGridSize is the alignment grid final positions snap to.
	DefaultGridSize = 20.0

	// DefaultBuffer is the extra clearance added when separating a truly
	// overlapping pair.
	DefaultBuffer = 60.0

	// DefaultPasses is the resolver's fixed pass budget.
	DefaultPasses = 5
)

// Config collects every tunable of the layout engine. The zero value of any
// field falls back to its default, so Config{} behaves like [DefaultConfig].
type Config struct {
	// FrameWidth and FrameHeight set the logical canvas. Positions may fall
	// outside the frame for wide graphs; the frame fixes the claim anchor,
	// it does not clip.
	FrameWidth  float64 `json:"frame_width" toml:"frame_width"`
	FrameHeight float64 `json:"frame_height" toml:"frame_height"`

	// NodeWidth and NodeHeight are the nominal box for overlap detection.
	NodeWidth  float64 `json:"node_width" toml:"node_width"`
	NodeHeight float64 `json:"node_height" toml:"node_height"`

	// HSpacing and VSpacing are cell pitches within and between regions.
	HSpacing float64 `json:"h_spacing" toml:"h_spacing"`
	VSpacing float64 `json:"v_spacing" toml:"v_spacing"`

	// AlignTolerance gates the resolver's minimum-spacing rule.
	AlignTolerance float64 `json:"align_tolerance" toml:"align_tolerance"`

	// Padding surrounds each region.
	Padding float64 `json:"padding" toml:"padding"`

	// LinkSpacing and LinkJitter shape the external-link column.
	LinkSpacing float64 `json:"link_spacing" toml:"link_spacing"`
	LinkJitter  float64 `json:"link_jitter" toml:"link_jitter"`

	// GridSize is the snap grid. Every final coordinate is a multiple of it.
	GridSize float64 `json:"grid_size" toml:"grid_size"`

	// Buffer is the extra clearance used when untangling overlapping pairs.
	Buffer float64 `json:"buffer" toml:"buffer"`

	// Passes bounds the resolver. The pass budget is the only termination
	// condition; there is no convergence loop.
	Passes int `json:"passes" toml:"passes"`
}

// DefaultConfig returns the configuration the engine ships with.
func DefaultConfig() Config {
	return Config{
		FrameWidth:     DefaultFrameWidth,
		FrameHeight:    DefaultFrameHeight,
		NodeWidth:      DefaultNodeWidth,
		NodeHeight:     DefaultNodeHeight,
		HSpacing:       DefaultHSpacing,
		VSpacing:       DefaultVSpacing,
		AlignTolerance: DefaultAlignTolerance,
		Padding:        DefaultPadding,
		LinkSpacing:    DefaultLinkSpacing,
		LinkJitter:     DefaultLinkJitter,
		GridSize:       DefaultGridSize,
		Buffer:         DefaultBuffer,
		Passes:         DefaultPasses,
	}
}

// Anchor returns the claim-cluster center: the frame midpoint snapped to the
// grid. With nothing else in the graph, the claim node lands here exactly.
func (c Config) Anchor() geo.Point {
	return geo.SnapPoint(geo.Point{X: c.FrameWidth / 2, Y: c.FrameHeight / 2}, c.GridSize)
}

// Sanitized returns a copy with every non-positive field replaced by its
// default. This is the configuration the engine actually runs with, so
// callers deriving cache keys or reporting effective values use it to make
// Config{} and DefaultConfig() indistinguishable.
func (c Config) Sanitized() Config {
	c.sanitize()
	return c
}

// sanitize replaces non-positive fields with their defaults so the engine is
// total over arbitrary configurations.
func (c *Config) sanitize() {
	d := DefaultConfig()
	if c.FrameWidth <= 0 {
		c.FrameWidth = d.FrameWidth
	}
	if c.FrameHeight <= 0 {
		c.FrameHeight = d.FrameHeight
	}
	if c.NodeWidth <= 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight <= 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.HSpacing <= 0 {
		c.HSpacing = d.HSpacing
	}
	if c.VSpacing <= 0 {
		c.VSpacing = d.VSpacing
	}
	if c.AlignTolerance <= 0 {
		c.AlignTolerance = d.AlignTolerance
	}
	if c.Padding <= 0 {
		c.Padding = d.Padding
	}
	if c.LinkSpacing <= 0 {
		c.LinkSpacing = d.LinkSpacing
	}
	if c.LinkJitter <= 0 {
		c.LinkJitter = d.LinkJitter
	}
	if c.GridSize <= 0 {
		c.GridSize = d.GridSize
	}
	if c.Buffer <= 0 {
		c.Buffer = d.Buffer
	}
	if c.Passes <= 0 {
		c.Passes = d.Passes
	}
}

// =============================================================================
// Functional Options
// =============================================================================

// Option adjusts the engine configuration for a single call.
type Option func(*Config)

// WithConfig replaces the entire configuration. Later options still apply on
// top of cfg.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithFrame sets the logical canvas dimensions.
func WithFrame(width, height float64) Option {
	return func(c *Config) {
		c.FrameWidth = width
		c.FrameHeight = height
	}
}

// WithNodeSize sets the nominal node box used for overlap math.
func WithNodeSize(width, height float64) Option {
	return func(c *Config) {
		c.NodeWidth = width
		c.NodeHeight = height
	}
}

// WithSpacing sets the horizontal and vertical cell pitch.
func WithSpacing(horizontal, vertical float64) Option {
	return func(c *Config) {
		c.HSpacing = horizontal
		c.VSpacing = vertical
	}
}

// WithGridSize sets the snap grid.
func WithGridSize(size float64) Option {
	return func(c *Config) { c.GridSize = size }
}

// WithPasses sets the resolver's pass budget.
func WithPasses(n int) Option {
	return func(c *Config) { c.Passes = n }
}

// WithBuffer sets the separation clearance.
func WithBuffer(buffer float64) Option {
	return func(c *Config) { c.Buffer = buffer }
}

// newConfig builds the effective configuration for one engine call.
func newConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.sanitize()
	return cfg
}
