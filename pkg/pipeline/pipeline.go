// Package pipeline provides the core tracing pipeline for origintrace.
//
// This package implements the complete build → layout → export pipeline
// shared by the CLI and API entry points. Centralizing it keeps caching
// and instrumentation identical no matter where a run starts.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: classify an analysis into a node-link graph
//  2. Layout: compute card positions for the graph
//  3. Export: generate output in various formats (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, analysis, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	g, err := runner.Build(ctx, analysis, opts)
//
//	// Layout an existing graph
//	d, err := runner.Layout(ctx, g, opts)
//
//	// Export an existing diagram
//	artifacts, err := runner.Export(ctx, d, opts)
package pipeline

import (
	"time"

	"github.com/factlens/origintrace/pkg/cache"
	"github.com/factlens/origintrace/pkg/diagram"
	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/export"
	"github.com/factlens/origintrace/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultFormat is the artifact produced when no formats are requested.
// JSON is the diagram document itself, the input the web renderer consumes.
// Layout and rendering defaults live with their stages ([layout.DefaultConfig]
// and [export.DefaultScale]).
const DefaultFormat = string(export.FormatJSON)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the tracing pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Zero values fall back to the layout defaults; when
	// the runtime Layout config is set, these scalars override it.
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	GridSize float64 `json:"grid_size,omitempty"`
	Passes   int     `json:"passes,omitempty"`

	// Export options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Expanded node labels with role and detail lines
	Scale    float64  `json:"scale,omitempty"`    // PNG supersampling factor

	// Refresh bypasses cached stage results and recomputes everything.
	// Fresh results still overwrite the cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Layout layout.Config `json:"-"` // Full layout configuration, e.g. from the server TOML file

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the classified node-link graph.
	Graph diagram.Graph

	// GraphHash is the content hash of the graph document.
	GraphHash string

	// Diagram is the positioned diagram.
	Diagram diagram.Diagram

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Overlaps   int // Node pairs still overlapping after layout
	BuildTime  time.Duration
	LayoutTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the graph came from cache
	LayoutHit bool // Whether the diagram came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := export.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as
// calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks the layout overrides. Zero means default, so only
// negative values are rejected.
func (o *Options) ValidateForLayout() error {
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "frame dimensions must not be negative")
	}
	if o.GridSize < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "grid size must not be negative")
	}
	if o.Passes < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "passes must not be negative")
	}
	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "scale must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// LayoutConfig returns the effective layout configuration: the runtime Layout
// field with the scalar overrides applied and remaining zeros defaulted. Cache
// keys derive from this, so configurations that run identically key identically.
func (o *Options) LayoutConfig() layout.Config {
	cfg := o.Layout
	if o.Width > 0 {
		cfg.FrameWidth = o.Width
	}
	if o.Height > 0 {
		cfg.FrameHeight = o.Height
	}
	if o.GridSize > 0 {
		cfg.GridSize = o.GridSize
	}
	if o.Passes > 0 {
		cfg.Passes = o.Passes
	}
	return cfg.Sanitized()
}

// ExportOptions returns the rendering options for the export stage. Node
// boxes render at the size the layout reserved for them.
func (o *Options) ExportOptions() export.Options {
	cfg := o.LayoutConfig()
	return export.Options{
		NodeWidth:  cfg.NodeWidth,
		NodeHeight: cfg.NodeHeight,
		Detailed:   o.Detailed,
		Scale:      o.Scale,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Config: o.LayoutConfig()}
}

// ArtifactKeyOpts returns cache key options for artifact export.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	cfg := o.LayoutConfig()
	scale := o.Scale
	if scale <= 0 {
		scale = export.DefaultScale
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Detailed:   o.Detailed,
		Scale:      scale,
		NodeWidth:  cfg.NodeWidth,
		NodeHeight: cfg.NodeHeight,
	}
}
