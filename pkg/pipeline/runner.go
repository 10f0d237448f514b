package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/factlens/origintrace/pkg/cache"
	"github.com/factlens/origintrace/pkg/diagram"
	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/export"
	"github.com/factlens/origintrace/pkg/layout"
	"github.com/factlens/origintrace/pkg/observability"
	"github.com/factlens/origintrace/pkg/trace"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, a trace.Analysis, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	g, buildHit, err := r.BuildWithCacheInfo(ctx, a, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.CacheInfo.BuildHit = buildHit

	// Compute graph hash for cache keys and API responses
	if graphData, err := diagram.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("built graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	d, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = d
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Overlaps = layout.Overlaps(d.Nodes, layout.WithConfig(opts.LayoutConfig()))
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"overlaps", result.Stats.Overlaps,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// BuildWithCacheInfo classifies an analysis with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, a trace.Analysis, opts Options) (diagram.Graph, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, a.Claim)
	start := time.Now()

	// Graph key from the analysis content; classification is deterministic.
	var key string
	if analysisHash, err := cache.HashJSON(a); err == nil {
		key = r.Keyer.GraphKey(analysisHash)
	}

	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := diagram.ReadGraph(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				hooks.OnBuildComplete(ctx, a.Claim, len(g.Nodes), time.Since(start), nil)
				return g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	g, err := trace.BuildGraph(a)
	if err != nil {
		err = errs.Wrap(errs.ErrCodeInvalidAnalysis, err, "classify analysis")
		hooks.OnBuildComplete(ctx, a.Claim, 0, time.Since(start), err)
		return diagram.Graph{}, false, err
	}

	if key != "" {
		if data, err := diagram.MarshalGraph(g); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
				observability.Cache().OnCacheSet(ctx, "graph", len(data))
			}
		}
	}

	hooks.OnBuildComplete(ctx, a.Claim, len(g.Nodes), time.Since(start), nil)
	return g, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, a trace.Analysis, opts Options) (diagram.Graph, error) {
	g, _, err := r.BuildWithCacheInfo(ctx, a, opts)
	return g, err
}

// LayoutWithCacheInfo positions a graph with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g diagram.Graph, opts Options) (diagram.Diagram, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return diagram.Diagram{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(g.Nodes))
	start := time.Now()
	cfg := opts.LayoutConfig()

	// Marshaling validates the graph, so malformed input fails here rather
	// than producing an unrenderable diagram.
	graphData, err := diagram.MarshalGraph(g)
	if err != nil {
		err = errs.Wrap(errs.ErrCodeInvalidGraph, err, "graph failed validation")
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return diagram.Diagram{}, false, err
	}
	key := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if d, err := diagram.ReadDiagram(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				hooks.OnLayoutComplete(ctx, layout.Overlaps(d.Nodes, layout.WithConfig(cfg)), time.Since(start), nil)
				return d, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	d := layout.Arrange(g, layout.WithConfig(cfg))

	if data, err := diagram.MarshalDiagram(d); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	hooks.OnLayoutComplete(ctx, layout.Overlaps(d.Nodes, layout.WithConfig(cfg)), time.Since(start), nil)
	return d, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g diagram.Graph, opts Options) (diagram.Diagram, error) {
	d, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return d, err
}

// ExportWithCacheInfo generates artifacts with caching and returns cache hit info.
// The returned map is keyed by format; the hit flag is true only when every
// requested format came from cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	// Compute cache key from the diagram document
	diagramData, err := diagram.MarshalDiagram(d)
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInvalidGraph, err, "diagram failed validation")
	}
	diagramHash := cache.Hash(diagramData)

	hooks := observability.Pipeline()
	exportOpts := opts.ExportOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true

	for _, name := range opts.Formats {
		format, err := export.ParseFormat(name)
		if err != nil {
			return nil, false, err
		}

		hooks.OnExportStart(ctx, string(format))
		start := time.Now()
		key := r.Keyer.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(string(format)))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[string(format)] = data
				hooks.OnExportComplete(ctx, string(format), len(data), time.Since(start), nil)
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := export.Export(ctx, d, format, exportOpts)
		if err != nil {
			hooks.OnExportComplete(ctx, string(format), 0, time.Since(start), err)
			return nil, false, err
		}

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
		artifacts[string(format)] = data
		hooks.OnExportComplete(ctx, string(format), len(data), time.Since(start), nil)
	}

	return artifacts, allHit, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
