package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/factlens/origintrace/pkg/cache"
	"github.com/factlens/origintrace/pkg/diagram"
	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/layout"
	"github.com/factlens/origintrace/pkg/pipeline"
)

// handleTrace classifies an analysis into a node-link graph.
func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var req TraceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, r, err)
		return
	}

	g, cached, err := s.runner.BuildWithCacheInfo(r.Context(), req.Analysis, pipeline.Options{Refresh: req.Refresh})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := diagram.MarshalGraph(g)
	if err != nil {
		s.respondError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode graph"))
		return
	}

	s.respondJSON(w, http.StatusOK, TraceResponse{
		Graph:     g,
		GraphHash: cache.Hash(data),
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
		Cached:    cached,
	})
}

// handleLayout classifies an analysis and positions the result. Artifacts
// are rendered only for the formats the request names, so a plain layout
// request does no rendering work.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := pipeline.ValidateFormats(req.Formats); err != nil {
		s.respondError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Width:    req.Width,
		Height:   req.Height,
		Formats:  req.Formats,
		Detailed: req.Detailed,
		Scale:    req.Scale,
		Refresh:  req.Refresh,
		Layout:   s.layout,
	}
	start := time.Now()
	ctx := r.Context()

	g, buildHit, err := s.runner.BuildWithCacheInfo(ctx, req.Analysis, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	d, layoutHit, err := s.runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var (
		artifacts map[string][]byte
		exportHit bool
	)
	if len(req.Formats) > 0 {
		artifacts, exportHit, err = s.runner.ExportWithCacheInfo(ctx, d, opts)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	s.respondJSON(w, http.StatusOK, LayoutResponse{
		Diagram:   d,
		Artifacts: artifacts,
		Stats: LayoutStats{
			NodeCount: len(d.Nodes),
			EdgeCount: len(d.Edges),
			Overlaps:  layout.Overlaps(d.Nodes, layout.WithConfig(opts.LayoutConfig())),
			Elapsed:   time.Since(start).String(),
		},
		Cache: CacheResponse{
			Build:  buildHit,
			Layout: layoutHit,
			Export: exportHit,
		},
	})
}
