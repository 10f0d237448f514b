package api

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/factlens/origintrace/pkg/diagram"
	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/trace"
)

// validate is the shared validator instance. validator.Validate caches
// struct metadata, so one instance serves all request types.
var validate = validator.New()

// =============================================================================
// Requests
// =============================================================================

// TraceRequest is the body of POST /v1/trace.
type TraceRequest struct {
	// Analysis is the document to classify.
	Analysis trace.Analysis `json:"analysis" validate:"required"`

	// Refresh recomputes the graph even when a cached one exists.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the request before it reaches the pipeline.
func (r *TraceRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return formatValidationError(err)
	}
	return validateAnalysis(r.Analysis)
}

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	// Analysis is the document to classify and lay out.
	Analysis trace.Analysis `json:"analysis" validate:"required"`

	// Width and Height override the frame. Zero keeps the default.
	Width  float64 `json:"width,omitempty" validate:"omitempty,gte=0,lte=16384"`
	Height float64 `json:"height,omitempty" validate:"omitempty,gte=0,lte=16384"`

	// Formats lists artifacts to render alongside the diagram. Empty
	// means diagram only.
	Formats []string `json:"formats,omitempty" validate:"omitempty,max=8,dive,min=1"`

	// Detailed expands node labels with role and metadata lines.
	Detailed bool `json:"detailed,omitempty"`

	// Scale multiplies PNG resolution. The upper bound keeps a single
	// request from demanding arbitrarily large rasters.
	Scale float64 `json:"scale,omitempty" validate:"omitempty,gte=0,lte=8"`

	// Refresh recomputes every stage even on cache hits.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the request before it reaches the pipeline. Format
// names are left to the pipeline, which owns the list of valid formats.
func (r *LayoutRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return formatValidationError(err)
	}
	return validateAnalysis(r.Analysis)
}

// validateAnalysis applies the checks struct tags cannot express.
func validateAnalysis(a trace.Analysis) error {
	if strings.TrimSpace(a.Claim) == "" {
		return errs.New(errs.ErrCodeInvalidAnalysis, "analysis.claim must not be empty")
	}
	return nil
}

// formatValidationError rewrites the first validator error as an
// invalid-input error with the offending field named.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request")
	}
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			return errs.New(errs.ErrCodeInvalidInput, "%s: field is required", field)
		case "gte":
			return errs.New(errs.ErrCodeInvalidInput, "%s: must be at least %s", field, e.Param())
		case "lte", "max":
			return errs.New(errs.ErrCodeInvalidInput, "%s: must not exceed %s", field, e.Param())
		case "min":
			return errs.New(errs.ErrCodeInvalidInput, "%s: must not be empty", field)
		default:
			return errs.New(errs.ErrCodeInvalidInput, "%s: failed %s validation", field, e.Tag())
		}
	}
	return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request")
}

// =============================================================================
// Responses
// =============================================================================

// TraceResponse is the body returned by POST /v1/trace.
type TraceResponse struct {
	// Graph is the classified node-link graph.
	Graph diagram.Graph `json:"graph"`

	// GraphHash is the content hash of the graph document, usable as a
	// stable identifier for the classification result.
	GraphHash string `json:"graph_hash"`

	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`

	// Cached is true when the graph came from the cache.
	Cached bool `json:"cached"`
}

// LayoutResponse is the body returned by POST /v1/layout.
type LayoutResponse struct {
	// Diagram is the positioned diagram document.
	Diagram diagram.Diagram `json:"diagram"`

	// Artifacts holds the requested renderings keyed by format. Bytes
	// are base64 in the JSON encoding.
	Artifacts map[string][]byte `json:"artifacts,omitempty"`

	Stats LayoutStats   `json:"stats"`
	Cache CacheResponse `json:"cache"`
}

// LayoutStats reports the shape of the computed layout.
type LayoutStats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`

	// Overlaps is the number of node pairs still overlapping after the
	// separation passes. Zero for every graph of typical size.
	Overlaps int `json:"overlaps"`

	// Elapsed is the total server-side processing time.
	Elapsed string `json:"elapsed"`
}

// CacheResponse reports which pipeline stages were served from cache.
type CacheResponse struct {
	Build  bool `json:"build"`
	Layout bool `json:"layout"`
	Export bool `json:"export"`
}

// HealthResponse is the body returned by GET /v1/health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// VersionResponse is the body returned by GET /v1/version.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error string `json:"error"`

	// Code is the machine-readable error code, when known.
	Code string `json:"code,omitempty"`

	// Message describes what was wrong with the request.
	Message string `json:"message"`
}
