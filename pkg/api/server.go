// Package api exposes the origin-trace pipeline over HTTP.
//
// The service is the backend for the web app: it accepts analysis
// documents, runs them through the shared [pipeline.Runner], and returns
// graphs, positioned diagrams, and rendered artifacts.
//
// # Endpoints
//
//	POST /v1/trace    analysis → classified graph
//	POST /v1/layout   analysis → positioned diagram, optional artifacts
//	GET  /v1/health   liveness and uptime
//	GET  /v1/version  build information
//	GET  /metrics     Prometheus exposition (when configured)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	srv := api.NewServer(runner, api.Options{Logger: logger})
//	err := srv.Serve(ctx, api.ServeConfig{Addr: ":8080"})
//
// Every response is JSON. Failed requests carry an [ErrorResponse] whose
// status maps the pipeline's error codes: invalid input is 400, unknown
// resources 404, everything else 500.
package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/factlens/origintrace/pkg/buildinfo"
	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/layout"
	"github.com/factlens/origintrace/pkg/pipeline"
)

// Server is the origin-trace HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics http.Handler
	layout  layout.Config
	started time.Time
}

// Options configure optional server collaborators.
type Options struct {
	// Logger receives request logs. Nil falls back to the runner's logger.
	Logger *log.Logger

	// Metrics is mounted on GET /metrics when set. The serve command
	// passes the Prometheus exposition handler here.
	Metrics http.Handler

	// Layout is the server-wide layout configuration. Request scalars
	// still override individual fields. The zero value means defaults.
	Layout layout.Config
}

// ServeConfig bounds the HTTP listener.
type ServeConfig struct {
	// Addr is the listen address in host:port form.
	Addr string

	// ReadTimeout and WriteTimeout bound request processing. Zero
	// disables the bound.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ShutdownTimeout bounds the drain of in-flight requests once the
	// context is cancelled.
	ShutdownTimeout time.Duration
}

// NewServer creates a server around a pipeline runner.
func NewServer(runner *pipeline.Runner, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{
		runner:  runner,
		logger:  logger,
		metrics: opts.Metrics,
		layout:  opts.Layout,
		started: time.Now(),
	}
}

// Router builds the chi mux with all routes and middleware installed.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/trace", s.handleTrace)
		r.Post("/layout", s.handleLayout)
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errs.New(errs.ErrCodeNotFound, "no such route"))
	})

	return r
}

// Serve runs the API on cfg.Addr until ctx is cancelled, then drains
// in-flight requests for up to cfg.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, cfg ServeConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe()
	}()

	s.logger.Info("api listening", "addr", cfg.Addr)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The serve context is already cancelled; the drain gets its own
		// deadline.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Health and Version
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: time.Since(s.started).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, VersionResponse{
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
		Date:    buildinfo.Date,
	})
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// respondError maps the error's code to an HTTP status and writes the
// JSON error body. The full error is logged; the client sees the
// user-level message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForCode(errs.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    string(errs.GetCode(err)),
		Message: errs.UserMessage(err),
	})
}

func statusForCode(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidAnalysis, errs.ErrCodeInvalidGraph,
		errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
