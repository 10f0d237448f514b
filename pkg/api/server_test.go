package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/factlens/origintrace/pkg/cache"
	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/pipeline"
	"github.com/factlens/origintrace/pkg/trace"
)

func testServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewServer(pipeline.NewRunner(c, nil, logger), Options{Logger: logger})
}

func testAnalysis() trace.Analysis {
	return trace.Analysis{
		Claim:   "5G towers spread the virus",
		Verdict: trace.VerdictFalse,
		Origin: &trace.Origin{
			Description: "Forum post linking tower construction to outbreak",
			Platform:    "tech forum",
			Date:        "2020-01",
		},
		Evolution: []trace.Step{
			{Description: "Picked up by local radio", Date: "2020-02"},
		},
		Beliefs: []trace.Belief{
			{Driver: "Technology distrust"},
		},
		Sources: []trace.Source{
			{Title: "WHO statement", URL: "https://who.int/5g", Reliability: 0.95, Stance: trace.StanceDisputes},
		},
		Links: []string{"https://example.org/roundup"},
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, rr.Body.String())
	}
	return resp
}

func TestHandleTrace(t *testing.T) {
	router := testServer(t, nil).Router()

	rr := postJSON(t, router, "/v1/trace", TraceRequest{Analysis: testAnalysis()})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp TraceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NodeCount != 6 {
		t.Errorf("NodeCount = %d, want 6", resp.NodeCount)
	}
	if resp.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", resp.EdgeCount)
	}
	if resp.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if resp.Cached {
		t.Error("Cached = true on a cacheless server")
	}
	if got := rr.Header().Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID header not set")
	}

	found := false
	for _, n := range resp.Graph.Nodes {
		if n.ID == "claim" {
			found = true
		}
	}
	if !found {
		t.Error("graph has no claim node")
	}
}

func TestHandleTraceCached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	router := testServer(t, c).Router()

	req := TraceRequest{Analysis: testAnalysis()}
	if rr := postJSON(t, router, "/v1/trace", req); rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d (body %s)", rr.Code, rr.Body.String())
	}

	rr := postJSON(t, router, "/v1/trace", req)
	if rr.Code != http.StatusOK {
		t.Fatalf("second request status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var resp TraceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Cached {
		t.Error("Cached = false on the second identical request")
	}
}

func TestHandleTraceRejects(t *testing.T) {
	router := testServer(t, nil).Router()

	tests := []struct {
		name     string
		body     TraceRequest
		wantCode errs.Code
	}{
		{
			name:     "empty analysis",
			body:     TraceRequest{},
			wantCode: errs.ErrCodeInvalidInput,
		},
		{
			name:     "missing claim",
			body:     TraceRequest{Analysis: trace.Analysis{Verdict: trace.VerdictFalse}},
			wantCode: errs.ErrCodeInvalidAnalysis,
		},
		{
			name:     "blank claim",
			body:     TraceRequest{Analysis: trace.Analysis{Claim: "   "}},
			wantCode: errs.ErrCodeInvalidAnalysis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, router, "/v1/trace", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			if resp := decodeError(t, rr); resp.Code != string(tt.wantCode) {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleTraceBadJSON(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodPost, "/v1/trace", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rr); resp.Code != string(errs.ErrCodeInvalidInput) {
		t.Errorf("code = %q, want %q", resp.Code, errs.ErrCodeInvalidInput)
	}
}

func TestHandleLayout(t *testing.T) {
	router := testServer(t, nil).Router()

	rr := postJSON(t, router, "/v1/layout", LayoutRequest{
		Analysis: testAnalysis(),
		Formats:  []string{"dot"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp LayoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Stats.NodeCount != 6 {
		t.Errorf("NodeCount = %d, want 6", resp.Stats.NodeCount)
	}
	if resp.Stats.Overlaps != 0 {
		t.Errorf("Overlaps = %d, want 0", resp.Stats.Overlaps)
	}
	for _, n := range resp.Diagram.Nodes {
		if n.Position == nil {
			t.Errorf("node %s has no position", n.ID)
		}
	}
	dot, ok := resp.Artifacts["dot"]
	if !ok {
		t.Fatal("dot artifact missing")
	}
	if !strings.HasPrefix(string(dot), "digraph trace {") {
		t.Errorf("dot artifact starts %q, want digraph trace {", string(dot[:min(len(dot), 20)]))
	}
}

func TestHandleLayoutDiagramOnly(t *testing.T) {
	router := testServer(t, nil).Router()

	rr := postJSON(t, router, "/v1/layout", LayoutRequest{Analysis: testAnalysis()})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp LayoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Artifacts) != 0 {
		t.Errorf("Artifacts = %v, want none for a request without formats", resp.Artifacts)
	}
	if len(resp.Diagram.Nodes) != 6 {
		t.Errorf("diagram nodes = %d, want 6", len(resp.Diagram.Nodes))
	}
}

func TestHandleLayoutRejects(t *testing.T) {
	router := testServer(t, nil).Router()

	tests := []struct {
		name     string
		body     LayoutRequest
		wantCode errs.Code
	}{
		{
			name:     "negative width",
			body:     LayoutRequest{Analysis: testAnalysis(), Width: -100},
			wantCode: errs.ErrCodeInvalidInput,
		},
		{
			name:     "oversized scale",
			body:     LayoutRequest{Analysis: testAnalysis(), Scale: 20},
			wantCode: errs.ErrCodeInvalidInput,
		},
		{
			name:     "unknown format",
			body:     LayoutRequest{Analysis: testAnalysis(), Formats: []string{"gif"}},
			wantCode: errs.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, router, "/v1/layout", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			if resp := decodeError(t, rr); resp.Code != string(tt.wantCode) {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", resp.Status)
	}
}

func TestHandleVersion(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/version", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp VersionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Version == "" {
		t.Error("Version is empty")
	}
}

func TestNotFoundRoute(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if resp := decodeError(t, rr); resp.Code != string(errs.ErrCodeNotFound) {
		t.Errorf("code = %q, want %q", resp.Code, errs.ErrCodeNotFound)
	}
}

func TestMetricsRoute(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)

	t.Run("mounted", func(t *testing.T) {
		srv := NewServer(runner, Options{
			Logger: logger,
			Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}),
		})
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
		}
	})

	t.Run("absent", func(t *testing.T) {
		srv := NewServer(runner, Options{Logger: logger})
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
		}
	})
}

func TestRequestIDReused(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv := testServer(t, nil)
	h := srv.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/trace", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if resp := decodeError(t, rr); resp.Code != string(errs.ErrCodeInternal) {
		t.Errorf("code = %q, want %q", resp.Code, errs.ErrCodeInternal)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code errs.Code
		want int
	}{
		{errs.ErrCodeInvalidInput, http.StatusBadRequest},
		{errs.ErrCodeInvalidAnalysis, http.StatusBadRequest},
		{errs.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errs.ErrCodeNotFound, http.StatusNotFound},
		{errs.ErrCodeFileNotFound, http.StatusNotFound},
		{errs.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errs.ErrCodeUnsupported, http.StatusNotImplemented},
		{errs.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForCode(tt.code); got != tt.want {
			t.Errorf("statusForCode(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
