package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
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

func testAnalysis() trace.Analysis {
	return trace.Analysis{
		Claim:   "5G towers spread the virus",
		Verdict: trace.VerdictFalse,
		Origin:  &trace.Origin{Description: "Forum post", Platform: "tech forum", Date: "2020-01"},
		Evolution: []trace.Step{
			{Description: "Video essay links towers to outbreaks", Date: "2020-02"},
		},
		Beliefs: []trace.Belief{{Driver: "Distrust of telecom companies"}},
		Sources: []trace.Source{
			{Title: "WHO statement", URL: "https://who.int/5g", Reliability: 0.95, Stance: trace.StanceDisputes},
		},
		Links: []string{"https://example.org/context"},
	}
}

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"json", "gif"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Empty options should pass: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats should be [%s], got %v", DefaultFormat, opts.Formats)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Width: 1000}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalFormats := opts.Formats
	originalWidth := opts.Width

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if len(opts.Formats) != len(originalFormats) {
		t.Error("Formats changed on second call")
	}
	if opts.Width != originalWidth {
		t.Error("Width changed on second call")
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero values", Options{}, false},
		{"explicit overrides", Options{Width: 1280, Height: 720, GridSize: 10, Passes: 3}, false},
		{"negative width", Options{Width: -1}, true},
		{"negative grid", Options{GridSize: -5}, true},
		{"negative passes", Options{Passes: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateForLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestOptionsValidateForExport(t *testing.T) {
	opts := Options{Formats: []string{"gif"}}
	err := opts.ValidateForExport()
	if err == nil {
		t.Fatal("Unknown format should fail")
	}
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidFormat)
	}

	opts = Options{Scale: -1}
	if err := opts.ValidateForExport(); err == nil {
		t.Error("Negative scale should fail")
	}
}

func TestOptionsLayoutConfig(t *testing.T) {
	// Zero options yield the layout defaults
	cfg := (&Options{}).LayoutConfig()
	if cfg != layout.DefaultConfig() {
		t.Errorf("LayoutConfig() = %+v, want defaults", cfg)
	}

	// Scalar overrides win over the runtime config; untouched fields survive
	opts := Options{
		Width:  1000,
		Layout: layout.Config{FrameWidth: 4000, HSpacing: 500},
	}
	cfg = opts.LayoutConfig()
	if cfg.FrameWidth != 1000 {
		t.Errorf("FrameWidth = %g, want 1000", cfg.FrameWidth)
	}
	if cfg.HSpacing != 500 {
		t.Errorf("HSpacing = %g, want 500", cfg.HSpacing)
	}
	if cfg.VSpacing != layout.DefaultVSpacing {
		t.Errorf("VSpacing = %g, want default %g", cfg.VSpacing, layout.DefaultVSpacing)
	}
}

func TestOptionsArtifactKeyOpts(t *testing.T) {
	opts := Options{}
	keyOpts := opts.ArtifactKeyOpts("png")

	if keyOpts.Format != "png" {
		t.Errorf("Format = %q, want %q", keyOpts.Format, "png")
	}
	// Effective values, so zero and explicit defaults key identically
	if keyOpts.Scale != export.DefaultScale {
		t.Errorf("Scale = %g, want %g", keyOpts.Scale, export.DefaultScale)
	}
	if keyOpts.NodeWidth != layout.DefaultNodeWidth {
		t.Errorf("NodeWidth = %g, want %g", keyOpts.NodeWidth, layout.DefaultNodeWidth)
	}
}

func TestRunnerExecute(t *testing.T) {
	r := testRunner(nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), testAnalysis(), Options{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	// origin, step, claim, belief, source, link
	if result.Stats.NodeCount != 6 {
		t.Errorf("NodeCount = %d, want 6", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", result.Stats.EdgeCount)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if result.Stats.Overlaps != 0 {
		t.Errorf("Overlaps = %d, want 0", result.Stats.Overlaps)
	}

	for _, n := range result.Diagram.Nodes {
		if n.Position == nil {
			t.Errorf("node %s has no position", n.ID)
		}
	}

	data, ok := result.Artifacts[DefaultFormat]
	if !ok {
		t.Fatalf("missing default artifact, got %v", result.Artifacts)
	}
	d, err := diagram.ReadDiagram(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("default artifact is not a diagram: %v", err)
	}
	if len(d.Nodes) != 6 {
		t.Errorf("artifact nodes = %d, want 6", len(d.Nodes))
	}

	if result.CacheInfo.BuildHit || result.CacheInfo.LayoutHit || result.CacheInfo.ExportHit {
		t.Errorf("no stage should hit with caching disabled: %+v", result.CacheInfo)
	}
}

func TestRunnerExecuteCacheHits(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := testRunner(c)
	defer r.Close()

	ctx := context.Background()
	a := testAnalysis()

	first, err := r.Execute(ctx, a, Options{})
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.LayoutHit || first.CacheInfo.ExportHit {
		t.Errorf("first run should miss every stage: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, a, Options{})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.ExportHit {
		t.Errorf("second run should hit every stage: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[DefaultFormat], second.Artifacts[DefaultFormat]) {
		t.Error("cached artifact differs from the original")
	}

	// Refresh bypasses the cached results
	third, err := r.Execute(ctx, a, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if third.CacheInfo.BuildHit || third.CacheInfo.LayoutHit || third.CacheInfo.ExportHit {
		t.Errorf("refresh run should miss every stage: %+v", third.CacheInfo)
	}
}

func TestRunnerExecuteFormats(t *testing.T) {
	r := testRunner(nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), testAnalysis(), Options{Formats: []string{"json", "dot"}})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(result.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(result.Artifacts))
	}
	if !strings.HasPrefix(string(result.Artifacts["dot"]), "digraph trace {") {
		t.Errorf("dot artifact missing header: %.40s", result.Artifacts["dot"])
	}
}

func TestRunnerBuildInvalidAnalysis(t *testing.T) {
	r := testRunner(nil)
	defer r.Close()

	_, err := r.Build(context.Background(), trace.Analysis{}, Options{})
	if err == nil {
		t.Fatal("empty claim should fail")
	}
	if !errs.Is(err, errs.ErrCodeInvalidAnalysis) {
		t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidAnalysis)
	}
}

func TestRunnerLayoutInvalidGraph(t *testing.T) {
	r := testRunner(nil)
	defer r.Close()

	g := diagram.Graph{
		Nodes: []diagram.Node{{ID: "claim", Role: diagram.RoleClaim}},
		Edges: []diagram.Edge{{From: "claim", To: "ghost", Kind: diagram.EdgeFlow}},
	}

	_, err := r.Layout(context.Background(), g, Options{})
	if err == nil {
		t.Fatal("dangling edge should fail")
	}
	if !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidGraph)
	}
}

// countingHooks counts pipeline stage events.
type countingHooks struct {
	observability.NoopPipelineHooks
	buildStart, buildDone   int
	layoutStart, layoutDone int
	exportStart, exportDone int
}

func (h *countingHooks) OnBuildStart(ctx context.Context, claim string) { h.buildStart++ }
func (h *countingHooks) OnBuildComplete(ctx context.Context, claim string, nodeCount int, d time.Duration, err error) {
	h.buildDone++
}
func (h *countingHooks) OnLayoutStart(ctx context.Context, nodeCount int) { h.layoutStart++ }
func (h *countingHooks) OnLayoutComplete(ctx context.Context, overlaps int, d time.Duration, err error) {
	h.layoutDone++
}
func (h *countingHooks) OnExportStart(ctx context.Context, format string) { h.exportStart++ }
func (h *countingHooks) OnExportComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.exportDone++
}

func TestRunnerEmitsHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := testRunner(nil)
	defer r.Close()

	if _, err := r.Execute(context.Background(), testAnalysis(), Options{Formats: []string{"json", "dot"}}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if hooks.buildStart != 1 || hooks.buildDone != 1 {
		t.Errorf("build events = %d/%d, want 1/1", hooks.buildStart, hooks.buildDone)
	}
	if hooks.layoutStart != 1 || hooks.layoutDone != 1 {
		t.Errorf("layout events = %d/%d, want 1/1", hooks.layoutStart, hooks.layoutDone)
	}
	// One event pair per requested format
	if hooks.exportStart != 2 || hooks.exportDone != 2 {
		t.Errorf("export events = %d/%d, want 2/2", hooks.exportStart, hooks.exportDone)
	}
}

func TestRunnerStageChain(t *testing.T) {
	r := testRunner(nil)
	defer r.Close()
	ctx := context.Background()

	g, err := r.Build(ctx, testAnalysis(), Options{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	d, err := r.Layout(ctx, g, Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if d.FrameWidth != layout.DefaultFrameWidth {
		t.Errorf("FrameWidth = %g, want %g", d.FrameWidth, layout.DefaultFrameWidth)
	}

	artifacts, err := r.Export(ctx, d, Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if _, ok := artifacts["dot"]; !ok {
		t.Fatalf("missing dot artifact, got %v", artifacts)
	}
}
