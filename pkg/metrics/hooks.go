package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/factlens/origintrace/pkg/observability"
)

// Hooks implements the observability hook interfaces on top of a
// Registry. Start events are cheap bookkeeping; the Complete events
// carry the measured durations, so the adapter holds no state.
type Hooks struct {
	Registry *Registry
}

// Register creates hooks backed by r and installs them for all event
// categories.
func Register(r *Registry) {
	h := Hooks{Registry: r}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// =============================================================================
// Pipeline Events
// =============================================================================

// OnBuildStart does nothing; build metrics are recorded on completion.
func (h Hooks) OnBuildStart(ctx context.Context, claim string) {}

// OnBuildComplete records the build stage outcome and graph size.
func (h Hooks) OnBuildComplete(ctx context.Context, claim string, nodeCount int, duration time.Duration, err error) {
	h.Registry.StageTotal.WithLabelValues("build", statusLabel(err)).Inc()
	h.Registry.StageDuration.WithLabelValues("build").Observe(duration.Seconds())
	if err == nil {
		h.Registry.GraphNodes.Observe(float64(nodeCount))
	}
}

// OnLayoutStart does nothing; layout metrics are recorded on completion.
func (h Hooks) OnLayoutStart(ctx context.Context, nodeCount int) {}

// OnLayoutComplete records the layout stage outcome and how many node
// pairs stayed overlapping.
func (h Hooks) OnLayoutComplete(ctx context.Context, overlaps int, duration time.Duration, err error) {
	h.Registry.StageTotal.WithLabelValues("layout", statusLabel(err)).Inc()
	h.Registry.StageDuration.WithLabelValues("layout").Observe(duration.Seconds())
	if err == nil {
		h.Registry.LayoutOverlaps.Observe(float64(overlaps))
	}
}

// OnExportStart does nothing; export metrics are recorded on completion.
func (h Hooks) OnExportStart(ctx context.Context, format string) {}

// OnExportComplete records the export stage outcome and artifact size.
func (h Hooks) OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error) {
	h.Registry.StageTotal.WithLabelValues("export", statusLabel(err)).Inc()
	h.Registry.StageDuration.WithLabelValues("export").Observe(duration.Seconds())
	if err == nil {
		h.Registry.ArtifactBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// =============================================================================
// Cache Events
// =============================================================================

// OnCacheHit records a cache hit.
func (h Hooks) OnCacheHit(ctx context.Context, keyType string) {
	h.Registry.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

// OnCacheMiss records a cache miss.
func (h Hooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.Registry.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

// OnCacheSet records a cache write.
func (h Hooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.Registry.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// =============================================================================
// HTTP Events
// =============================================================================

// OnRequest tracks the in-flight request count.
func (h Hooks) OnRequest(ctx context.Context, method, route string) {
	h.Registry.HTTPRequestsInFlight.Inc()
}

// OnResponse records the completed request.
func (h Hooks) OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	h.Registry.HTTPRequestsInFlight.Dec()
	h.Registry.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	h.Registry.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// OnPanic records a recovered panic.
func (h Hooks) OnPanic(ctx context.Context, method, route string) {
	h.Registry.HTTPPanicsTotal.WithLabelValues(method, route).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Ensure Hooks implements all observability hook interfaces.
var (
	_ observability.PipelineHooks = Hooks{}
	_ observability.CacheHooks    = Hooks{}
	_ observability.HTTPHooks     = Hooks{}
)
