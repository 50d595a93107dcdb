// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution and the kinetic simulation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetGrowHooks(&myGrowHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnBuildStart(ctx, name, paths)
//	// ... build the routing structure ...
//	observability.Pipeline().OnBuildComplete(ctx, name, bundles, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the routing pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, paths int, duration time.Duration, err error)

	// Build events
	OnBuildStart(ctx context.Context, instance string, paths int)
	OnBuildComplete(ctx context.Context, instance string, bundles int, duration time.Duration, err error)

	// Grow events
	OnGrowStart(ctx context.Context, instance string, bundles int)
	OnGrowComplete(ctx context.Context, instance string, events int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Grow Hooks
// =============================================================================

// GrowHooks receives fine-grained events from the kinetic simulation.
type GrowHooks interface {
	// OnEventScheduled records a certificate pushed onto the event queue.
	OnEventScheduled(ctx context.Context, kind string, time float64)

	// OnEventDiscarded records a popped certificate that was stale or no
	// longer valid at its event time.
	OnEventDiscarded(ctx context.Context, kind string, time float64)

	// OnEventApplied records a mutation applied to the routing structure.
	OnEventApplied(ctx context.Context, kind string, time float64, bundles int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnBuildStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnGrowStart(context.Context, string, int)                           {}
func (NoopPipelineHooks) OnGrowComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopGrowHooks is a no-op implementation of GrowHooks.
type NoopGrowHooks struct{}

func (NoopGrowHooks) OnEventScheduled(context.Context, string, float64)    {}
func (NoopGrowHooks) OnEventDiscarded(context.Context, string, float64)    {}
func (NoopGrowHooks) OnEventApplied(context.Context, string, float64, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	growHooks     GrowHooks     = NoopGrowHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetGrowHooks registers custom grow hooks.
// This should be called once at application startup before any simulation runs.
func SetGrowHooks(h GrowHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		growHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Grow returns the registered grow hooks.
func Grow() GrowHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return growHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	growHooks = NoopGrowHooks{}
}
