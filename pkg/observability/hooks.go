// Package observability provides hooks for metrics, event streaming, and
// request instrumentation.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about layout mutations, geometry passes,
// faults, and debug API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The layout engine accepts a [LayoutHooks] through its options and falls
// back to the global registry when none is given. [MultiLayoutHooks] fans
// one event out to several sinks, for example Prometheus counters and a
// Redis event publisher.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(observability.NewPrometheusHooks(prometheus.DefaultRegisterer))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnInsert(workspace, handle)
//	observability.Layout().OnFault("ORPHANED_NODE")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
//
// Hooks are called synchronously while the engine holds its tree, so
// implementations must not call back into the engine.
type LayoutHooks interface {
	// OnInsert records a window entering the tree.
	OnInsert(workspace int, handle string)

	// OnRemove records a window leaving the tree. collapsed is the number of
	// groups that were pruned or collapsed by the removal.
	OnRemove(workspace int, handle string, collapsed int)

	// OnSplit records a split command applied to a window.
	OnSplit(handle string, layout string)

	// OnRecalc records a completed outermost geometry pass.
	OnRecalc(nodes int, duration time.Duration)

	// OnFault records a logged fault by error code.
	OnFault(code string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the debug API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnInsert(int, string)        {}
func (NoopLayoutHooks) OnRemove(int, string, int)   {}
func (NoopLayoutHooks) OnSplit(string, string)      {}
func (NoopLayoutHooks) OnRecalc(int, time.Duration) {}
func (NoopLayoutHooks) OnFault(string)              {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Fan-out
// =============================================================================

// MultiLayoutHooks forwards every event to each hook in order.
type MultiLayoutHooks []LayoutHooks

func (m MultiLayoutHooks) OnInsert(workspace int, handle string) {
	for _, h := range m {
		h.OnInsert(workspace, handle)
	}
}

func (m MultiLayoutHooks) OnRemove(workspace int, handle string, collapsed int) {
	for _, h := range m {
		h.OnRemove(workspace, handle, collapsed)
	}
}

func (m MultiLayoutHooks) OnSplit(handle string, layout string) {
	for _, h := range m {
		h.OnSplit(handle, layout)
	}
}

func (m MultiLayoutHooks) OnRecalc(nodes int, duration time.Duration) {
	for _, h := range m {
		h.OnRecalc(nodes, duration)
	}
}

func (m MultiLayoutHooks) OnFault(code string) {
	for _, h := range m {
		h.OnFault(code)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any engine is built.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	httpHooks = NoopHTTPHooks{}
}
