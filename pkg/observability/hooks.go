// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about storage access, node sizing, rendering and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so library packages stay
// free of observability frameworks and import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetSizingHooks(&mySizingHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Store().OnGet(ctx, "redis", key, hit, time.Since(start), err)
//	observability.Sizing().OnAutoResize(ctx, nodeID, oldW, oldH, newW, newH)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from key-value store operations.
// backend is the store's name ("memory", "file", "sqlite", "redis", "mongo").
type StoreHooks interface {
	OnGet(ctx context.Context, backend, key string, hit bool, duration time.Duration, err error)
	OnSet(ctx context.Context, backend, key string, size int, duration time.Duration, err error)
	OnDelete(ctx context.Context, backend, key string, err error)

	// OnFallback records a load or save that failed and was absorbed: the
	// caller kept its default or previous value.
	OnFallback(ctx context.Context, key string, err error)
}

// =============================================================================
// Sizing Hooks
// =============================================================================

// SizingHooks receives node box size decisions.
type SizingHooks interface {
	// OnAutoResize records a text-driven size change.
	OnAutoResize(ctx context.Context, nodeID string, oldW, oldH, newW, newH float64)

	// OnManualResize records an explicit resize, including no-op requests.
	OnManualResize(ctx context.Context, nodeID string, w, h float64)

	// OnManualReset records the manual flag being cleared by near-empty text.
	OnManualReset(ctx context.Context, nodeID string)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from diagram rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, formats []string, nodeCount int)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request after routing.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnSet(context.Context, string, string, int, time.Duration, error)  {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, error)                  {}
func (NoopStoreHooks) OnFallback(context.Context, string, error)                        {}

// NoopSizingHooks is a no-op implementation of SizingHooks.
type NoopSizingHooks struct{}

func (NoopSizingHooks) OnAutoResize(context.Context, string, float64, float64, float64, float64) {
}
func (NoopSizingHooks) OnManualResize(context.Context, string, float64, float64) {}
func (NoopSizingHooks) OnManualReset(context.Context, string)                    {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, []string, int)                       {}
func (NoopRenderHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks  StoreHooks  = NoopStoreHooks{}
	sizingHooks SizingHooks = NoopSizingHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetSizingHooks registers custom sizing hooks.
func SetSizingHooks(h SizingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sizingHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
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

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Sizing returns the registered sizing hooks.
func Sizing() SizingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sizingHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
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
	storeHooks = NoopStoreHooks{}
	sizingHooks = NoopSizingHooks{}
	renderHooks = NoopRenderHooks{}
	httpHooks = NoopHTTPHooks{}
}
