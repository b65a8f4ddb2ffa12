// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries report parse, render, cache and transport events here instead
// of depending on a metrics backend.
//
// # Architecture
//
// Hooks are grouped by event category, each with a no-op default that
// stays in place until a program registers its own implementation.
// [LogHooks] reports every event as a debug log line; the CLI installs it
// with [InstallLogHooks].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := g.TryParse(text)
//	observability.Pipeline().OnParseComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the parse → serialize → render pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Transport Hooks
// =============================================================================

// TransportHooks receives events from the HTTP and Kafka transports.
type TransportHooks interface {
	// OnMessage records an incoming dialogue message.
	OnMessage(ctx context.Context, transport, sessionID string)

	// OnReply records the outcome of handling a message.
	OnReply(ctx context.Context, transport, sessionID string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseComplete(context.Context, int, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopTransportHooks is a no-op implementation of TransportHooks.
type NoopTransportHooks struct{}

func (NoopTransportHooks) OnMessage(context.Context, string, string)                     {}
func (NoopTransportHooks) OnReply(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// registry is replaced as a whole on every change, so readers load it
// without locking.
type registry struct {
	pipeline  PipelineHooks
	cache     CacheHooks
	transport TransportHooks
}

var (
	current atomic.Pointer[registry]
	writeMu sync.Mutex
)

func init() { Reset() }

// update applies fn to a copy of the current registry and publishes it.
func update(fn func(r *registry)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetTransportHooks registers transport hooks. A nil h is ignored.
func SetTransportHooks(h TransportHooks) {
	if h != nil {
		update(func(r *registry) { r.transport = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// Transport returns the registered transport hooks.
func Transport() TransportHooks { return current.Load().transport }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	current.Store(&registry{
		pipeline:  NoopPipelineHooks{},
		cache:     NoopCacheHooks{},
		transport: NoopTransportHooks{},
	})
}
