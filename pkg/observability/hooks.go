// Package observability provides hooks for metrics, tracing, and logging.
//
// The mining engine and the pipeline report events through small hook
// interfaces instead of importing a metrics backend. Hooks default to no-op
// implementations; main registers real ones at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    reg := prometheus.NewRegistry()
//	    observability.Register(observability.NewPrometheus(reg))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Mining().OnMineStart(ctx, items)
//	// ... grow patterns ...
//	observability.Mining().OnMineComplete(ctx, patterns, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Mining Hooks
// =============================================================================

// MiningHooks receives events from the pattern-growth engine.
type MiningHooks interface {
	// OnMineStart records the start of a run over a tree with the given
	// number of header items.
	OnMineStart(ctx context.Context, items int)

	// OnConditionalTree records one conditional tree built at depth.
	OnConditionalTree(ctx context.Context, depth, nodes int)

	// OnMineComplete records the end of a run.
	OnMineComplete(ctx context.Context, patterns int, duration time.Duration, err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load-and-mine pipeline.
type PipelineHooks interface {
	// OnLoadComplete records a parsed transaction database.
	OnLoadComplete(ctx context.Context, transactions int, duration time.Duration, err error)

	// OnBuildComplete records the construction of the top-level tree.
	OnBuildComplete(ctx context.Context, frequentItems, nodes int, duration time.Duration)
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
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records a served request.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMiningHooks is a no-op implementation of MiningHooks.
type NoopMiningHooks struct{}

func (NoopMiningHooks) OnMineStart(context.Context, int)                          {}
func (NoopMiningHooks) OnConditionalTree(context.Context, int, int)               {}
func (NoopMiningHooks) OnMineComplete(context.Context, int, time.Duration, error) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration)  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	miningHooks   MiningHooks   = NoopMiningHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serverHooks   ServerHooks   = NoopServerHooks{}
	hooksMu       sync.RWMutex
)

// SetMiningHooks registers custom mining hooks.
func SetMiningHooks(h MiningHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		miningHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Register installs h for every hook interface it implements.
func Register(h any) {
	if m, ok := h.(MiningHooks); ok {
		SetMiningHooks(m)
	}
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
	}
	if s, ok := h.(ServerHooks); ok {
		SetServerHooks(s)
	}
}

// Mining returns the registered mining hooks.
func Mining() MiningHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return miningHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	miningHooks = NoopMiningHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
