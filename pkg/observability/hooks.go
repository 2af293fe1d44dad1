// Package observability provides hooks for metrics and tracing.
//
// The server and render paths emit events through hook interfaces with
// no-op defaults, so the core packages stay free of any concrete
// metrics backend. A deployment registers its implementations once at
// startup:
//
//	observability.SetRenderHooks(&myRenderHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
package observability

import (
	"context"
	"sync"
	"time"
)

// RenderHooks receives events from full figure renders.
type RenderHooks interface {
	// OnRenderStart records a full render beginning, with the number of
	// leaves whose producers will run.
	OnRenderStart(ctx context.Context, leafCount int)

	// OnRenderComplete records a finished render and its outcome.
	OnRenderComplete(ctx context.Context, leafCount int, duration time.Duration, err error)
}

// SessionHooks receives events from the session store.
type SessionHooks interface {
	// OnCreate records a new session.
	OnCreate(ctx context.Context)

	// OnEvict records sessions removed by TTL cleanup.
	OnEvict(ctx context.Context, count int)
}

// CacheHooks receives events from the rendered-SVG response cache.
type CacheHooks interface {
	OnHit(ctx context.Context, key string)
	OnMiss(ctx context.Context, key string)
	OnSet(ctx context.Context, key string, size int)
	OnError(ctx context.Context, op string, err error)
}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, int)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, int, time.Duration, error) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnCreate(context.Context)     {}
func (NoopSessionHooks) OnEvict(context.Context, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)          {}
func (NoopCacheHooks) OnMiss(context.Context, string)         {}
func (NoopCacheHooks) OnSet(context.Context, string, int)     {}
func (NoopCacheHooks) OnError(context.Context, string, error) {}

var (
	renderHooks  RenderHooks  = NoopRenderHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetRenderHooks registers custom render hooks. Call once at startup.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetSessionHooks registers custom session hooks. Call once at startup.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	sessionHooks = NoopSessionHooks{}
	cacheHooks = NoopCacheHooks{}
}
