// Package server exposes the layout engine as an HTTP API: session
// creation, rendering and the structural edit endpoints, authenticated
// by opaque bearer tokens.
package server

import (
	"context"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/panegrid/pkg/cache"
	"github.com/matzehuels/panegrid/pkg/registry"
	"github.com/matzehuels/panegrid/pkg/session"
)

// Server holds the shared state behind the HTTP API: the session store,
// the producer registry and the optional rendered-SVG cache.
type Server struct {
	store      *session.Store
	registry   *registry.Registry
	svgCache   cache.Cache
	svgTTL     time.Duration
	touchRatio float64
}

// Option configures a Server.
type Option func(*Server)

// WithSessionTTL sets how long sessions stay valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.store = session.NewStore(ttl) }
}

// WithSVGCache caches full-render SVG responses in c with the given
// ttl. Edits are never cached.
func WithSVGCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		s.svgCache = c
		s.svgTTL = ttl
	}
}

// WithTouchRatio sets the minimum edge-overlap ratio merges require;
// ratio <= 0 keeps the default.
func WithTouchRatio(ratio float64) Option {
	return func(s *Server) { s.touchRatio = ratio }
}

// New creates a server rendering with the given producer registry.
func New(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		store:    session.NewStore(session.DefaultTTL),
		registry: reg,
		svgCache: cache.NewNullCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Post("/session", s.handleSession)
	r.Get("/functions", s.handleFunctions)

	r.Group(func(r chi.Router) {
		r.Use(s.withAuth)
		r.Get("/health", s.handleHealth)
		r.Post("/render", s.handleRender)

		r.Route("/edit", func(r chi.Router) {
			r.Post("/split", s.handleSplit)
			r.Post("/delete", s.handleDelete)
			r.Post("/insert", s.handleInsert)
			r.Post("/replace", s.handleReplace)
			r.Post("/restructure", s.handleRestructure)
			r.Post("/rotate", s.handleRotate)
			r.Post("/swap", s.handleSwap)
			r.Post("/resize", s.handleResize)
			r.Post("/merge", s.handleMerge)
			r.Post("/unmerge", s.handleUnmerge)
		})
	})
	return r
}

// ListenAndServe runs the API on addr until ctx is cancelled, then
// shuts down gracefully. A session cleanup loop runs alongside.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.store.StartCleanup(ctx, time.Hour)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		charmlog.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
