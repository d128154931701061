// Package server exposes the layout engine over HTTP.
//
// Two styles of use are supported. POST /v1/layout is stateless: it lays out
// the posted graph and caches the result by content. Sessions keep a
// relayout driver per diagram, so a rendering client can post a graph,
// report measured node sizes as they become known and receive a fresh
// layout only when a report actually changes something.
//
//	POST   /v1/layout
//	POST   /v1/sessions
//	GET    /v1/sessions/{id}
//	DELETE /v1/sessions/{id}
//	PUT    /v1/sessions/{id}/graph
//	POST   /v1/sessions/{id}/sizes
//	PUT    /v1/sessions/{id}/anchors
//	GET    /healthz
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// DefaultSessionTTL is how long a session may sit idle before it is swept.
const DefaultSessionTTL = time.Hour

// Config configures a Server.
type Config struct {
	// Options are used when a request does not carry its own.
	Options layout.Options
	// Runner computes stateless layouts. Nil uses an uncached runner.
	Runner *pipeline.Runner
	// Logger defaults to log.Default().
	Logger *log.Logger
	// SessionTTL is the idle time after which a session expires. Zero uses
	// DefaultSessionTTL.
	SessionTTL time.Duration
}

// Server serves layouts and relayout sessions.
type Server struct {
	opts       layout.Options
	runner     *pipeline.Runner
	logger     *log.Logger
	router     chi.Router
	sessionTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	driver  *pipeline.Driver
	created time.Time

	mu       sync.Mutex
	lastUsed time.Time
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

// New creates a server. It fails with INVALID_OPTIONS when cfg.Options do not
// validate.
func New(cfg Config) (*Server, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "server layout options")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	s := &Server{
		opts:       cfg.Options,
		runner:     cfg.Runner,
		logger:     cfg.Logger,
		sessionTTL: cfg.SessionTTL,
		sessions:   make(map[string]*session),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/graph", s.handleSetGraph)
			r.Post("/sizes", s.handleReportSizes)
			r.Put("/anchors", s.handleSetAnchors)
		})
	})
	return r
}

// Handler returns the HTTP handler for all endpoints.
func (s *Server) Handler() http.Handler { return s.router }

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the session TTL and returns
// how many were removed.
func (s *Server) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.sessionTTL {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept idle sessions", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

// sweepLoop sweeps idle sessions until ctx is canceled.
func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(max(s.sessionTTL/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. Idle sessions are swept while the server runs.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.sweepLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
