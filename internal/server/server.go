package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/tiletree/pkg/observability"
	"github.com/matzehuels/tiletree/pkg/sim"
)

// ShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const ShutdownTimeout = 5 * time.Second

// Server serves the debug API for one Sim.
type Server struct {
	mu        sync.Mutex
	sim       *sim.Sim
	logger    *log.Logger
	hooks     observability.HTTPHooks
	gatherer  prometheus.Gatherer
	newHandle func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHTTPHooks sets the request hooks. Defaults to the global registry.
func WithHTTPHooks(h observability.HTTPHooks) Option {
	return func(s *Server) { s.hooks = h }
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithHandleFunc sets the generator for handles of windows mapped without
// one.
func WithHandleFunc(fn func() string) Option {
	return func(s *Server) { s.newHandle = fn }
}

// New creates a Server over s. The caller must not touch s while the server
// is running.
func New(s *sim.Sim, opts ...Option) *Server {
	srv := &Server{
		sim:       s,
		logger:    log.Default(),
		hooks:     observability.HTTP(),
		gatherer:  prometheus.DefaultGatherer,
		newHandle: uuid.NewString,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/workspaces", s.handleWorkspaces)
	r.Get("/tree", s.handleTree)
	r.Get("/tree.dot", s.handleDOT)
	r.Route("/workspaces/{ws}", func(r chi.Router) {
		r.Get("/tree", s.handleWorkspaceTree)
		r.Get("/ascii", s.handleWorkspaceASCII)
	})

	r.Route("/windows", func(r chi.Router) {
		r.Get("/", s.handleListWindows)
		r.Post("/", s.handleMapWindow)
		r.Route("/{handle}", func(r chi.Router) {
			r.Delete("/", s.handleUnmapWindow)
			r.Post("/focus", s.handleFocusWindow)
			r.Post("/message", s.handleMessage)
		})
	})

	r.Route("/monitors", func(r chi.Router) {
		r.Get("/", s.handleListMonitors)
		r.Post("/", s.handleAddMonitor)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			return srv.Close()
		}
		s.logger.Info("server stopped")
		return nil
	}
}

// logRequests logs each request and reports the response to the HTTP hooks
// under its route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		s.hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)

		s.hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d,
			"id", middleware.GetReqID(r.Context()))
	})
}
