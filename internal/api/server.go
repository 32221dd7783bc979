// Package api serves the registry index and design resolution over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
	"github.com/hanzoai/design-registry/internal/tracing"
)

// BuildHeader carries the id of the index that served a response.
const BuildHeader = "X-Registry-Build"

// maxBodyBytes bounds design config request bodies.
const maxBodyBytes = 1 << 20

// Registry is what the API needs from the registry service.
type Registry interface {
	Index() *registry.Index
	Validate(ctx context.Context, cfg design.Config) error
	Resolve(ctx context.Context, cfg design.Config) (design.Resolution, error)
	ResolveTree(ctx context.Context, name, style string) (registry.Tree, error)
}

// Option configures a Server.
type Option func(*Server)

// WithTracer enables a server span per request.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithPrometheusRegistry registers metrics with reg and serves them on /metrics.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.promRegistry = reg
	}
}

// WithTimeouts sets the read and write timeouts of the HTTP server.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// Server is the registry HTTP API.
type Server struct {
	registry     Registry
	tracer       trace.Tracer
	promRegistry *prometheus.Registry
	metrics      *Metrics
	readTimeout  time.Duration
	writeTimeout time.Duration
	router       chi.Router

	httpServer *http.Server
	errc       chan error
}

// NewServer builds the router for reg.
func NewServer(reg Registry, opts ...Option) *Server {
	s := &Server{
		registry:     reg,
		readTimeout:  10 * time.Second,
		writeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.promRegistry == nil {
		s.promRegistry = prometheus.NewRegistry()
		s.promRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	s.metrics = NewMetrics(s.promRegistry)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(tracing.HTTPMiddleware(s.tracer))
	r.Use(s.buildHeader)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))

	r.Route("/r", func(r chi.Router) {
		r.Get("/styles/index.json", s.handleStyles)
		r.Get("/styles/{style}/index.json", s.handleItems)
		r.Get("/styles/{style}/tree/{file}", s.handleTree)
		r.Get("/styles/{style}/{file}", s.handleItem)

		r.Post("/design-system/validate", s.handleValidate)
		r.Post("/design-system/theme", s.handleTheme)
		r.Post("/design-system/base", s.handleBase)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, fmt.Errorf("%w: %s", errNoRoute, r.URL.Path))
	})
	return r
}

// buildHeader stamps every response with the serving index id.
func (s *Server) buildHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(BuildHeader, s.registry.Index().ID())
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves in the background. An addr with port 0
// picks a free port; the bound address is returned.
func (s *Server) Start(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}
	s.errc = make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errc <- err
		}
		close(s.errc)
	}()

	log.Info(log.CatHTTP, "Registry API listening", "addr", ln.Addr().String())
	return ln.Addr(), nil
}

// Errors returns a channel that receives a serve failure after Start and is
// closed when the server stops.
func (s *Server) Errors() <-chan error {
	return s.errc
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if _, err := s.Start(addr); err != nil {
		return err
	}
	select {
	case err := <-s.errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Info(log.CatHTTP, "Registry API shutting down")
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.ErrorErr(log.CatHTTP, "Failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := toErrorResponse(err)
	s.metrics.observeError(body.Code)
	if status >= http.StatusInternalServerError {
		log.ErrorErr(log.CatHTTP, "Request failed", err, "method", r.Method, "path", r.URL.Path)
	} else {
		log.Debug(log.CatHTTP, "Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "code", body.Code)
	}
	writeJSON(w, status, body)
}
