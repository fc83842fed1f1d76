package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
	"github.com/couchcryptid/geomag-metadata-service/internal/observability"
	"github.com/couchcryptid/geomag-metadata-service/internal/store"
	"github.com/couchcryptid/geomag-metadata-service/internal/table"
	"github.com/couchcryptid/geomag-metadata-service/internal/view"
)

// Source provides the current metadata snapshot.
type Source interface {
	Snapshot() *store.Snapshot
	CheckReadiness(ctx context.Context) error
}

// Reloader queues a new fetch cycle.
type Reloader interface {
	Reload() bool
}

// Options tune page rendering.
type Options struct {
	PageSize int  // default rows per page: 10, 20 or 50
	Pretty   bool // indent HTML output
}

// Server serves the dashboard pages, the JSON API and the health, readiness
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	source     Source
	reloader   Reloader
	opts       Options
	logger     *slog.Logger
	metrics    *observability.Metrics
	pages      map[string]*template.Template

	observatories *table.Table[domain.ObservatoryRecord]
	institutes    *table.Table[view.InstituteRow]
	definitives   *table.Table[domain.DefinitiveRow]
}

// NewServer creates the HTTP server and registers every route.
func NewServer(addr string, source Source, reloader Reloader, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	if !table.ValidPageSize(opts.PageSize) {
		opts.PageSize = table.DefaultPageSize
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withRequestID(withAccessLog(logger, metrics, mux)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:        source,
		reloader:      reloader,
		opts:          opts,
		logger:        logger,
		metrics:       metrics,
		pages:         parseTemplates(),
		observatories: view.ObservatoryTable(opts.PageSize),
		institutes:    view.InstituteTable(opts.PageSize),
		definitives:   view.DefinitiveTable(opts.PageSize),
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(source))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Page and API bodies are compressed; promhttp negotiates its own.
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, withCompression(h))
	}

	handle("GET /{$}", s.handleObservatoriesPage)
	handle("GET /imos", s.handleObservatoriesPage)
	handle("GET /map", s.handleMapPage)
	handle("GET /institutes", s.handleInstitutesPage)
	handle("GET /definitives", s.handleDefinitivesPage)
	handle("GET /observatories/{iaga}", s.handleDetailPage)
	mux.HandleFunc("/", handleRedirectHome)

	handle("GET /api/observatories", s.handleListObservatories)
	handle("GET /api/observatories/{iaga}", s.handleGetObservatory)
	handle("GET /api/institutes", s.handleListInstitutes)
	handle("GET /api/definitives", s.handleListDefinitives)
	handle("GET /api/map", s.handleMap)
	handle("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	mux.HandleFunc("/api/", handleAPINotFound)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleRedirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}
