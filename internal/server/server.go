// Package server exposes imports, exports and spending reports over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"fintrack/bank-import/internal/fxrate"
	"fintrack/bank-import/internal/importer"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/report"
	"fintrack/bank-import/internal/throttle"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Defaults for Config.
const (
	DefaultMaxUploadBytes = 32 << 20
	DefaultRatePerSecond  = 20
	DefaultBurst          = 40
)

// Importer imports uploaded statements.
type Importer interface {
	ImportFiles(ctx context.Context, accountID string, files []importer.File) []importer.Report
}

// Store is the read side used by the export endpoint.
type Store interface {
	Account(ctx context.Context, id string) (models.Account, error)
	Transactions(ctx context.Context, accountID string) ([]models.StoredTransaction, error)
}

// Reports builds per-user analytics.
type Reports interface {
	Forecast(ctx context.Context, userID string) (report.ForecastReport, error)
	Suggestions(ctx context.Context, userID string) (report.SuggestionReport, error)
}

// Rates answers exchange-rate queries.
type Rates interface {
	Rate(ctx context.Context, from, to string) (fxrate.Rate, error)
}

// Config holds server configuration and dependencies.
type Config struct {
	Addr           string
	RatePerSecond  float64
	Burst          int
	AllowedOrigins []string
	MaxUploadBytes int64

	Importer Importer
	Store    Store
	Reports  Reports
	Rates    Rates
	Throttle *throttle.Throttle
	Logger   logging.Logger
}

// Server is the HTTP API.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	cfg      Config
	limiter  *rate.Limiter
	throttle *throttle.Throttle
	logger   logging.Logger
}

// New creates a server with its routes and middleware installed.
func New(cfg Config) *Server {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		throttle: cfg.Throttle,
		logger:   logging.OrDefault(cfg.Logger).WithField("component", "server"),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", userHeader},
		ExposedHeaders: []string{headerLimit, headerRemaining, headerReset},
		MaxAge:         300,
	}))
	s.router.Use(s.rateLimitMiddleware)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Post("/imports", s.handleImport)
			r.Get("/export.csv", s.handleExport)
		})
		r.Route("/users/{id}", func(r chi.Router) {
			r.Use(s.throttleMiddleware)
			r.Get("/forecast", s.handleForecast)
			r.Get("/budget-suggestions", s.handleSuggestions)
		})
		r.Get("/fx", s.handleFX)
	})
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", logging.Field{Key: "addr", Value: s.cfg.Addr})
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
