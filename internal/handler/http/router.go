package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/handler/http/requestid"
	"inkwell/internal/observability/tracing"
)

// RouterConfig lists what the site's handler tree is built from.
type RouterConfig struct {
	Logger  *slog.Logger
	DB      *sql.DB
	Version string
	// Pages serves every path not claimed by another route.
	Pages http.Handler
	// Static, when set, serves /static/.
	Static http.Handler
	// MetricsPath exposes Prometheus metrics; empty disables the route.
	MetricsPath    string
	RequestTimeout time.Duration
}

// NewRouter registers the probes, metrics, static files and pages and wraps
// them in the middleware chain. Probes and metrics skip the page timeout.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", &HealthHandler{DB: cfg.DB, Version: cfg.Version})
	mux.Handle("GET /ready", &ReadyHandler{DB: cfg.DB})
	mux.Handle("GET /live", LiveHandler{})
	if cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, MetricsHandler())
	}
	if cfg.Static != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", cfg.Static))
	}
	if cfg.Pages != nil {
		mux.Handle("GET /", Chain(cfg.Pages, SecurityHeaders, Timeout(cfg.RequestTimeout)))
	}

	return Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		Logging(logger),
		MetricsMiddleware,
		Recover(logger),
	)
}
