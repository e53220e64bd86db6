package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/shoecatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPConfig has the configuration for the HTTP server.
type HTTPConfig struct {
	Port           int
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	ReadHeader     time.Duration
}

// NewHTTPServer creates and configures a new HTTP server instance.
// The handler is wrapped with otelhttp so incoming trace context is continued.
func NewHTTPServer(cfg HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(handler, "http.server"),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// RouterOption adds middleware to the router built by NewChiRouter.
type RouterOption func(*chi.Mux)

// WithCORS enables cross-origin requests from the given origins.
func WithCORS(allowedOrigins []string, maxAge time.Duration) RouterOption {
	return func(mux *chi.Mux) {
		mux.Use(web.CORS(allowedOrigins, maxAge))
	}
}

// WithRateLimit rejects clients exceeding their token bucket.
func WithRateLimit(rl *web.RateLimiter, logger *slog.Logger) RouterOption {
	return func(mux *chi.Mux) {
		mux.Use(rl.Middleware(logger))
	}
}

// NewChiRouter creates a new Chi router with a set of
// middleware for request ID injection, structured logging, and recovery.
// Unmatched routes answer with a JSON 404.
func NewChiRouter(logger *slog.Logger, opts ...RouterOption) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	for _, opt := range opts {
		opt(mux)
	}
	mux.NotFound(web.NotFound(logger))
	return mux
}
