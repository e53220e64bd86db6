// Package app contains the application setup for the catalog service.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/shoecatalog/internal/config"
	"github.com/abgdnv/shoecatalog/internal/service"
	"github.com/abgdnv/shoecatalog/internal/store"
	grpcImpl "github.com/abgdnv/shoecatalog/internal/transport/grpc"
	"github.com/abgdnv/shoecatalog/internal/transport/rest"
	pb "github.com/abgdnv/shoecatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/shoecatalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/abgdnv/shoecatalog/pkg/messaging"
	"github.com/abgdnv/shoecatalog/pkg/nats"
	"github.com/abgdnv/shoecatalog/pkg/server"
	"github.com/abgdnv/shoecatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
)

type Dependencies struct {
	CatalogService service.CatalogService
	Logger         *slog.Logger
}

// SetupDependencies wires the catalog service on top of the given store.
// The store is wrapped in a circuit breaker; a nil publisher disables events.
func SetupDependencies(itemStore store.ItemStore, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) *Dependencies {
	guarded := store.NewBreakerStore(itemStore, cfg.Resilience.CircuitBreaker)
	return &Dependencies{
		CatalogService: service.NewService(guarded, publisher, cfg.ServiceConfig()),
		Logger:         logger,
	}
}

// SetupStore opens the store selected by database.driver.
// The returned func releases the underlying connection.
func SetupStore(ctx context.Context, cfg pkgconfig.DatabaseConfig, logger *slog.Logger) (store.ItemStore, func(), error) {
	if cfg.Driver == pkgconfig.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return store.NewInMemoryStore(), func() {}, nil
	}

	client, err := bootstrap.NewMongoClient(ctx, cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from database", slog.Any("error", err))
		}
	}
	coll := client.Database(cfg.Name).Collection(cfg.Collection)

	idxCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := store.EnsureIndexes(idxCtx, coll); err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.Info("Successfully connected to the database!", slog.String("collection", cfg.Collection))
	return store.NewMongoStore(coll), closeFn, nil
}

// SetupPublisher connects to NATS JetStream when enabled and makes sure the item stream exists.
// A disabled config yields the no-op publisher.
func SetupPublisher(ctx context.Context, cfg pkgconfig.NATSConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		logger.Info("NATS disabled, item events are not published")
		return messaging.NopPublisher{}, func() {}, nil
	}

	nc, err := nats.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := nats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	streamCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := nats.EnsureStream(streamCtx, js, cfg.Stream, messaging.ItemsWildcardSubject); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", nc.ConnectedUrlRedacted()), slog.String("stream", cfg.Stream))
	return nats.NewNatsPublisher(js), func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.Any("error", err))
		}
	}, nil
}

// SetupHttpHandler initializes the router and routes for the catalog application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	opts := []server.RouterOption{
		server.WithCORS(cfg.HTTPServer.CORS.AllowedOrigins, cfg.HTTPServer.CORS.MaxAge),
	}
	if cfg.RateLimit.Enabled {
		rl := web.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients, cfg.RateLimit.TTL)
		opts = append(opts, server.WithRateLimit(rl, deps.Logger))
	}
	mux := server.NewChiRouter(deps.Logger, opts...)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	catalogHandler := rest.NewHandler(deps.CatalogService, deps.Logger)
	catalogHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server for the catalog application.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	catalogRegisterFunc := func(s *grpc.Server) {
		pb.RegisterCatalogServiceServer(s, grpcImpl.NewServer(deps.CatalogService))
	}
	return server.NewGRPCServer(reflectionEnabled, catalogRegisterFunc)
}
