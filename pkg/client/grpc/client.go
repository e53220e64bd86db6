// Package grpc builds clients for the internal catalog gRPC API.
package grpc

import (
	"fmt"

	pb "github.com/abgdnv/shoecatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/shoecatalog/pkg/client/grpc/interceptors"
	"github.com/abgdnv/shoecatalog/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewCatalogClient dials the catalog service with retry, circuit breaker and per-attempt timeout interceptors.
// The caller owns the returned connection.
func NewCatalogClient(cfg config.GrpcClientConfig, res config.ResilienceConfig, opts ...grpc.DialOption) (pb.CatalogServiceClient, *grpc.ClientConn, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewRetryInterceptor(res.Retry),
			interceptors.NewCircuitBreaker(res.CircuitBreaker),
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
		),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)

	conn, err := grpc.NewClient(cfg.Addr, dialOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gRPC client connection: %w", err)
	}
	return pb.NewCatalogServiceClient(conn), conn, nil
}
