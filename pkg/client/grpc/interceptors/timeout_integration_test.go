package interceptors

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	pb "github.com/abgdnv/shoecatalog/pkg/api/catalog/v1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// slowCatalogService is a mock gRPC service that simulates a slow response
type slowCatalogService struct {
	pb.UnimplementedCatalogServiceServer
	delay time.Duration
}

func (s *slowCatalogService) GetItem(ctx context.Context, req *pb.GetItemRequest) (*pb.GetItemResponse, error) {
	time.Sleep(s.delay)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &pb.GetItemResponse{Item: &pb.Item{Id: req.Id}}, nil
}

// skipIntegrationTests is an environment variable that can be set to skip integration tests
const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

// Test_GRPCClient_TimeoutInterceptor tests the gRPC client timeout interceptor
func Test_GRPCClient_TimeoutInterceptor(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	// given
	const serviceDelay = 200 * time.Millisecond
	const clientTimeout = 100 * time.Millisecond

	// 1. start slow grpc server
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer()
	slowService := &slowCatalogService{delay: serviceDelay}
	pb.RegisterCatalogServiceServer(grpcServer, slowService)

	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(func() { grpcServer.Stop() })

	// 2. create gRPC client with shorter timeout
	grpcClient, err := grpc.NewClient(
		lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(
			UnaryClientTimeoutInterceptor(clientTimeout),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = grpcClient.Close() })

	catalogClient := pb.NewCatalogServiceClient(grpcClient)

	// when
	_, err = catalogClient.GetItem(context.Background(), &pb.GetItemRequest{Id: "65a1b2c3d4e5f60718293a4b"})

	// then
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "Error should be a gRPC status error")
	require.Equal(t, codes.DeadlineExceeded, st.Code(), "Expected DeadlineExceeded error code")
}
