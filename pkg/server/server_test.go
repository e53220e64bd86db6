package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/shoecatalog/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func Test_NewChiRouter_Options(t *testing.T) {
	// given
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := NewChiRouter(logger,
		WithCORS([]string{"http://shop.local"}, time.Minute),
		WithRateLimit(web.NewRateLimiter(0.001, 1, 10, time.Minute), logger),
	)
	mux.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Origin", "http://shop.local")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	// when
	first := get("/ping")
	second := get("/ping")

	// then
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "http://shop.local", first.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, first.Header().Get("X-Request-Id"))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func Test_NewGRPCServer_Health(t *testing.T) {
	// given
	lis := bufconn.Listen(1024 * 1024)
	srv := NewGRPCServer(true)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// when
	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})

	// then
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.Status)
}
