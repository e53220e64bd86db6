package interceptors

import (
	"context"
	"errors"

	"github.com/abgdnv/shoecatalog/pkg/breaker"
	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// transientCodes are retried and count as failures for the circuit breaker.
// Catalog outcomes such as NotFound or InvalidArgument are answers, not outages.
var transientCodes = []codes.Code{codes.Unavailable, codes.ResourceExhausted, codes.Aborted}

// NewRetryInterceptor retries transient failures with exponential backoff.
func NewRetryInterceptor(cfg config.RetryConfig) grpc.UnaryClientInterceptor {
	return retry.UnaryClientInterceptor(
		retry.WithCodes(transientCodes...),
		retry.WithMax(cfg.MaxAttempts),
		retry.WithBackoff(retry.BackoffExponential(cfg.InitialBackoff)),
	)
}

// NewCircuitBreaker guards catalog calls with a breaker that trips only on transient failures.
// While the breaker is open or probing, calls fail fast with codes.Unavailable.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) grpc.UnaryClientInterceptor {
	return UnaryCircuitBreakerInterceptor(breaker.New[struct{}]("catalog-client-cb", cfg, isAnswer))
}

// UnaryCircuitBreakerInterceptor runs every call through cb.
func UnaryCircuitBreakerInterceptor[T any](cb *gobreaker.CircuitBreaker[T]) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var zero T
		_, err := cb.Execute(func() (T, error) {
			return zero, invoker(ctx, method, req, reply, cc, opts...)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return status.Errorf(codes.Unavailable, "%s: %v", cb.Name(), err)
		}
		return err
	}
}

// isAnswer reports whether err is a response from a healthy server.
func isAnswer(err error) bool {
	if err == nil {
		return true
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	for _, c := range transientCodes {
		if st.Code() == c {
			return false
		}
	}
	return true
}
