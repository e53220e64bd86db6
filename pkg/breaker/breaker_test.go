package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ReadyToTrip(t *testing.T) {
	cfg := config.CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 60, OpenTimeout: time.Second}
	testCases := []struct {
		name     string
		counts   gobreaker.Counts
		expected bool
	}{
		{name: "no traffic", counts: gobreaker.Counts{}},
		{name: "five in a row stays closed", counts: gobreaker.Counts{ConsecutiveFailures: 5, TotalFailures: 5}},
		{name: "six in a row trips", counts: gobreaker.Counts{ConsecutiveFailures: 6, TotalFailures: 6}, expected: true},
		{name: "high ratio below volume stays closed", counts: gobreaker.Counts{TotalFailures: 4, TotalSuccesses: 1, ConsecutiveFailures: 1}},
		{name: "high ratio above volume trips", counts: gobreaker.Counts{TotalFailures: 5, TotalSuccesses: 2, ConsecutiveFailures: 1}, expected: true},
		{name: "ratio at threshold stays closed", counts: gobreaker.Counts{TotalFailures: 6, TotalSuccesses: 4, ConsecutiveFailures: 1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ReadyToTrip(cfg)(tc.counts))
		})
	}
}

func Test_New(t *testing.T) {
	// given
	errDown := errors.New("down")
	cb := New[int]("test-cb", config.CircuitBreakerConfig{ConsecutiveFailures: 1, ErrorRatePercent: 100}, func(err error) bool {
		return !errors.Is(err, errDown)
	})

	// when
	for range 2 {
		_, _ = cb.Execute(func() (int, error) { return 0, errDown })
	}
	_, err := cb.Execute(func() (int, error) { return 1, nil })

	// then
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, "test-cb", cb.Name())
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
