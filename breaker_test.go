package eventhub

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"

	"github.com/pior/eventhub/wire"
)

func TestCircuitBreakerTripsAfterFailures(t *testing.T) {
	breaker := NewCircuitBreakerConfig(1, time.Minute, time.Minute)("localhost:5671")

	failing := func() (*wire.Response, error) {
		return nil, errors.New("connection reset")
	}

	// Three consecutive failures reach the trip threshold.
	for n := 0; n < 3; n++ {
		_, err := breaker.Execute(failing)
		require.Error(t, err)
	}

	var calls int
	_, err := breaker.Execute(func() (*wire.Response, error) {
		calls++
		return nil, nil
	})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Zero(t, calls, "open breaker must not invoke the operation")
}

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	breaker := NewCircuitBreakerConfig(1, time.Minute, time.Minute)("localhost:5671")

	want := &wire.Response{ID: "r", Status: wire.StatusOK}
	resp, err := breaker.Execute(func() (*wire.Response, error) {
		return want, nil
	})
	require.NoError(t, err)
	require.Same(t, want, resp)
}

func TestClientWithCircuitBreaker(t *testing.T) {
	// With the breaker open, the send step fails without touching the link,
	// and the failure is still classified as a transport error.
	var attempts atomic.Int32
	link := &fakeLink{roundtrip: func(context.Context, *wire.Request) (*wire.Response, error) {
		attempts.Add(1)
		return nil, errors.New("connection reset")
	}}
	client, err := NewClient("localhost", "orders", Config{
		Credential:        validCredential(),
		Scope:             scopeForLink(link),
		NewCircuitBreaker: NewCircuitBreakerConfig(1, time.Minute, time.Minute),
	})
	require.NoError(t, err)

	policy := newTestPolicy(5)
	_, err = client.GetProperties(context.Background(), policy)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.LessOrEqual(t, attempts.Load(), int32(3), "open breaker stops reaching the link")
}
