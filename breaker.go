package eventhub

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pior/eventhub/wire"
)

// CircuitBreaker guards the send step of management operations.
type CircuitBreaker interface {
	Execute(fn func() (*wire.Response, error)) (*wire.Response, error)
}

// NewCircuitBreakerConfig returns a factory creating circuit breakers for an
// endpoint. This is a helper for common use cases; assign the result to
// Config.NewCircuitBreaker.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(endpoint string) CircuitBreaker {
	return func(endpoint string) CircuitBreaker {
		settings := gobreaker.Settings{
			Name:        endpoint,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}
		return gobreaker.NewCircuitBreaker[*wire.Response](settings)
	}
}
