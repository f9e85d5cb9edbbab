package eventhub

import (
	"errors"
	"math/rand"
	"time"
)

// RetryPolicy drives the retry loop of every management operation.
//
// TryTimeout returns the time budget for a single attempt; each attempt gets
// a fresh budget, the budgets are not cumulative. RetryDelay returns the wait
// before the next attempt given the error that failed the previous one, or
// ok=false to stop retrying and surface the error as terminal.
type RetryPolicy interface {
	TryTimeout(attempt int) time.Duration
	RetryDelay(err error, attempt int) (delay time.Duration, ok bool)
}

// ExponentialPolicy retries transient failures with exponential backoff.
type ExponentialPolicy struct {
	// MaxRetries is the number of retries after the initial attempt. Zero
	// selects the default; set a negative value to disable retries.
	// Default: 3
	MaxRetries int

	// Delay is the backoff before the first retry, doubled each retry.
	// Default: 800ms
	Delay time.Duration

	// MaxDelay caps the backoff.
	// Default: 30s
	MaxDelay time.Duration

	// Timeout is the budget for each individual attempt.
	// Default: 1 minute
	Timeout time.Duration

	// Jitter adds up to 25% randomness to delays to avoid thundering herds.
	Jitter bool

	// RetryIf decides whether an error is worth retrying.
	// Default: IsTransient.
	RetryIf func(err error) bool
}

// DefaultRetryPolicy returns the policy used when a client is configured
// without one.
func DefaultRetryPolicy() *ExponentialPolicy {
	return &ExponentialPolicy{Jitter: true}
}

func (p *ExponentialPolicy) TryTimeout(_ int) time.Duration {
	if p.Timeout <= 0 {
		return time.Minute
	}
	return p.Timeout
}

func (p *ExponentialPolicy) RetryDelay(err error, attempt int) (time.Duration, bool) {
	maxRetries := p.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	if attempt > maxRetries {
		return 0, false
	}

	retryIf := p.RetryIf
	if retryIf == nil {
		retryIf = IsTransient
	}
	if !retryIf(err) {
		return 0, false
	}

	base := p.Delay
	if base <= 0 {
		base = 800 * time.Millisecond
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	delay := base << (attempt - 1)
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	if p.Jitter && delay >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int63n(int64(delay / 4)))
	}

	return delay, true
}

// IsTransient reports whether an error is worth retrying: transport failures
// always, including attempt timeouts, and protocol errors when the service
// marks them temporary. Everything else is terminal, argument, authentication,
// closed-state and caller cancellation failures included.
//
// The transport check runs before any deadline inspection: a timed-out attempt
// surfaces as a TransportError wrapping context.DeadlineExceeded and must
// retry with a fresh budget, while a bare context error means the caller gave
// up.
func IsTransient(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Temporary()
	}

	return false
}
