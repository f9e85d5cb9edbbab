package eventhub

import (
	"context"
	"errors"
	"time"

	"github.com/pior/eventhub/wire"
)

// runOperation executes one logical management operation under the retry
// loop. build constructs the protocol request from a fresh token; parse turns
// the response into the caller's result type, surfacing the protocol error
// when the response encodes one.
//
// Each attempt runs against a fresh try-timeout from the policy. The elapsed
// clock restarts after every inter-attempt delay, so delays are paid from
// wall-clock time but never from the next attempt's budget. The loop is the
// only place that decides retry versus terminal failure; terminal errors
// surface unchanged.
func runOperation[T any](
	ctx context.Context,
	c *Client,
	policy RetryPolicy,
	build func(token string) (*wire.Request, error),
	parse func(resp *wire.Response) (T, error),
) (T, error) {
	var zero T

	if c.IsClosed() {
		return zero, ErrClientClosed
	}
	if policy == nil {
		policy = c.policy
	}

	c.stats.recordOperation()

	attempt := 0
	tryTimeout := policy.TryTimeout(0)
	mark := time.Now()

	for ctx.Err() == nil {
		result, err := attemptOnce(ctx, c, tryTimeout, mark, build, parse)
		if err == nil {
			return result, nil
		}

		attempt++
		delay, ok := policy.RetryDelay(err, attempt)
		if !ok || c.scope.IsDisposed() || ctx.Err() != nil {
			c.stats.recordError()
			return zero, err
		}

		c.logger.Debug().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("retrying operation")
		c.stats.recordRetry()

		select {
		case <-ctx.Done():
			c.stats.recordError()
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		tryTimeout = policy.TryTimeout(attempt)
		mark = time.Now()
	}

	c.stats.recordError()
	return zero, ctx.Err()
}

// attemptOnce runs a single attempt: token, request, link, exchange, parse.
func attemptOnce[T any](
	ctx context.Context,
	c *Client,
	tryTimeout time.Duration,
	mark time.Time,
	build func(token string) (*wire.Request, error),
	parse func(resp *wire.Response) (T, error),
) (T, error) {
	var zero T

	token, err := c.tokens.acquire(ctx)
	if err != nil {
		return zero, err
	}

	req, err := build(token)
	if err != nil {
		return zero, err
	}

	// A slow link open must not starve the send step: link creation gets the
	// smaller of the session timeout and the remaining attempt budget.
	link, err := c.links.getOrCreate(ctx, minDuration(c.sessionTimeout, tryTimeout-time.Since(mark)))
	if err != nil {
		return zero, err
	}

	resp, err := c.send(ctx, link, req, tryTimeout-time.Since(mark))
	if err != nil {
		return zero, err
	}

	return parse(resp)
}

// send issues one exchange over the link, bounded by the remaining attempt
// budget. A spent budget is an immediate timeout failure, not an infinite
// wait.
func (c *Client) send(ctx context.Context, link Link, req *wire.Request, remaining time.Duration) (*wire.Response, error) {
	if remaining <= 0 {
		return nil, &TransportError{Op: "send", Err: context.DeadlineExceeded}
	}

	sendCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()

	roundtrip := func() (*wire.Response, error) {
		return link.Roundtrip(sendCtx, req)
	}

	var resp *wire.Response
	var err error
	if c.breaker != nil {
		resp, err = c.breaker.Execute(roundtrip)
	} else {
		resp, err = roundtrip()
	}
	if err != nil {
		return nil, classifySendError(ctx, err)
	}
	return resp, nil
}

// classifySendError keeps caller cancellation visible as such and reports
// everything else from the exchange as a transport failure.
func classifySendError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return &TransportError{Op: "send", Err: err}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
