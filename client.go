package eventhub

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pior/eventhub/wire"
)

// Manager is the control-plane surface of a client: hub and partition
// metadata plus lifecycle.
type Manager interface {
	GetProperties(ctx context.Context, policy RetryPolicy) (HubProperties, error)
	GetPartitionProperties(ctx context.Context, partitionID string, policy RetryPolicy) (PartitionProperties, error)
	Close(ctx context.Context) error
	IsClosed() bool
}

// Config holds configuration for an event hub client.
type Config struct {
	// Credential authorizes management operations. Required.
	Credential TokenCredential

	// RetryPolicy is used by operations that do not supply their own.
	// If nil, DefaultRetryPolicy() is used.
	RetryPolicy RetryPolicy

	// SessionTimeout bounds the creation of a single link.
	// Default: 30s.
	SessionTimeout time.Duration

	// Dialer is the net.Dialer used to reach the broker.
	// If nil, the default net.Dialer is used.
	Dialer *net.Dialer

	// NewCircuitBreaker creates a circuit breaker for the management link.
	// Called once with the endpoint address when the client is created.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(endpoint string) CircuitBreaker

	// Logger receives debug events: retries, link churn, lifecycle.
	// If nil, logging is disabled.
	Logger *zerolog.Logger

	// Scope overrides the connection scope, for testing.
	Scope ConnectionScope
}

// Client is a control-plane client for one hub on one broker. It owns a
// lazily-created management link shared by all its operations, a token cache,
// and the connection scope its producer and consumer bindings draw links
// from. Safe for concurrent use.
type Client struct {
	endpoint Endpoint
	tokens   *tokenCache
	links    *faultTolerantLink
	scope    ConnectionScope
	breaker  CircuitBreaker

	policy         RetryPolicy
	sessionTimeout time.Duration
	logger         zerolog.Logger
	stats          *clientStatsCollector

	mu     sync.Mutex
	closed bool
}

var _ Manager = (*Client)(nil)

// NewClient creates a client for the given broker host and hub name.
func NewClient(host, hub string, config Config) (*Client, error) {
	if host == "" {
		return nil, &ArgumentError{Name: "host", Reason: "must not be empty"}
	}
	if hub == "" {
		return nil, &ArgumentError{Name: "hub", Reason: "must not be empty"}
	}
	if config.Credential == nil {
		return nil, &ArgumentError{Name: "Credential", Reason: "must not be nil"}
	}

	policy := config.RetryPolicy
	if policy == nil {
		policy = DefaultRetryPolicy()
	}

	sessionTimeout := config.SessionTimeout
	if sessionTimeout <= 0 {
		sessionTimeout = 30 * time.Second
	}

	dialer := config.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	endpoint := Endpoint{Host: host, Hub: hub, Scheme: "amqps"}

	scope := config.Scope
	if scope == nil {
		scope = newDialScope(endpoint, dialer, logger)
	}

	var breaker CircuitBreaker
	if config.NewCircuitBreaker != nil {
		breaker = config.NewCircuitBreaker(endpoint.Addr())
	}

	client := &Client{
		endpoint:       endpoint,
		scope:          scope,
		breaker:        breaker,
		policy:         policy,
		sessionTimeout: sessionTimeout,
		logger:         logger,
		stats:          newClientStatsCollector(),
	}
	client.tokens = newTokenCache(config.Credential, endpoint.Scope(), client.stats)
	client.links = newFaultTolerantLink(client.openLink)

	return client, nil
}

// openLink is the factory behind the management link handle.
func (c *Client) openLink(ctx context.Context, timeout time.Duration) (Link, error) {
	link, err := c.scope.OpenLink(ctx, timeout)
	if err != nil {
		return nil, err
	}
	c.stats.recordLinkCreated()
	return link, nil
}

// Endpoint returns the immutable endpoint this client talks to.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// IsClosed reports whether the client has been closed.
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// GetProperties fetches hub-level properties: creation time and the set of
// partition ids. A nil policy uses the configured one.
func (c *Client) GetProperties(ctx context.Context, policy RetryPolicy) (HubProperties, error) {
	build := func(token string) (*wire.Request, error) {
		return wire.NewHubPropertiesRequest(uuid.NewString(), c.endpoint.Hub, token), nil
	}
	return runOperation(ctx, c, policy, build, parseHubProperties)
}

// GetPartitionProperties fetches the current state of a single partition. A
// nil policy uses the configured one.
func (c *Client) GetPartitionProperties(ctx context.Context, partitionID string, policy RetryPolicy) (PartitionProperties, error) {
	if partitionID == "" {
		return PartitionProperties{}, &ArgumentError{Name: "partitionID", Reason: "must not be empty"}
	}

	build := func(token string) (*wire.Request, error) {
		return wire.NewPartitionPropertiesRequest(uuid.NewString(), c.endpoint.Hub, partitionID, token), nil
	}
	return runOperation(ctx, c, policy, build, parsePartitionProperties)
}

// Stats returns a snapshot of client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// Close closes the management link and disposes the connection scope.
//
// The closed flag is set before cleanup starts, so concurrent operations fail
// fast; if cleanup fails the flag is reset and the error returned, and the
// caller is expected to retry Close. Operations racing with a close attempt
// that later fails may still observe ErrClientClosed during that window.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.links.close()
	if derr := c.scope.Dispose(); err == nil {
		err = derr
	}

	if err != nil {
		c.mu.Lock()
		c.closed = false
		c.mu.Unlock()
		return err
	}

	c.logger.Debug().Str("hub", c.endpoint.Hub).Msg("client closed")
	return nil
}

func parseHubProperties(resp *wire.Response) (HubProperties, error) {
	if err := resp.Err(); err != nil {
		return HubProperties{}, err
	}
	if resp.Hub == nil {
		return HubProperties{}, fmt.Errorf("eventhub: response missing hub properties")
	}
	return HubProperties{
		Name:         resp.Hub.Name,
		CreatedAt:    resp.Hub.CreatedAt,
		PartitionIDs: resp.Hub.PartitionIDs,
	}, nil
}

func parsePartitionProperties(resp *wire.Response) (PartitionProperties, error) {
	if err := resp.Err(); err != nil {
		return PartitionProperties{}, err
	}
	if resp.Partition == nil {
		return PartitionProperties{}, fmt.Errorf("eventhub: response missing partition properties")
	}
	p := resp.Partition
	return PartitionProperties{
		HubName:                 p.HubName,
		PartitionID:             p.PartitionID,
		BeginningSequenceNumber: p.BeginningSequenceNumber,
		LastSequenceNumber:      p.LastSequenceNumber,
		LastOffset:              p.LastOffset,
		LastEnqueuedAt:          p.LastEnqueuedAt,
		IsEmpty:                 p.IsEmpty,
	}, nil
}
