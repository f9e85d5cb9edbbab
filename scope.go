package eventhub

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pior/eventhub/wire"
)

// ConnectionScope supplies link instances on demand and tracks its own
// disposal state. The default implementation dials the broker endpoint; tests
// and alternative transports substitute their own.
type ConnectionScope interface {
	// OpenLink establishes a new link, bounded by timeout. A zero or
	// negative timeout fails immediately.
	OpenLink(ctx context.Context, timeout time.Duration) (Link, error)

	// IsDisposed reports whether the scope has been disposed. Safe to call
	// from any goroutine.
	IsDisposed() bool

	// Dispose releases the scope. Subsequent OpenLink calls fail.
	Dispose() error
}

// dialScope opens links over TCP connections to the broker endpoint.
type dialScope struct {
	endpoint Endpoint
	dialer   *net.Dialer
	logger   zerolog.Logger
	disposed atomic.Bool
}

func newDialScope(endpoint Endpoint, dialer *net.Dialer, logger zerolog.Logger) *dialScope {
	return &dialScope{endpoint: endpoint, dialer: dialer, logger: logger}
}

func (s *dialScope) OpenLink(ctx context.Context, timeout time.Duration) (Link, error) {
	if s.disposed.Load() {
		return nil, ErrScopeDisposed
	}
	if timeout <= 0 {
		return nil, &TransportError{Op: "open link", Err: context.DeadlineExceeded}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	netConn, err := s.dialer.DialContext(ctx, "tcp", s.endpoint.Addr())
	if err != nil {
		return nil, &TransportError{Op: "open link", Err: err}
	}

	name := s.endpoint.Hub + "-mgmt-" + uuid.NewString()
	s.logger.Debug().Str("link", name).Str("addr", s.endpoint.Addr()).Msg("link opened")

	return wire.NewConn(netConn, name), nil
}

func (s *dialScope) IsDisposed() bool {
	return s.disposed.Load()
}

func (s *dialScope) Dispose() error {
	s.disposed.Store(true)
	return nil
}
