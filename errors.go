package eventhub

import (
	"errors"

	"github.com/pior/eventhub/wire"
)

var (
	// ErrClientClosed is returned by operations on a client that has been
	// closed successfully.
	ErrClientClosed = errors.New("eventhub: client closed")

	// ErrLinkClosed is returned by a fault-tolerant link handle after its
	// terminal close.
	ErrLinkClosed = errors.New("eventhub: link handle closed")

	// ErrScopeDisposed is returned when a link is requested from a disposed
	// connection scope.
	ErrScopeDisposed = errors.New("eventhub: connection scope disposed")

	// ErrBindingClosed is returned by operations on a closed producer or
	// consumer binding.
	ErrBindingClosed = errors.New("eventhub: binding closed")

	// ErrNoPartitions is returned when partition resolution runs against an
	// empty partition list.
	ErrNoPartitions = errors.New("eventhub: no partitions available")
)

// ProtocolError is a failure explicitly reported by the service, carrying the
// service's error code and detail.
type ProtocolError = wire.ProtocolError

// ArgumentError reports a missing or invalid required parameter. It is never
// retried and no collaborator is touched before it surfaces.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return "eventhub: invalid argument " + e.Name + ": " + e.Reason
}

// AuthenticationError reports that the credential produced no usable token
// for the scope.
type AuthenticationError struct {
	Scope string
	Err   error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return "eventhub: authentication failed for " + e.Scope + ": " + e.Err.Error()
	}
	return "eventhub: credential returned no token for " + e.Scope
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TransportError reports a failure of the transport layer: dialing, link
// creation, sending or a timed-out exchange.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "eventhub: transport failure during " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
