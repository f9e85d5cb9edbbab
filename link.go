package eventhub

import (
	"context"
	"sync"
	"time"

	"github.com/pior/eventhub/wire"
	"golang.org/x/sync/singleflight"
)

// Link is one bidirectional request/response channel to the broker.
// *wire.Conn is the default implementation.
type Link interface {
	Roundtrip(ctx context.Context, req *wire.Request) (*wire.Response, error)
	Alive() bool
	Close() error
}

type linkFactory func(ctx context.Context, timeout time.Duration) (Link, error)

// faultTolerantLink owns at most one live link, created lazily and replaced
// transparently after the held link reports itself dead. Close is terminal:
// no link is created afterwards.
//
// Creation is coordinated through a singleflight group so that concurrent
// callers racing on an empty handle share one factory invocation instead of
// opening redundant links.
type faultTolerantLink struct {
	factory linkFactory

	mu      sync.Mutex
	current Link
	closed  bool
	group   singleflight.Group
}

func newFaultTolerantLink(factory linkFactory) *faultTolerantLink {
	return &faultTolerantLink{factory: factory}
}

// getOrCreate returns the held link if it is still alive, creating a
// replacement bounded by timeout otherwise. Factory errors propagate
// unchanged.
func (h *faultTolerantLink) getOrCreate(ctx context.Context, timeout time.Duration) (Link, error) {
	if link, err, done := h.takeAlive(); done {
		return link, err
	}

	v, err, _ := h.group.Do("create", func() (any, error) {
		// A waiter that lost the race may find the link already installed.
		if link, err, done := h.takeAlive(); done {
			return link, err
		}

		link, err := h.factory(ctx, timeout)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			link.Close()
			return nil, ErrLinkClosed
		}
		h.current = link
		h.mu.Unlock()
		return link, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Link), nil
}

// takeAlive returns the held link when it can satisfy the call without
// creation: handle closed, or a live link is installed. A dead held link is
// discarded here.
func (h *faultTolerantLink) takeAlive() (Link, error, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrLinkClosed, true
	}
	if h.current != nil {
		if h.current.Alive() {
			return h.current, nil, true
		}
		h.current.Close()
		h.current = nil
	}
	return nil, nil, false
}

// opened reports whether a link is currently held.
func (h *faultTolerantLink) opened() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current != nil
}

// close closes the held link, if any, and makes the handle terminal. Calling
// it again is a no-op.
func (h *faultTolerantLink) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.current == nil {
		return nil
	}

	link := h.current
	h.current = nil
	return link.Close()
}
