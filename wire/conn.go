package wire

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Conn is the client side of a single management link. Request/response
// exchanges are serialized: the protocol carries one outstanding exchange per
// link. Any I/O failure marks the connection closed; callers are expected to
// discard it and open a replacement.
type Conn struct {
	name     string
	conn     net.Conn
	reader   *bufio.Reader
	mu       sync.Mutex
	lastUsed time.Time
	closed   bool
}

// NewConn wraps an established network connection as a management link.
func NewConn(netConn net.Conn, name string) *Conn {
	return &Conn{
		name:     name,
		conn:     netConn,
		reader:   bufio.NewReader(netConn),
		lastUsed: time.Now(),
	}
}

// Name returns the link name assigned at creation.
func (c *Conn) Name() string {
	return c.name
}

// Roundtrip sends one request and waits for the matching response. The
// context deadline bounds the whole exchange.
func (c *Conn) Roundtrip(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnClosed
	}

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	} else {
		c.conn.SetDeadline(time.Time{})
	}

	if err := WriteFrame(c.conn, req); err != nil {
		c.markClosed()
		return nil, err
	}

	var resp Response
	if err := ReadFrame(c.reader, &resp); err != nil {
		c.markClosed()
		return nil, err
	}

	if resp.ID != req.ID {
		c.markClosed()
		return nil, fmt.Errorf("wire: response id %q does not match request id %q", resp.ID, req.ID)
	}

	c.lastUsed = time.Now()
	return &resp, nil
}

// LastUsed returns when the link last completed an exchange.
func (c *Conn) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// Alive reports whether the link is still usable.
func (c *Conn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Close closes the link. It is safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.markClosed()
	return c.conn.Close()
}

// markClosed marks the connection as closed (must be called with lock held).
func (c *Conn) markClosed() {
	c.closed = true
}
