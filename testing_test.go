package eventhub

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pior/eventhub/wire"
)

// fakeCredential counts token fetches and serves a configurable token,
// optionally after a fixed delay.
type fakeCredential struct {
	mu    sync.Mutex
	token AccessToken
	err   error
	delay time.Duration
	calls int
}

func (f *fakeCredential) GetToken(_ context.Context, _ string) (AccessToken, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.token, f.err
}

func (f *fakeCredential) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func validCredential() *fakeCredential {
	return &fakeCredential{token: AccessToken{Token: "token", ExpiresOn: time.Now().Add(time.Hour)}}
}

// fakeLink is a scriptable Link.
type fakeLink struct {
	roundtrip func(ctx context.Context, req *wire.Request) (*wire.Response, error)
	dead      atomic.Bool
	closed    atomic.Bool
}

func (l *fakeLink) Roundtrip(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	return l.roundtrip(ctx, req)
}

func (l *fakeLink) Alive() bool { return !l.dead.Load() && !l.closed.Load() }

func (l *fakeLink) Close() error {
	l.closed.Store(true)
	return nil
}

// fakeScope is a scriptable ConnectionScope counting link opens.
type fakeScope struct {
	open       func(ctx context.Context, timeout time.Duration) (Link, error)
	disposeErr error
	disposed   atomic.Bool
	opens      atomic.Int32
}

func (s *fakeScope) OpenLink(ctx context.Context, timeout time.Duration) (Link, error) {
	s.opens.Add(1)
	return s.open(ctx, timeout)
}

func (s *fakeScope) IsDisposed() bool { return s.disposed.Load() }

func (s *fakeScope) Dispose() error {
	if s.disposeErr != nil {
		return s.disposeErr
	}
	s.disposed.Store(true)
	return nil
}

// scopeForLink returns a scope serving the given link on every open.
func scopeForLink(link Link) *fakeScope {
	return &fakeScope{open: func(context.Context, time.Duration) (Link, error) {
		return link, nil
	}}
}

// okResponse builds a successful hub-properties response for the request.
func okResponse(req *wire.Request, partitionIDs ...string) *wire.Response {
	return &wire.Response{
		ID:     req.ID,
		Status: wire.StatusOK,
		Hub: &wire.HubInfo{
			Name:         req.Hub,
			CreatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			PartitionIDs: partitionIDs,
		},
	}
}

// testPolicy is a fixed-delay policy counting the delays it grants.
type testPolicy struct {
	timeout    time.Duration
	delay      time.Duration
	maxRetries int
	granted    atomic.Int32
}

func (p *testPolicy) TryTimeout(_ int) time.Duration { return p.timeout }

func (p *testPolicy) RetryDelay(err error, attempt int) (time.Duration, bool) {
	if attempt > p.maxRetries || !IsTransient(err) {
		return 0, false
	}
	p.granted.Add(1)
	return p.delay, true
}

func newTestPolicy(maxRetries int) *testPolicy {
	return &testPolicy{timeout: time.Second, delay: time.Millisecond, maxRetries: maxRetries}
}

// newTestClient builds a client on the given scope with a valid credential.
func newTestClient(t testing.TB, scope ConnectionScope) *Client {
	t.Helper()

	client, err := NewClient("localhost", "orders", Config{
		Credential: validCredential(),
		Scope:      scope,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

// createBroker starts a fake broker answering management requests with
// handle. Returning nil from handle drops the connection.
func createBroker(t testing.TB, handle func(req *wire.Request) *wire.Response) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start fake broker: %v", err)
	}

	t.Cleanup(func() {
		listener.Close()
	})

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(c net.Conn) {
				defer c.Close()

				for {
					var req wire.Request
					if err := wire.ReadFrame(c, &req); err != nil {
						return
					}

					resp := handle(&req)
					if resp == nil {
						return
					}
					if err := wire.WriteFrame(c, resp); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return listener.Addr().String()
}
