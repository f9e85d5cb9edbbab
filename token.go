package eventhub

import (
	"context"
	"sync/atomic"
	"time"
)

// tokenRefreshBuffer is the margin before expiry at which the cached token is
// proactively renewed.
const tokenRefreshBuffer = 5 * time.Minute

// TokenCredential produces access tokens for a scope. Implementations are
// provided by the caller; see StaticTokenCredential and SharedAccessCredential
// for ready-made ones.
type TokenCredential interface {
	GetToken(ctx context.Context, scope string) (AccessToken, error)
}

// tokenCache holds the single currently-active token for a client and
// refreshes it when absent or close to expiry.
//
// The slot is deliberately not serialized across refreshes: concurrent
// callers may each observe staleness and each fetch a token, and the last
// write wins. Token lifetimes vastly exceed the refresh buffer, so an
// overwritten-but-valid token costs a redundant fetch, never correctness.
// The atomic pointer only keeps individual reads and writes tear-free.
type tokenCache struct {
	credential TokenCredential
	scope      string
	current    atomic.Pointer[AccessToken]
	stats      *clientStatsCollector // nil-safe
}

func newTokenCache(credential TokenCredential, scope string, stats *clientStatsCollector) *tokenCache {
	return &tokenCache{credential: credential, scope: scope, stats: stats}
}

// acquire returns a token value valid for at least the refresh buffer,
// fetching a fresh one from the credential when needed.
func (tc *tokenCache) acquire(ctx context.Context) (string, error) {
	if tok := tc.current.Load(); tok != nil && tok.Token != "" && time.Until(tok.ExpiresOn) > tokenRefreshBuffer {
		return tok.Token, nil
	}

	fresh, err := tc.credential.GetToken(ctx, tc.scope)
	if err != nil {
		return "", &AuthenticationError{Scope: tc.scope, Err: err}
	}
	if fresh.Token == "" {
		return "", &AuthenticationError{Scope: tc.scope}
	}

	tc.current.Store(&fresh)
	tc.stats.recordTokenRefresh()
	return fresh.Token, nil
}
