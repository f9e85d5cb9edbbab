package eventhub

import "sync/atomic"

// ClientStats contains counters for client activity. All fields are safe for
// concurrent access.
//
// For Prometheus integration, expose these as counters with an operation
// label; derive the retry rate as Retries/Operations.
type ClientStats struct {
	Operations     uint64 // Management operations started
	Retries        uint64 // Attempts beyond the first
	TokenRefreshes uint64 // Tokens fetched from the credential
	LinksCreated   uint64 // Links opened through the connection scope
	Errors         uint64 // Operations that surfaced a terminal error
}

// clientStatsCollector provides internal methods for updating client stats.
// Not exported - the client updates its own stats. All methods are nil-safe
// so components holding an optional collector need no guard.
type clientStatsCollector struct {
	stats ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{}
}

func (c *clientStatsCollector) recordOperation() {
	if c != nil {
		atomic.AddUint64(&c.stats.Operations, 1)
	}
}

func (c *clientStatsCollector) recordRetry() {
	if c != nil {
		atomic.AddUint64(&c.stats.Retries, 1)
	}
}

func (c *clientStatsCollector) recordTokenRefresh() {
	if c != nil {
		atomic.AddUint64(&c.stats.TokenRefreshes, 1)
	}
}

func (c *clientStatsCollector) recordLinkCreated() {
	if c != nil {
		atomic.AddUint64(&c.stats.LinksCreated, 1)
	}
}

func (c *clientStatsCollector) recordError() {
	if c != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
	}
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Operations:     atomic.LoadUint64(&c.stats.Operations),
		Retries:        atomic.LoadUint64(&c.stats.Retries),
		TokenRefreshes: atomic.LoadUint64(&c.stats.TokenRefreshes),
		LinksCreated:   atomic.LoadUint64(&c.stats.LinksCreated),
		Errors:         atomic.LoadUint64(&c.stats.Errors),
	}
}
