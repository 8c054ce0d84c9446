package defaults

import "time"

// HTTP client timeouts for outbound API requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Retry behavior for transient API failures.
const (
	// RetryMaxAttempts is the total number of attempts per request,
	// including the first one.
	RetryMaxAttempts = 4

	// RetryBaseDelay is the backoff delay before the first retry.
	// Subsequent delays double, with jitter applied.
	RetryBaseDelay = 500 * time.Millisecond

	// RetryMaxDelay caps the backoff delay between attempts.
	RetryMaxDelay = 8 * time.Second
)

// Client-side rate limiting for the public API.
const (
	// RateLimitPerSecond is the sustained request rate.
	RateLimitPerSecond = 5

	// RateLimitBurst is the short-term burst allowance.
	RateLimitBurst = 10
)

// Auth token handling.
const (
	// TokenExpirySkew is subtracted from the JWT expiry so tokens are
	// refreshed before the server would reject them.
	TokenExpirySkew = 30 * time.Second
)

// Local state store tuning.
const (
	// CacheTTL is the default lifetime of cached GET responses.
	CacheTTL = 10 * time.Minute

	// HistoryMaxEntries caps the command history table; older rows are
	// pruned on insert.
	HistoryMaxEntries = 500
)

// CLI behavior.
const (
	// CLICommandTimeout bounds a single command invocation end to end.
	CLICommandTimeout = 2 * time.Minute
)
