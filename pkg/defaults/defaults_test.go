package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, time.Second, 10 * time.Second},
		{"HTTPTLSHandshakeTimeout", HTTPTLSHandshakeTimeout, time.Second, 10 * time.Second},
		{"HTTPResponseHeaderTimeout", HTTPResponseHeaderTimeout, time.Second, 30 * time.Second},
		{"RetryBaseDelay", RetryBaseDelay, 100 * time.Millisecond, 2 * time.Second},
		{"RetryMaxDelay", RetryMaxDelay, time.Second, 30 * time.Second},
		{"TokenExpirySkew", TokenExpirySkew, 5 * time.Second, 5 * time.Minute},
		{"CacheTTL", CacheTTL, time.Minute, time.Hour},
		{"CLICommandTimeout", CLICommandTimeout, 30 * time.Second, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue || tt.timeout > tt.maxValue {
				t.Errorf("%s = %v, want between %v and %v", tt.name, tt.timeout, tt.minValue, tt.maxValue)
			}
		})
	}
}

func TestRetryConstants(t *testing.T) {
	if RetryMaxAttempts < 2 {
		t.Errorf("RetryMaxAttempts must allow at least one retry, got %d", RetryMaxAttempts)
	}
	if RetryBaseDelay >= RetryMaxDelay {
		t.Errorf("RetryBaseDelay %v must be below RetryMaxDelay %v", RetryBaseDelay, RetryMaxDelay)
	}
	if RateLimitBurst < RateLimitPerSecond {
		t.Errorf("burst %d should cover the sustained rate %d", RateLimitBurst, RateLimitPerSecond)
	}
}
