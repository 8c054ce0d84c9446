package spot

import (
	"net/http"
	"strings"
	"time"

	"github.com/rackerlabs/rsspot/pkg/config"
	"github.com/rackerlabs/rsspot/pkg/defaults"
	"github.com/rackerlabs/rsspot/pkg/state"
	"golang.org/x/time/rate"
)

// Client is the API client for the spot platform. Service groups expose
// the typed operations; all of them share one transport.
type Client struct {
	ServerClasses *ServerClassesService
	Regions       *RegionsService
	Pricing       *PricingService

	profile   *config.Profile
	transport *transport
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	store      *state.Store
	cacheTTL   time.Duration
	limiter    *rate.Limiter
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithStateStore enables transparent GET response caching in the given
// state store. Without a store the client makes a live call every time.
func WithStateStore(s *state.Store) Option {
	return func(o *clientOptions) {
		o.store = s
	}
}

// WithCacheTTL overrides the cached response lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *clientOptions) {
		o.cacheTTL = ttl
	}
}

// WithRateLimiter overrides the client-side request limiter.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(o *clientOptions) {
		o.limiter = l
	}
}

// New creates a Client for the given connection profile.
func New(profile *config.Profile, opts ...Option) *Client {
	o := &clientOptions{
		cacheTTL: defaults.CacheTTL,
		limiter:  rate.NewLimiter(rate.Limit(defaults.RateLimitPerSecond), defaults.RateLimitBurst),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = newHTTPClient(profile.RequestTimeout())
	}

	t := &transport{
		baseURL:  strings.TrimRight(profile.BaseURL, "/"),
		client:   o.httpClient,
		tokens:   newTokenSource(profile, o.httpClient),
		limiter:  o.limiter,
		store:    o.store,
		cacheTTL: o.cacheTTL,
		attempts: profile.RetryAttempts(),
	}

	c := &Client{profile: profile, transport: t}
	c.ServerClasses = &ServerClassesService{transport: t}
	c.Regions = &RegionsService{transport: t}
	c.Pricing = &PricingService{classes: c.ServerClasses}
	return c
}

// Profile returns the connection profile the client was built from.
func (c *Client) Profile() *config.Profile {
	return c.profile
}
