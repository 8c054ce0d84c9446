package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rackerlabs/rsspot/pkg/defaults"
	"github.com/rackerlabs/rsspot/pkg/errors"
)

// Built-in connection defaults, used when neither the config file nor the
// environment provides a value.
const (
	DefaultBaseURL  = "https://spot.rackspace.com"
	DefaultOAuthURL = "https://login.spot.rackspace.com"
	DefaultClientID = "rsspot-cli"

	DefaultProfileName = "default"
)

// Environment variables recognized during config resolution.
const (
	EnvConfigPath   = "RSSPOT_CONFIG"
	EnvProfile      = "RSSPOT_PROFILE"
	EnvOrg          = "RSSPOT_ORG"
	EnvRegion       = "RSSPOT_REGION"
	EnvRefreshToken = "RSSPOT_REFRESH_TOKEN"
	EnvBaseURL      = "RSSPOT_BASE_URL"
	EnvOAuthURL     = "RSSPOT_OAUTH_URL"
	EnvClientID     = "RSSPOT_CLIENT_ID"
)

// Profile holds the connection settings for one named API identity.
type Profile struct {
	Org          string `json:"org,omitempty" yaml:"org,omitempty"`
	Region       string `json:"region,omitempty" yaml:"region,omitempty"`
	ClientID     string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	AccessToken  string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	OAuthURL     string `json:"oauth_url,omitempty" yaml:"oauth_url,omitempty"`

	// RequestTimeoutSeconds overrides the HTTP client timeout when > 0.
	RequestTimeoutSeconds float64 `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`

	// MaxRetries overrides the total attempt count when > 0.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// RequestTimeout returns the effective per-request timeout.
func (p *Profile) RequestTimeout() time.Duration {
	if p.RequestTimeoutSeconds > 0 {
		return time.Duration(p.RequestTimeoutSeconds * float64(time.Second))
	}
	return defaults.HTTPClientTimeout
}

// RetryAttempts returns the effective total attempt count per request.
func (p *Profile) RetryAttempts() int {
	if p.MaxRetries > 0 {
		return p.MaxRetries
	}
	return defaults.RetryMaxAttempts
}

// Redacted returns a copy of the profile safe for display, with secret
// material masked.
func (p *Profile) Redacted() *Profile {
	out := *p
	if out.RefreshToken != "" {
		out.RefreshToken = "********"
	}
	if out.AccessToken != "" {
		out.AccessToken = "********"
	}
	return &out
}

// Config is the root configuration: named profiles plus the selection of
// the active one.
type Config struct {
	ActiveProfile string              `json:"active_profile,omitempty" yaml:"active_profile,omitempty"`
	Profiles      map[string]*Profile `json:"profiles,omitempty" yaml:"profiles,omitempty"`

	// StatePath overrides the local state database location.
	StatePath string `json:"state_path,omitempty" yaml:"state_path,omitempty"`

	// Path is the file the config was loaded from, empty for built-in
	// defaults. Used to place the state database next to the config.
	Path string `json:"-" yaml:"-"`
}

// ResolveProfile returns the profile selected by name, falling back to the
// RSSPOT_PROFILE environment variable, then active_profile, then "default".
// Environment overrides are applied to the returned copy; connection
// defaults fill any remaining gaps.
func (c *Config) ResolveProfile(name string) (*Profile, error) {
	name = c.ResolveProfileName(name)

	p, ok := c.Profiles[name]
	if !ok {
		if name != DefaultProfileName || len(c.Profiles) > 0 {
			return nil, errors.NewWithContext(errors.ErrCodeConfig,
				fmt.Sprintf("profile %q not found", name),
				map[string]any{"profiles": profileNames(c.Profiles)})
		}
		// No config file at all; start from an empty default profile and
		// let the environment supply credentials.
		p = &Profile{}
	}

	resolved := *p
	applyEnvOverrides(&resolved)
	applyDefaults(&resolved)
	return &resolved, nil
}

// ResolveProfileName applies the profile selection precedence without
// loading the profile: explicit name, then RSSPOT_PROFILE, then
// active_profile, then "default".
func (c *Config) ResolveProfileName(name string) string {
	if name == "" {
		name = os.Getenv(EnvProfile)
	}
	if name == "" {
		name = c.ActiveProfile
	}
	if name == "" {
		name = DefaultProfileName
	}
	return name
}

// ProfileNames returns the configured profile names in sorted order.
func (c *Config) ProfileNames() []string {
	return profileNames(c.Profiles)
}

// StateFile returns the path of the local state database: the explicit
// state_path when set, otherwise state.db next to the config file. Empty
// when the config has no file, which selects an in-memory store.
func (c *Config) StateFile() string {
	if c.StatePath != "" {
		return expandHome(c.StatePath)
	}
	if c.Path != "" {
		return filepath.Join(filepath.Dir(c.Path), "state.db")
	}
	return ""
}

func applyEnvOverrides(p *Profile) {
	if v := os.Getenv(EnvOrg); v != "" {
		p.Org = v
	}
	if v := os.Getenv(EnvRegion); v != "" {
		p.Region = v
	}
	if v := os.Getenv(EnvRefreshToken); v != "" {
		p.RefreshToken = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		p.BaseURL = v
	}
	if v := os.Getenv(EnvOAuthURL); v != "" {
		p.OAuthURL = v
	}
	if v := os.Getenv(EnvClientID); v != "" {
		p.ClientID = v
	}
}

func applyDefaults(p *Profile) {
	if p.BaseURL == "" {
		p.BaseURL = DefaultBaseURL
	}
	if p.OAuthURL == "" {
		p.OAuthURL = DefaultOAuthURL
	}
	if p.ClientID == "" {
		p.ClientID = DefaultClientID
	}
}

func profileNames(profiles map[string]*Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
