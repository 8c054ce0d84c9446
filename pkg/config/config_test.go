package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rackerlabs/rsspot/pkg/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigPath, EnvProfile, EnvOrg, EnvRegion,
		EnvRefreshToken, EnvBaseURL, EnvOAuthURL, EnvClientID,
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const profileShapedConfig = `
active_profile: prod
profiles:
  prod:
    org: acme
    region: us-central-dfw-1
    refresh_token: tok-prod
  staging:
    org: acme-staging
    request_timeout_seconds: 5
    max_retries: 2
state_path: /tmp/rsspot-state.db
`

func TestLoadExplicitPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yml", profileShapedConfig)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.ActiveProfile)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"prod", "staging"}, cfg.ProfileNames())
}

func TestLoadExplicitPathMissing(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadFromEnvVar(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", profileShapedConfig)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.ActiveProfile)
}

func TestLoadNoFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Profiles)
	assert.Empty(t, cfg.Path)
}

func TestParseJSONConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(`{"active_profile":"p1","profiles":{"p1":{"org":"acme"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Profiles["p1"].Org)
}

func TestParseLegacyFlatConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte("org: acme\nregion: uk-lon-1\nrefresh_token: tok\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultProfileName, cfg.ActiveProfile)
	p, err := cfg.ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "acme", p.Org)
	assert.Equal(t, "uk-lon-1", p.Region)
	assert.Equal(t, "tok", p.RefreshToken)
}

func TestResolveProfileSelection(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(profileShapedConfig))
	require.NoError(t, err)

	// active_profile drives the default selection.
	p, err := cfg.ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "acme", p.Org)

	// Explicit name wins.
	p, err = cfg.ResolveProfile("staging")
	require.NoError(t, err)
	assert.Equal(t, "acme-staging", p.Org)

	// Env var beats active_profile but not the explicit name.
	t.Setenv(EnvProfile, "staging")
	p, err = cfg.ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "acme-staging", p.Org)
	p, err = cfg.ResolveProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, "acme", p.Org)

	_, err = cfg.ResolveProfile("missing")
	require.Error(t, err)
}

func TestResolveProfileDefaultsAndOverrides(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(profileShapedConfig))
	require.NoError(t, err)

	p, err := cfg.ResolveProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, p.BaseURL)
	assert.Equal(t, DefaultOAuthURL, p.OAuthURL)
	assert.Equal(t, DefaultClientID, p.ClientID)

	t.Setenv(EnvOrg, "env-org")
	t.Setenv(EnvRegion, "env-region")
	t.Setenv(EnvRefreshToken, "env-token")

	p, err = cfg.ResolveProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, "env-org", p.Org)
	assert.Equal(t, "env-region", p.Region)
	assert.Equal(t, "env-token", p.RefreshToken)
}

func TestResolveProfileWithoutConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRefreshToken, "env-token")

	cfg := &Config{Profiles: map[string]*Profile{}}
	p, err := cfg.ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", p.RefreshToken)
	assert.Equal(t, DefaultBaseURL, p.BaseURL)
}

func TestProfileTuning(t *testing.T) {
	cfg, err := Parse([]byte(profileShapedConfig))
	require.NoError(t, err)

	staging := cfg.Profiles["staging"]
	assert.Equal(t, 5*time.Second, staging.RequestTimeout())
	assert.Equal(t, 2, staging.RetryAttempts())

	prod := cfg.Profiles["prod"]
	assert.Equal(t, defaults.HTTPClientTimeout, prod.RequestTimeout())
	assert.Equal(t, defaults.RetryMaxAttempts, prod.RetryAttempts())
}

func TestProfileRedacted(t *testing.T) {
	p := &Profile{Org: "acme", RefreshToken: "secret", AccessToken: "jwt"}
	r := p.Redacted()
	assert.Equal(t, "acme", r.Org)
	assert.Equal(t, "********", r.RefreshToken)
	assert.Equal(t, "********", r.AccessToken)
	// Original is untouched.
	assert.Equal(t, "secret", p.RefreshToken)
}

func TestStateFile(t *testing.T) {
	cfg := &Config{StatePath: "/var/lib/rsspot/state.db"}
	assert.Equal(t, "/var/lib/rsspot/state.db", cfg.StateFile())

	cfg = &Config{Path: "/home/user/.config/rsspot/config.yml"}
	assert.Equal(t, "/home/user/.config/rsspot/state.db", cfg.StateFile())

	cfg = &Config{}
	assert.Empty(t, cfg.StateFile())
}
