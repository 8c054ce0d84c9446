package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rackerlabs/rsspot/pkg/errors"
	"gopkg.in/yaml.v3"
)

// configDirName is the directory under the user config root that holds
// the config file and the state database.
const configDirName = "rsspot"

// candidateFileNames are probed in order when no explicit path is given.
var candidateFileNames = []string{"config.yml", "config.yaml", "config.json"}

// Load resolves and parses the configuration file.
//
// Resolution precedence:
//  1. the explicit path argument
//  2. the RSSPOT_CONFIG environment variable
//  3. ~/.config/rsspot/config.{yml,yaml,json}, first match
//  4. built-in defaults (no file)
//
// A missing file is only an error when it was requested explicitly.
func Load(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return loadFile(expandHome(explicitPath), true)
	}
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return loadFile(expandHome(envPath), true)
	}

	for _, name := range candidateFileNames {
		path := filepath.Join(configDir(), name)
		if _, err := os.Stat(path); err == nil {
			return loadFile(path, false)
		}
	}

	slog.Debug("no config file found, using built-in defaults")
	return &Config{Profiles: map[string]*Profile{}}, nil
}

func loadFile(path string, required bool) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return &Config{Profiles: map[string]*Profile{}}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfig, fmt.Sprintf("cannot read config file %s", path), err)
	}

	cfg, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, fmt.Sprintf("cannot parse config file %s", path), err)
	}
	cfg.Path = path

	slog.Debug("config loaded", "path", path, "profiles", len(cfg.Profiles))
	return cfg, nil
}

// Parse decodes config file content. YAML and JSON are both accepted
// since JSON is a YAML subset.
//
// Two file shapes are supported: the profile map shape with an optional
// active_profile, and the legacy flat shape where connection settings sit
// at the top level. A legacy file is migrated into a single "default"
// profile.
func Parse(raw []byte) (*Config, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	if _, hasProfiles := probe["profiles"]; hasProfiles || len(probe) == 0 {
		var cfg Config
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
		if cfg.Profiles == nil {
			cfg.Profiles = map[string]*Profile{}
		}
		return &cfg, nil
	}

	// Legacy flat shape.
	var flat struct {
		Profile   `yaml:",inline"`
		StatePath string `yaml:"state_path"`
	}
	if err := yaml.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	p := flat.Profile
	slog.Debug("migrated legacy flat config to default profile")
	return &Config{
		ActiveProfile: DefaultProfileName,
		Profiles:      map[string]*Profile{DefaultProfileName: &p},
		StatePath:     flat.StatePath,
	}, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+configDirName)
	}
	return filepath.Join(home, ".config", configDirName)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
