package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/rackerlabs/rsspot/pkg/config"
	"github.com/rackerlabs/rsspot/pkg/defaults"
	"github.com/rackerlabs/rsspot/pkg/serializer"
	"github.com/rackerlabs/rsspot/pkg/spot"
	"github.com/rackerlabs/rsspot/pkg/state"
)

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %v",
			cmd.String("format"), serializer.SupportedFormats())
	}
	return f, nil
}

// runtime bundles the per-invocation dependencies resolved from the
// global flags: configuration, the selected profile, the local state
// store, and the API client.
type runtime struct {
	cfg         *config.Config
	profile     *config.Profile
	profileName string
	store       *state.Store
	client      *spot.Client
}

// newRuntime loads configuration and wires the state store and API
// client. A state store failure degrades to no caching and no history
// rather than failing the command.
func newRuntime(cmd *cli.Command) (*runtime, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	profileName := cfg.ResolveProfileName(cmd.String("profile"))
	profile, err := cfg.ResolveProfile(cmd.String("profile"))
	if err != nil {
		return nil, err
	}

	store, err := state.New(cfg.StateFile())
	if err != nil {
		slog.Warn("state store unavailable, continuing without cache and history",
			"path", cfg.StateFile(), "error", err)
		store = nil
	}

	return &runtime{
		cfg:         cfg,
		profile:     profile,
		profileName: profileName,
		store:       store,
		client:      spot.New(profile, spot.WithStateStore(store)),
	}, nil
}

// Close releases the state store.
func (rt *runtime) Close() {
	if rt.store == nil {
		return
	}
	if err := rt.store.Close(); err != nil {
		slog.Warn("failed to close state store", "error", err)
	}
}

// commandContext bounds a command invocation so a stalled API never
// hangs the CLI indefinitely.
func commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaults.CLICommandTimeout)
}

// recordHistory appends the invocation to the local command history.
// History is advisory; failures are logged and swallowed.
func (rt *runtime) recordHistory(ctx context.Context, command string, args []string) {
	if rt.store == nil {
		return
	}
	entry := state.HistoryEntry{
		Command: command,
		Args:    args,
		Profile: rt.profileName,
		Org:     rt.profile.Org,
		Region:  rt.profile.Region,
	}
	if err := rt.store.HistoryAdd(ctx, entry, defaults.HistoryMaxEntries); err != nil {
		slog.Warn("failed to record command history", "error", err)
	}
}

// closeSerializer closes the output writer, logging rather than
// clobbering the command result.
func closeSerializer(ser *serializer.Writer) {
	if err := ser.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}
