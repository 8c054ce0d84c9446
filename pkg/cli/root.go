package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rackerlabs/rsspot/pkg/logging"
	"github.com/rackerlabs/rsspot/pkg/serializer"
)

const (
	name           = "rsspot"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags shared by every command that emits structured output.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write output to the given file instead of stdout",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatTable),
		Usage: fmt.Sprintf("Output format (supported values: %v)",
			serializer.SupportedFormats()),
	}
)

// Flags shared by every command that resolves configuration.
var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (default is $HOME/.config/rsspot/config.yml)",
	}

	profileFlag = &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "Named profile to use from the config file",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Value: "info",
		Usage: "Log level (debug, info, warn, error)",
	}
)

// Root assembles the full command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Rackspace Spot pricing advisor",
		Description: fmt.Sprintf(`rsspot - Rackspace Spot pricing advisor

Version: %s
Commit:  %s
Built:   %s

Tooling to explore the Rackspace Spot server class catalog and build
bidding recommendations:

pricing       - catalog pricing and cluster scenario recommendations
serverclasses - raw server class listings
regions       - available regions
config        - effective configuration
history       - locally recorded command history`, version, commit, date),
		Flags: []cli.Flag{
			logLevelFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			pricingCmd(),
			serverClassesCmd(),
			regionsCmd(),
			configCmd(),
			historyCmd(),
		},
	}
}

// Execute runs the CLI and returns the process exit code. SIGINT and
// SIGTERM cancel the command context for a graceful shutdown.
func Execute() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := Root().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := exitCode(err)
		slog.Debug("command failed", "error", err, "exitCode", code)
		return code
	}
	return 0
}
