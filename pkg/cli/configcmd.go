package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rackerlabs/rsspot/pkg/config"
	"github.com/rackerlabs/rsspot/pkg/serializer"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:                  "config",
		EnableShellCompletion: true,
		Usage:                 "Inspect the effective configuration",
		Commands: []*cli.Command{
			configShowCmd(),
		},
	}
}

// configView is the redacted configuration presented to the user.
// Secrets never leave the process unmasked.
type configView struct {
	ConfigFile    string          `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	ActiveProfile string          `json:"activeProfile" yaml:"activeProfile"`
	Profiles      []string        `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	Profile       *config.Profile `json:"profile" yaml:"profile"`
	StateFile     string          `json:"stateFile,omitempty" yaml:"stateFile,omitempty"`
}

func configShowCmd() *cli.Command {
	return &cli.Command{
		Name:                  "show",
		EnableShellCompletion: true,
		Usage:                 "Show the resolved profile with secrets redacted",
		Flags: []cli.Flag{
			configFlag,
			profileFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			view := configView{
				ConfigFile:    rt.cfg.Path,
				ActiveProfile: rt.profileName,
				Profiles:      rt.cfg.ProfileNames(),
				Profile:       rt.profile.Redacted(),
				StateFile:     rt.cfg.StateFile(),
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, view)
		},
	}
}
