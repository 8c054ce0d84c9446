package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rackerlabs/rsspot/pkg/serializer"
)

func regionsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "regions",
		EnableShellCompletion: true,
		Usage:                 "List available regions",
		Commands: []*cli.Command{
			regionsListCmd(),
		},
	}
}

func regionsListCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List regions",
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

			ctx, cancel := commandContext(ctx)
			defer cancel()

			regions, err := rt.client.Regions.List(ctx)
			if err != nil {
				return err
			}
			rt.recordHistory(ctx, "regions list", os.Args[1:])

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, regions)
		},
	}
}
