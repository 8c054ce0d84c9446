package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rackerlabs/rsspot/pkg/serializer"
	"github.com/rackerlabs/rsspot/pkg/spot"
)

func serverClassesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serverclasses",
		EnableShellCompletion: true,
		Usage:                 "List and inspect server classes",
		Commands: []*cli.Command{
			serverClassesListCmd(),
			serverClassesGetCmd(),
		},
	}
}

func serverClassesListCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List server classes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "region",
				Usage: "Restrict the listing to one region",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include server classes that are currently sold out",
			},
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

			classes, err := rt.client.ServerClasses.List(ctx, spot.ListOptions{
				Region:             cmd.String("region"),
				IncludeUnavailable: cmd.Bool("all"),
			})
			if err != nil {
				return err
			}
			rt.recordHistory(ctx, "serverclasses list", os.Args[1:])

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, classes)
		},
	}
}

func serverClassesGetCmd() *cli.Command {
	return &cli.Command{
		Name:                  "get",
		EnableShellCompletion: true,
		Usage:                 "Show a single server class",
		ArgsUsage:             "NAME",
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
			clsName := cmd.Args().First()
			if clsName == "" {
				return fmt.Errorf("server class name argument is required")
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := commandContext(ctx)
			defer cancel()

			cls, err := rt.client.ServerClasses.Get(ctx, clsName)
			if err != nil {
				return err
			}
			rt.recordHistory(ctx, "serverclasses get", os.Args[1:])

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, cls)
		},
	}
}
