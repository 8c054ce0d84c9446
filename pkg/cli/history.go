package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rackerlabs/rsspot/pkg/serializer"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "history",
		EnableShellCompletion: true,
		Usage:                 "Inspect the locally recorded command history",
		Commands: []*cli.Command{
			historyListCmd(),
			historyClearCmd(),
		},
	}
}

func historyListCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List recorded commands, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "Maximum number of entries to show",
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

			if rt.store == nil {
				return fmt.Errorf("no state store available, history is not recorded")
			}

			entries, err := rt.store.HistoryList(ctx, int(cmd.Int("limit")))
			if err != nil {
				return err
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, entries)
		},
	}
}

func historyClearCmd() *cli.Command {
	return &cli.Command{
		Name:                  "clear",
		EnableShellCompletion: true,
		Usage:                 "Delete all recorded history entries",
		Flags: []cli.Flag{
			configFlag,
			profileFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.store == nil {
				return fmt.Errorf("no state store available, history is not recorded")
			}
			return rt.store.HistoryClear(ctx)
		},
	}
}
