package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/rackerlabs/rsspot/pkg/pricing"
	"github.com/rackerlabs/rsspot/pkg/serializer"
)

func pricingCmd() *cli.Command {
	return &cli.Command{
		Name:                  "pricing",
		EnableShellCompletion: true,
		Usage:                 "Explore catalog pricing and build cluster recommendations",
		Commands: []*cli.Command{
			pricingListCmd(),
			pricingGetCmd(),
			pricingBuildCmd(),
			pricingCatalogCmd(),
		},
	}
}

func pricingListCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List per-class market pricing with cluster cost projections",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "region",
				Aliases: []string{"regions"},
				Usage:   "Restrict the listing to the given regions (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "class",
				Aliases: []string{"classes"},
				Usage:   "Restrict the listing to the given class prefixes, e.g. gp, ch, mh (repeatable)",
			},
			&cli.IntFlag{
				Name:  "gen",
				Usage: "Minimum hardware generation, e.g. 2 to drop first generation classes",
			},
			&cli.IntFlag{
				Name:  "min-cpu",
				Usage: "Minimum vCPU cores per node",
			},
			&cli.IntFlag{
				Name:  "max-cpu",
				Usage: "Maximum vCPU cores per node",
			},
			&cli.IntFlag{
				Name:  "nodes",
				Value: 1,
				Usage: "Node count used for the cluster cost projection columns",
			},
			catalogFlag(),
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

			regions := pricing.SplitFilterValues(cmd.StringSlice("region"))
			records, err := loadCatalog(ctx, cmd, rt, regions)
			if err != nil {
				return err
			}

			offerings, warnings, err := pricing.Normalize(records)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				slog.Warn("catalog record skipped", "reason", w)
			}

			nodes := int(cmd.Int("nodes"))
			if nodes < 1 {
				nodes = 1
			}
			req := &pricing.Request{
				Nodes:         nodes,
				Regions:       regions,
				Classes:       pricing.SplitFilterValues(cmd.StringSlice("class")),
				MinGeneration: int(cmd.Int("gen")),
				MinCPU:        int(cmd.Int("min-cpu")),
				MaxCPU:        int(cmd.Int("max-cpu")),
			}
			scored, err := pricing.Filter(pricing.Score(offerings, pricing.DefaultWeights), req)
			if err != nil {
				return err
			}

			rows := priceRows(scored, nodes)
			rt.recordHistory(ctx, "pricing list", os.Args[1:])

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, rows)
		},
	}
}

func pricingGetCmd() *cli.Command {
	return &cli.Command{
		Name:                  "get",
		EnableShellCompletion: true,
		Usage:                 "Show pricing details for a single server class",
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

			details, err := rt.client.Pricing.Get(ctx, clsName)
			if err != nil {
				return err
			}
			rt.recordHistory(ctx, "pricing get", os.Args[1:])

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, details)
		},
	}
}

func pricingBuildCmd() *cli.Command {
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Build bidding scenarios for a cluster of spot nodes",
		Description: `Build per-strategy cluster scenarios from live market pricing:
  - max_performance: strongest nodes that fit the budget
  - max_value:       most capacity per dollar
  - balanced:        composite score, diversified across pools by risk

When no strategy flag is given all three are evaluated. Each scenario
carries per-pool node counts, cost totals, and a suggested bid derived
from the market price and the risk level.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "nodes",
				Aliases: []string{"n"},
				Value:   3,
				Usage:   "Total number of nodes to allocate",
			},
			&cli.StringFlag{
				Name: "risk",
				Usage: fmt.Sprintf("Risk tolerance (supported values: %v)",
					pricing.SupportedRiskLevels()),
			},
			&cli.BoolFlag{
				Name:  "max-performance",
				Usage: "Evaluate the max_performance strategy",
			},
			&cli.BoolFlag{
				Name:  "max-value",
				Usage: "Evaluate the max_value strategy",
			},
			&cli.BoolFlag{
				Name:  "balanced",
				Usage: "Evaluate the balanced strategy",
			},
			&cli.StringSliceFlag{
				Name:    "region",
				Aliases: []string{"regions"},
				Usage:   "Restrict candidates to the given regions (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "class",
				Aliases: []string{"classes"},
				Usage:   "Restrict candidates to the given class prefixes (repeatable)",
			},
			&cli.IntFlag{
				Name:  "gen",
				Usage: "Minimum hardware generation",
			},
			&cli.IntFlag{
				Name:  "min-cpu",
				Usage: "Minimum vCPU cores per node",
			},
			&cli.IntFlag{
				Name:  "max-cpu",
				Usage: "Maximum vCPU cores per node",
			},
			&cli.FloatFlag{
				Name:  "min-hour",
				Usage: "Minimum hourly budget for the whole cluster",
			},
			&cli.FloatFlag{
				Name:  "max-hour",
				Usage: "Maximum hourly budget for the whole cluster",
			},
			&cli.FloatFlag{
				Name:  "min-month",
				Usage: "Minimum monthly budget for the whole cluster",
			},
			&cli.FloatFlag{
				Name:  "max-month",
				Usage: "Maximum monthly budget for the whole cluster",
			},
			catalogFlag(),
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

			req, err := buildRequestFromCmd(cmd)
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

			records, err := loadCatalog(ctx, cmd, rt, req.Regions)
			if err != nil {
				return err
			}

			result, err := pricing.BuildRecommendation(records, req)
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				slog.Warn("catalog record skipped", "reason", w)
			}
			rt.recordHistory(ctx, "pricing build", os.Args[1:])

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, result)
		},
	}
}

func pricingCatalogCmd() *cli.Command {
	return &cli.Command{
		Name:                  "catalog",
		EnableShellCompletion: true,
		Usage:                 "Export the raw pricing catalog for later offline use",
		Description: `Export the live pricing catalog as raw records. The saved file can
be fed back to pricing list and pricing build via --catalog to price
without credentials or network access.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "region",
				Aliases: []string{"regions"},
				Usage:   "Restrict the export to the given regions (repeatable)",
			},
			configFlag,
			profileFlag,
			outputFlag,
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatJSON),
				Usage: fmt.Sprintf("Output format (supported values: %v)",
					serializer.SupportedFormats()),
			},
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

			regions := pricing.SplitFilterValues(cmd.StringSlice("region"))
			records, err := rt.client.Pricing.Catalog(ctx, regions...)
			if err != nil {
				return err
			}
			rt.recordHistory(ctx, "pricing catalog", os.Args[1:])

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeSerializer(ser)
			return ser.Serialize(ctx, records)
		},
	}
}

func catalogFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "catalog",
		Aliases: []string{"f"},
		Usage: `Path to a previously saved catalog file (JSON or YAML) to price
	against instead of the live API. Region flags still filter the file.`,
	}
}

// buildRequestFromCmd constructs a pricing.Request from CLI flags.
// Strategy flags are additive; none selected means all three.
func buildRequestFromCmd(cmd *cli.Command) (*pricing.Request, error) {
	req := &pricing.Request{
		Nodes:         int(cmd.Int("nodes")),
		Regions:       pricing.SplitFilterValues(cmd.StringSlice("region")),
		Classes:       pricing.SplitFilterValues(cmd.StringSlice("class")),
		MinGeneration: int(cmd.Int("gen")),
		MinCPU:        int(cmd.Int("min-cpu")),
		MaxCPU:        int(cmd.Int("max-cpu")),
		MinHourly:     cmd.Float("min-hour"),
		MaxHourly:     cmd.Float("max-hour"),
		MinMonthly:    cmd.Float("min-month"),
		MaxMonthly:    cmd.Float("max-month"),
	}

	if cmd.Bool("max-performance") {
		req.Strategies = append(req.Strategies, pricing.StrategyMaxPerformance)
	}
	if cmd.Bool("max-value") {
		req.Strategies = append(req.Strategies, pricing.StrategyMaxValue)
	}
	if cmd.Bool("balanced") {
		req.Strategies = append(req.Strategies, pricing.StrategyBalanced)
	}
	if len(req.Strategies) == 0 {
		req.Strategies = []pricing.Strategy{
			pricing.StrategyMaxPerformance,
			pricing.StrategyMaxValue,
			pricing.StrategyBalanced,
		}
	}

	if risk := cmd.String("risk"); risk != "" {
		r, err := pricing.ParseRiskLevel(risk)
		if err != nil {
			return nil, err
		}
		req.Risk = r
	}

	return req, nil
}

// loadCatalog returns the pricing records to evaluate: a saved catalog
// file when --catalog is set, the live API otherwise. Regions scope the
// live fetch; the file path prices offline without credentials.
func loadCatalog(ctx context.Context, cmd *cli.Command, rt *runtime, regions []string) ([]pricing.Record, error) {
	if path := cmd.String("catalog"); path != "" {
		records, err := serializer.FromFile[[]pricing.Record](path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %q: %w", path, err)
		}
		return *records, nil
	}
	return rt.client.Pricing.Catalog(ctx, regions...)
}

// priceRow is one listing line with cost projections for the requested
// node count.
type priceRow struct {
	Name       string  `json:"name" yaml:"name"`
	Region     string  `json:"region,omitempty" yaml:"region,omitempty"`
	CPU        int     `json:"cpu" yaml:"cpu"`
	MemoryGB   float64 `json:"memoryGb" yaml:"memoryGb"`
	Generation int     `json:"generation" yaml:"generation"`

	HourlyPrice    float64 `json:"hourlyPrice" yaml:"hourlyPrice"`
	MonthlyPrice   float64 `json:"monthlyPrice" yaml:"monthlyPrice"`
	ClusterHourly  float64 `json:"clusterHourly" yaml:"clusterHourly"`
	ClusterMonthly float64 `json:"clusterMonthly" yaml:"clusterMonthly"`
}

// priceRows projects scored offerings into listing rows sorted by
// hourly price, cheapest first.
func priceRows(scored []pricing.ScoredOffering, nodes int) []priceRow {
	rows := make([]priceRow, 0, len(scored))
	for _, s := range scored {
		rows = append(rows, priceRow{
			Name:           s.Name,
			Region:         s.Region,
			CPU:            s.CPUCores,
			MemoryGB:       s.RAMGB,
			Generation:     s.Generation,
			HourlyPrice:    s.HourlyPrice,
			MonthlyPrice:   s.MonthlyPrice(),
			ClusterHourly:  s.HourlyPrice * float64(nodes),
			ClusterMonthly: s.MonthlyPrice() * float64(nodes),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].HourlyPrice != rows[j].HourlyPrice {
			return rows[i].HourlyPrice < rows[j].HourlyPrice
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
