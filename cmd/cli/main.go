package main

import (
	"fmt"
	"os"

	"consensus-market/internal/config"

	"github.com/urfave/cli/v2"
)

func main() {
	config.LoadDotenvOnce()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "market",
		Usage: "Clear offers against aggregated building bid curves",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
				Usage:   "debug, info, error or severe",
			},
		},
		Commands: []*cli.Command{
			sweepCommand(),
			clearCommand(),
			showCommand(),
			snapshotCommand(),
		},
	}
}

func policyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "policy",
		Usage: "monotonic policy for remote curves: reject or canonicalize",
	}
}

func buildingsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "buildings",
		Aliases:  []string{"b"},
		Required: true,
		Usage:    "specify the input buildings JSON",
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:    "sweep",
		Usage:   "Clear a range of offers and tabulate building loads",
		Aliases: []string{"s"},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "specify a YAML config; command-line flags take precedence",
			},
			&cli.StringFlag{
				Name:    "buildings",
				Aliases: []string{"b"},
				Usage:   "specify the input buildings JSON (required without --config)",
			},
			&cli.StringSliceFlag{
				Name:  "remote",
				Usage: "add a msgpack snapshot as a remote participant (repeatable)",
			},
			policyFlag(),
			&cli.Float64Flag{Name: "start", Usage: "first offer (kW)"},
			&cli.Float64Flag{Name: "stop", Usage: "last offer (kW)"},
			&cli.Float64Flag{Name: "step", Usage: "offer increment (kW)"},
			&cli.StringFlag{
				Name:  "out",
				Usage: "write the sweep to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "table",
				Usage: "table or csv",
			},
		},
		Action: func(ctx *cli.Context) error {
			format := ctx.String("format")
			if format != "table" && format != "csv" {
				return fmt.Errorf("invalid format %q", format)
			}
			cfg, err := sweepConfig(ctx)
			if err != nil {
				return err
			}
			return doSweep(ctx, cfg, ctx.String("out"), format)
		},
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:    "clear",
		Usage:   "Clear a single offer",
		Aliases: []string{"c"},
		Flags: []cli.Flag{
			buildingsFlag(),
			policyFlag(),
			&cli.Float64Flag{
				Name:     "offer",
				Required: true,
				Usage:    "specify the offered quantity (kW)",
			},
		},
		Action: func(ctx *cli.Context) error {
			return doClear(ctx, ctx.String("buildings"), ctx.String("policy"), ctx.Float64("offer"))
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Display buildings and the market built from them",
		Flags: []cli.Flag{
			buildingsFlag(),
			policyFlag(),
		},
		Action: func(ctx *cli.Context) error {
			return doShow(ctx, ctx.String("buildings"), ctx.String("policy"))
		},
	}
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Write one msgpack snapshot per building, for use as remote participants",
		Flags: []cli.Flag{
			buildingsFlag(),
			&cli.StringFlag{
				Name:     "dir",
				Required: true,
				Usage:    "specify the output directory",
			},
		},
		Action: func(ctx *cli.Context) error {
			return doSnapshot(ctx, ctx.String("buildings"), ctx.String("dir"))
		},
	}
}
