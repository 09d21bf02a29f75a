package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/odyssey-erp/taxer/cmd/taxer/cli"
	"github.com/odyssey-erp/taxer/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stderr)

	converter, err := cli.NewConverter(cfg, logger)
	if err != nil {
		logger.Error("init converter", slog.Any("error", err))
		os.Exit(1)
	}

	application := &urfavecli.App{
		Name:  "taxer",
		Usage: "convert transaction entries into Taxer import CSV",
		Commands: []*urfavecli.Command{
			{
				Name:      "convert",
				Usage:     "convert JSON entry files (or stdin) into Taxer CSV",
				ArgsUsage: "[FILE|-]...",
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write CSV to `FILE` instead of stdout"},
					&urfavecli.StringFlag{Name: "out-dir", Usage: "write one CSV per input into `DIR`"},
					&urfavecli.StringFlag{Name: "encoding", Value: cfg.OutputEncoding, Usage: "output charset: utf-8 or windows-1251"},
				},
				Action: func(c *urfavecli.Context) error {
					code := converter.ConvertCommand(c.Context, cli.ConvertOptions{
						Inputs:   c.Args().Slice(),
						Output:   c.String("output"),
						OutDir:   c.String("out-dir"),
						Encoding: c.String("encoding"),
					})
					if code != cli.ExitOK {
						return urfavecli.Exit("", code)
					}
					return nil
				},
			},
		},
	}

	if err := application.RunContext(ctx, os.Args); err != nil {
		logger.Error("run", slog.Any("error", err))
		os.Exit(1)
	}
}
