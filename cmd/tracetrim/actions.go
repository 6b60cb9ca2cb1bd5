package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/randalmurphal/tracetrim/compare"
	"github.com/randalmurphal/tracetrim/trim"
	"github.com/randalmurphal/tracetrim/watch"
	"github.com/randalmurphal/tracetrim/width"
)

func trimAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Bool("watch") {
		return watchTrim(c.Context, cfg)
	}

	stats, err := trim.Run(c.Context, cfg)
	if err != nil {
		return err
	}
	logStats(cfg, stats)
	return nil
}

// loadConfig layers defaults, config file, environment, flags and arguments.
func loadConfig(c *cli.Context) (trim.Config, error) {
	cfg := trim.DefaultConfig()

	if path := c.String("config"); path != "" {
		loaded, err := trim.LoadFile(path, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return cfg, err
	}

	if c.IsSet("max-width") {
		cfg.MaxWidth = c.Int("max-width")
	}
	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	if c.IsSet("destination") {
		cfg.Destination = c.String("destination")
	}
	if c.IsSet("unit") {
		cfg.Unit = c.String("unit")
	}
	if c.IsSet("atomic") {
		cfg.Atomic = c.Bool("atomic")
	}

	args := c.Args()
	if args.Len() > 2 {
		return cfg, usageError{err: fmt.Errorf("expected at most 2 arguments (source, destination), got %d", args.Len())}
	}
	if args.Len() >= 1 {
		cfg.Source = args.Get(0)
	}
	if args.Len() == 2 {
		cfg.Destination = args.Get(1)
	}

	slog.Debug("effective config",
		slog.Int("max_width", cfg.MaxWidth),
		slog.String("source", cfg.Source),
		slog.String("destination", cfg.Destination),
		slog.String("unit", cfg.Unit),
		slog.Bool("atomic", cfg.Atomic))
	return cfg, nil
}

func logStats(cfg trim.Config, stats trim.Stats) {
	slog.Info("trace trimmed",
		slog.String("source", cfg.Source),
		slog.String("destination", cfg.Destination),
		slog.Int("records", stats.Records),
		slog.Int("truncated", stats.Truncated),
		slog.Int64("bytes", stats.Bytes),
		slog.Duration("elapsed", stats.Elapsed))
}

func watchTrim(ctx context.Context, cfg trim.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if trim.SamePath(cfg.Source, cfg.Destination) {
		// Each run would rewrite the file it is watching.
		return usageError{err: fmt.Errorf("--watch cannot trim %s in place", cfg.Source)}
	}

	slog.Info("watching source", slog.String("source", cfg.Source))
	return watch.Run(ctx, cfg.Source, watch.Options{}, func(ctx context.Context) error {
		stats, err := trim.Run(ctx, cfg)
		if err != nil {
			return err
		}
		logStats(cfg, stats)
		return nil
	})
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "compare a trace against a reference trace line by line",
		ArgsUsage: "<actual> <reference>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max-width",
				Aliases: []string{"w"},
				Usage:   "cut both traces to this width before comparing (0 compares whole lines)",
			},
			&cli.StringFlag{
				Name:  "unit",
				Usage: "width unit: runes or bytes",
				Value: string(width.Runes),
			},
			&cli.IntFlag{
				Name:    "max-mismatches",
				Aliases: []string{"n"},
				Usage:   "stop after this many mismatches",
				Value:   1,
			},
		},
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return usageError{err: err}
		},
		Action: compareAction,
	}
}

func compareAction(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return usageError{err: fmt.Errorf("compare needs <actual> and <reference>, got %d arguments", c.Args().Len())}
	}
	counter, err := width.Parse(c.String("unit"))
	if err != nil {
		return usageError{err: err}
	}
	if c.Int("max-width") < 0 {
		return usageError{err: fmt.Errorf("max-width must be >= 0, got %d", c.Int("max-width"))}
	}

	res, err := compare.Files(c.Context, c.Args().Get(0), c.Args().Get(1), compare.Options{
		MaxWidth:      c.Int("max-width"),
		Counter:       counter,
		MaxMismatches: c.Int("max-mismatches"),
	})
	if err != nil {
		return err
	}

	printResult(c.App.Writer, res)
	if !res.Equal() {
		return mismatchError{count: len(res.Mismatches)}
	}
	return nil
}

const (
	expectedLabel = "  expected: "
	actualLabel   = "  actual:   "
)

func printResult(w io.Writer, res *compare.Result) {
	if res.Equal() {
		fmt.Fprintf(w, "traces match (%d lines)\n", res.Lines)
		return
	}
	for _, m := range res.Mismatches {
		switch m.Kind {
		case compare.Differ:
			fmt.Fprintf(w, "line %d, column %d differs\n", m.Line, m.Column)
			fmt.Fprintf(w, "%s%s\n", expectedLabel, m.Expected)
			fmt.Fprintf(w, "%s%s\n", actualLabel, m.Actual)
			fmt.Fprintf(w, "%s^\n", strings.Repeat(" ", len(actualLabel)+m.Column-1))
		case compare.MissingActual:
			fmt.Fprintf(w, "line %d missing from actual trace\n", m.Line)
			fmt.Fprintf(w, "%s%s\n", expectedLabel, m.Expected)
		case compare.MissingReference:
			fmt.Fprintf(w, "line %d not in reference trace\n", m.Line)
			fmt.Fprintf(w, "%s%s\n", actualLabel, m.Actual)
		}
	}
	if res.Truncated {
		fmt.Fprintf(w, "stopped after %d mismatches\n", len(res.Mismatches))
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "print the JSON Schema for config files",
		Action: func(c *cli.Context) error {
			data, err := trim.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, string(data))
			return err
		},
	}
}
