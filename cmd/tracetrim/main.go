// Command tracetrim cuts every line of a trace log to a fixed width so it can
// be compared column for column against a reference trace.
//
// Usage:
//
//	tracetrim [flags] [source [destination]]
//	tracetrim compare [flags] <actual> <reference>
//	tracetrim schema
//
// Configuration is layered: built-in defaults (73 columns, nestest.log ->
// modifiedtest.log), then --config (TOML, YAML or JSON), then .env and
// TRACETRIM_* environment variables, then flags and positional arguments.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.RunContext(ctx, args); err != nil {
		code := exitCode(err)
		if code != exitMismatch {
			fmt.Fprintf(stderr, "tracetrim: %v\n", err)
		}
		return code
	}
	return exitOK
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "tracetrim",
		Usage:     "cut every line of a trace log to a fixed width",
		UsageText: "tracetrim [flags] [source [destination]]",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (.toml, .yaml, .yml or .json)",
				EnvVars: []string{"TRACETRIM_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before TRACETRIM_* variables are read; never overrides the environment",
				Value: ".env",
			},
			&cli.IntFlag{
				Name:    "max-width",
				Aliases: []string{"w"},
				Usage:   "maximum width kept per line (default 73)",
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"i"},
				Usage:   "input log (default nestest.log)",
			},
			&cli.StringFlag{
				Name:    "destination",
				Aliases: []string{"o"},
				Usage:   "output log, overwritten in full (default modifiedtest.log)",
			},
			&cli.StringFlag{
				Name:  "unit",
				Usage: "width unit: runes or bytes (default runes)",
			},
			&cli.BoolFlag{
				Name:  "atomic",
				Usage: "write via a temp file and rename into place",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "re-run whenever the source changes",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"TRACETRIM_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			loaded, err := loadDotEnv(c.String("env-file"))
			if err != nil {
				return err
			}
			if err := applyEnv(c); err != nil {
				return err
			}
			if err := setupLogging(c.App.ErrWriter, c.String("log-level")); err != nil {
				return err
			}
			if loaded {
				slog.Debug("loaded env file", slog.String("path", c.String("env-file")))
			}
			return nil
		},
		Action: trimAction,
		Commands: []*cli.Command{
			compareCommand(),
			schemaCommand(),
		},
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return usageError{err: err}
		},
		// Exit codes are computed by run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// setupLogging installs a text handler on w, tagging records with a run ID.
func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return usageError{err: err}
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler).With(slog.String("run_id", uuid.NewString())))
	return nil
}

// loadDotEnv loads path if it exists. Variables already set are kept.
func loadDotEnv(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, usageError{err: err}
	}
	return true, nil
}

// envFlags maps global flags to the variables that feed them. Flags read
// their variables while parsing, before the env file is loaded, so applyEnv
// fills in the ones the env file provided.
var envFlags = []struct {
	flag, env string
}{
	{"config", "TRACETRIM_CONFIG"},
	{"log-level", "TRACETRIM_LOG_LEVEL"},
}

// applyEnv sets each flag in envFlags that was given neither on the command
// line nor in the process environment from its variable, if present now.
func applyEnv(c *cli.Context) error {
	for _, f := range envFlags {
		if c.IsSet(f.flag) {
			continue
		}
		value, ok := os.LookupEnv(f.env)
		if !ok || value == "" {
			continue
		}
		if err := c.Set(f.flag, value); err != nil {
			return usageError{err: fmt.Errorf("%s: %w", f.env, err)}
		}
	}
	return nil
}
