// Package trim cuts every line of a text log to a fixed width.
//
// It turns variable-width instruction traces into a fixed-width form that can
// be compared column for column against a reference trace such as nestest.log.
// Each output line is the first MaxWidth units of the matching input line
// followed by "\n". Line count and order are preserved and short lines are
// never padded.
//
// # Basic Usage
//
// Trim a file using the nestest defaults:
//
//	stats, err := trim.Run(ctx, trim.DefaultConfig())
//
// Or work on streams directly:
//
//	stats, err := trim.Transform(ctx, os.Stdin, os.Stdout, 73)
//
// # Configuration
//
// Config is built in layers: DefaultConfig, then LoadFile (TOML, YAML or
// JSON), then LoadFromEnv (TRACETRIM_* variables), then the caller's own
// overrides. Validate rejects a non-positive width before any I/O.
//
// # Errors
//
// Every failure other than context cancellation matches one of
// ErrInvalidConfiguration, ErrSourceNotFound, ErrSourceUnreadable or
// ErrDestinationUnwritable via errors.Is. Kind returns which one.
package trim
