package trim

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/randalmurphal/tracetrim/linefile"
	"github.com/randalmurphal/tracetrim/truncate"
	"github.com/randalmurphal/tracetrim/width"
)

// Stats summarizes one run.
type Stats struct {
	Records   int           // Records read and written
	Truncated int           // Records that were cut
	Bytes     int64         // Bytes written, terminators included
	Elapsed   time.Duration // Wall time of the run
}

// Option configures Transform.
type Option func(*options)

type options struct {
	counter width.Counter
}

// WithCounter sets the width counter. Default: runes.
func WithCounter(counter width.Counter) Option {
	return func(o *options) {
		if counter != nil {
			o.counter = counter
		}
	}
}

// recordWriter is satisfied by *linefile.Writer and streamWriter.
type recordWriter interface {
	WriteRecord(rec string) error
}

// streamWriter writes "\n" terminated records to an arbitrary io.Writer.
type streamWriter struct {
	bw    *bufio.Writer
	bytes int64
}

func (s *streamWriter) WriteRecord(rec string) error {
	n, err := s.bw.WriteString(rec)
	s.bytes += int64(n)
	if err != nil {
		return err
	}
	if err := s.bw.WriteByte('\n'); err != nil {
		return err
	}
	s.bytes++
	return nil
}

// Transform reads records from src, cuts each to maxWidth and writes it to
// dst followed by "\n". Record count and order are preserved. A maxWidth <= 0
// returns ErrInvalidConfiguration without reading or writing anything.
func Transform(ctx context.Context, src io.Reader, dst io.Writer, maxWidth int, opts ...Option) (Stats, error) {
	if maxWidth <= 0 {
		return Stats{}, invalidConfig("max_width must be > 0, got %d", maxWidth)
	}
	o := options{counter: width.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	sw := &streamWriter{bw: bufio.NewWriterSize(dst, linefile.DefaultWriteBufferSize)}
	stats, err := transform(ctx, linefile.FromReader(src), sw, truncate.New().WithCounter(o.counter), maxWidth, "")
	if err != nil {
		return stats, err
	}
	if err := sw.bw.Flush(); err != nil {
		return stats, newError("write", "", ErrDestinationUnwritable, err)
	}
	stats.Bytes = sw.bytes
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// Run trims cfg.Source into cfg.Destination. The configuration is validated
// before any file is touched. On failure the destination is not committed:
// in atomic mode a previous destination is left as it was, otherwise the
// partial output is removed.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	start := time.Now()

	r, err := linefile.NewReader(cfg.Source)
	if err != nil {
		kind := ErrSourceUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = ErrSourceNotFound
		}
		return Stats{}, newError("open", cfg.Source, kind, err)
	}
	defer r.Close()

	opts := linefile.DefaultOptions()
	opts.Atomic = cfg.Atomic
	w, err := linefile.Create(cfg.Destination, opts)
	if err != nil {
		return Stats{}, newError("open", cfg.Destination, ErrDestinationUnwritable, err)
	}
	defer w.Close()

	stats, err := transform(ctx, r, w, truncate.New().WithCounter(cfg.Counter()), cfg.MaxWidth, cfg.Destination)
	if err != nil {
		return stats, err
	}
	if err := w.Commit(); err != nil {
		return stats, newError("commit", cfg.Destination, ErrDestinationUnwritable, err)
	}

	stats.Bytes = w.Bytes()
	stats.Elapsed = time.Since(start)
	slog.Debug("trace trimmed",
		slog.String("source", cfg.Source),
		slog.String("destination", cfg.Destination),
		slog.Int("max_width", cfg.MaxWidth),
		slog.Int("records", stats.Records),
		slog.Int("truncated", stats.Truncated),
		slog.Int64("bytes", stats.Bytes),
		slog.Duration("elapsed", stats.Elapsed))
	return stats, nil
}

func transform(ctx context.Context, r *linefile.Reader, w recordWriter, tr *truncate.Truncator, maxWidth int, dstPath string) (Stats, error) {
	var stats Stats
	for rec := range r.Records() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		out, cut := tr.Truncate(rec, maxWidth)
		if err := w.WriteRecord(out); err != nil {
			return stats, newError("write", dstPath, ErrDestinationUnwritable, err)
		}
		stats.Records++
		if cut {
			stats.Truncated++
		}
	}
	if err := r.Err(); err != nil {
		return stats, newError("read", r.Path(), ErrSourceUnreadable, err)
	}
	return stats, ctx.Err()
}
