package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for Options.
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultPollInterval = 500 * time.Millisecond
)

// Options controls change detection.
type Options struct {
	// Debounce is how long to wait after the last event before running.
	Debounce time.Duration

	// PollInterval is the stat interval used when polling.
	PollInterval time.Duration

	// ForcePolling skips fsnotify.
	ForcePolling bool
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}

// Job is run once at start and again after every change.
type Job func(ctx context.Context) error

// Run calls job once, then again each time the file at path is written,
// created or replaced, until ctx is cancelled. Job errors are logged and do
// not stop the watch. Run returns nil when ctx is cancelled.
func Run(ctx context.Context, path string, opts Options, job Job) error {
	w := &watcher{
		path: path,
		opts: opts.withDefaults(),
		job:  job,
	}

	// The watch is armed before the first run so writes made during it
	// trigger another run.
	if !w.opts.ForcePolling {
		fw, err := fsnotify.NewWatcher()
		if err == nil {
			defer fw.Close()
			// Watch the directory (more reliable than watching the file directly)
			err = fw.Add(filepath.Dir(path))
			if err == nil {
				w.fire(ctx)
				return w.watchEvents(ctx, fw)
			}
		}
		slog.Debug("fsnotify unavailable, falling back to polling",
			slog.String("path", path),
			slog.Any("error", err))
	}
	last := stat(path)
	w.fire(ctx)
	return w.poll(ctx, last)
}

type watcher struct {
	path string
	opts Options
	job  Job
}

func (w *watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.job(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("watch job failed",
			slog.String("path", w.path),
			slog.Any("error", err))
	}
}

// watchEvents uses fsnotify for efficient file watching.
func (w *watcher) watchEvents(ctx context.Context, fw *fsnotify.Watcher) error {
	target := filepath.Clean(w.path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			slog.Debug("source changed",
				slog.String("path", w.path),
				slog.String("op", event.Op.String()))
			pending = time.After(w.opts.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			// Usually recoverable (e.g. event queue overflow)
			slog.Warn("watch error", slog.String("path", w.path), slog.Any("error", err))

		case <-pending:
			pending = nil
			w.fire(ctx)
		}
	}
}

// poll stats the file on an interval as a fallback when fsnotify isn't available.
func (w *watcher) poll(ctx context.Context, last fileState) error {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			cur := stat(w.path)
			if cur == last {
				continue
			}
			last = cur
			if !cur.exists {
				continue
			}
			slog.Debug("source changed", slog.String("path", w.path), slog.String("op", "poll"))
			w.fire(ctx)
		}
	}
}

type fileState struct {
	exists  bool
	size    int64
	modTime int64
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime().UnixNano()}
}
