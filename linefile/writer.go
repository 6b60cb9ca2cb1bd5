package linefile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultWriteBufferSize is the write buffer size used when Options.BufSize is unset.
const DefaultWriteBufferSize = 64 * 1024

// ErrClosed is returned when writing to a committed or closed Writer.
var ErrClosed = errors.New("writer closed")

// Options controls how a Writer creates its destination.
type Options struct {
	// Atomic writes to a temporary file next to the destination and renames
	// it into place on Commit.
	Atomic bool

	// Perm is the destination file mode. 0 means 0o644.
	Perm os.FileMode

	// BufSize is the write buffer size. <= 0 means DefaultWriteBufferSize.
	BufSize int
}

// DefaultOptions returns atomic writes with 0o644 permissions.
func DefaultOptions() Options {
	return Options{
		Atomic:  true,
		Perm:    0o644,
		BufSize: DefaultWriteBufferSize,
	}
}

// Writer writes records to a destination file, one "\n" terminated line each.
type Writer struct {
	path    string
	tmpPath string
	file    *os.File
	bw      *bufio.Writer
	atomic  bool
	done    bool
	records int
	bytes   int64
}

// Create opens a writer for path. Parent directories are created as needed.
// In non-atomic mode an existing destination is truncated immediately.
func Create(path string, opts Options) (*Writer, error) {
	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
	}
	bufSize := opts.BufSize
	if bufSize <= 0 {
		bufSize = DefaultWriteBufferSize
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	w := &Writer{path: path, atomic: opts.Atomic}
	if opts.Atomic {
		tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
		if err != nil {
			return nil, fmt.Errorf("create temp file: %w", err)
		}
		if err := tmp.Chmod(perm); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, fmt.Errorf("chmod temp file: %w", err)
		}
		w.file = tmp
		w.tmpPath = tmp.Name()
	} else {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
		if err != nil {
			return nil, fmt.Errorf("open destination file: %w", err)
		}
		w.file = f
	}
	w.bw = bufio.NewWriterSize(w.file, bufSize)
	return w, nil
}

// Path returns the destination path.
func (w *Writer) Path() string {
	return w.path
}

// WriteRecord writes rec followed by "\n".
func (w *Writer) WriteRecord(rec string) error {
	if w.done {
		return ErrClosed
	}
	n, err := w.bw.WriteString(rec)
	w.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("write record %d: %w", w.records+1, err)
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("write record %d: %w", w.records+1, err)
	}
	w.bytes++
	w.records++
	return nil
}

// Records returns the number of records written.
func (w *Writer) Records() int {
	return w.records
}

// Bytes returns the number of bytes written, terminators included.
func (w *Writer) Bytes() int64 {
	return w.bytes
}

// Commit flushes, syncs and closes the destination. In atomic mode the
// temporary file is renamed over the destination. After a failed Commit the
// output is discarded.
func (w *Writer) Commit() error {
	if w.done {
		return ErrClosed
	}
	if err := w.bw.Flush(); err != nil {
		w.abort()
		return fmt.Errorf("flush destination: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		w.abort()
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := w.file.Close(); err != nil {
		w.file = nil
		w.abort()
		return fmt.Errorf("close destination: %w", err)
	}
	w.file = nil
	if w.atomic {
		if err := os.Rename(w.tmpPath, w.path); err != nil {
			w.abort()
			return fmt.Errorf("rename into place: %w", err)
		}
	}
	w.done = true
	return nil
}

// Close discards uncommitted output. It is a no-op after Commit.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}
	w.abort()
	return nil
}

// abort closes the file and removes whatever was written. In non-atomic mode
// that is the truncated destination itself.
func (w *Writer) abort() {
	w.done = true
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
	if w.atomic {
		os.Remove(w.tmpPath)
	} else {
		os.Remove(w.path)
	}
}
