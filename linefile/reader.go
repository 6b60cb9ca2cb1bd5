package linefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// DefaultReadBufferSize is the initial read buffer size.
const DefaultReadBufferSize = 64 * 1024

// Reader reads records from a line-oriented text source.
type Reader struct {
	path     string
	file     *os.File
	br       *bufio.Reader
	count    int
	err      error
	consumed bool
}

// NewReader opens the file at path for reading.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat source file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("open source file: %s is a directory", path)
	}
	return &Reader{
		path: path,
		file: file,
		br:   bufio.NewReaderSize(file, DefaultReadBufferSize),
	}, nil
}

// FromReader wraps an already open stream. Close does not close src.
func FromReader(src io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(src, DefaultReadBufferSize)}
}

// Path returns the file path being read, or "" for wrapped streams.
func (r *Reader) Path() string {
	return r.path
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Records returns the source's records in file order.
// The sequence can be ranged over once; later calls yield nothing.
// Check Err after the loop ends.
func (r *Reader) Records() iter.Seq[string] {
	return func(yield func(string) bool) {
		if r.consumed {
			return
		}
		r.consumed = true

		for {
			line, err := r.br.ReadString('\n')
			if len(line) > 0 {
				r.count++
				if !yield(TrimTerminator(line)) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					r.err = fmt.Errorf("read record %d: %w", r.count+1, err)
				}
				return
			}
		}
	}
}

// Err returns the first non-EOF read error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Count returns the number of records yielded so far.
func (r *Reader) Count() int {
	return r.count
}

// TrimTerminator strips one trailing "\n" or "\r\n" from line.
func TrimTerminator(line string) string {
	if strings.HasSuffix(line, "\n") {
		line = line[:len(line)-1]
		line = strings.TrimSuffix(line, "\r")
	}
	return line
}

// ReadFile reads all records from a file path.
// Convenience function that opens, reads, and closes the file.
func ReadFile(path string) ([]string, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var records []string
	for rec := range r.Records() {
		records = append(records, rec)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
