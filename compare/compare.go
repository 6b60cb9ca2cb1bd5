package compare

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/randalmurphal/tracetrim/linefile"
	"github.com/randalmurphal/tracetrim/truncate"
	"github.com/randalmurphal/tracetrim/width"
)

// Kind classifies a mismatch.
type Kind int

const (
	// Differ means both traces have the line but the contents differ.
	Differ Kind = iota

	// MissingActual means the actual trace ended before the reference.
	MissingActual

	// MissingReference means the actual trace has lines past the end of the reference.
	MissingReference
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case Differ:
		return "differ"
	case MissingActual:
		return "missing-actual"
	case MissingReference:
		return "missing-reference"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Options controls a comparison.
type Options struct {
	// MaxWidth cuts both lines before comparing. 0 compares whole lines.
	MaxWidth int

	// Counter measures width and columns. nil means runes.
	Counter width.Counter

	// MaxMismatches stops the comparison after this many mismatches. <= 0 means 1.
	MaxMismatches int
}

// Mismatch describes one differing line.
type Mismatch struct {
	Kind     Kind
	Line     int    // 1-based line number
	Column   int    // 1-based column of the first difference; 0 for missing lines
	Expected string // Reference line (after cutting); empty for MissingReference
	Actual   string // Actual line (after cutting); empty for MissingActual
}

// Result summarizes a comparison.
type Result struct {
	// Lines is the number of line pairs examined.
	Lines int

	// Mismatches holds at most Options.MaxMismatches entries, in line order.
	Mismatches []Mismatch

	// Truncated reports that the comparison stopped at MaxMismatches with
	// lines left unexamined.
	Truncated bool
}

// Equal returns true if no mismatch was found.
func (r *Result) Equal() bool {
	return len(r.Mismatches) == 0
}

// Files compares the trace at actualPath against the one at referencePath.
func Files(ctx context.Context, actualPath, referencePath string, opts Options) (*Result, error) {
	actual, err := linefile.NewReader(actualPath)
	if err != nil {
		return nil, fmt.Errorf("actual: %w", err)
	}
	defer actual.Close()

	reference, err := linefile.NewReader(referencePath)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	defer reference.Close()

	return compare(ctx, actual, reference, opts)
}

// Readers compares two open streams.
func Readers(ctx context.Context, actual, reference io.Reader, opts Options) (*Result, error) {
	return compare(ctx, linefile.FromReader(actual), linefile.FromReader(reference), opts)
}

func compare(ctx context.Context, actual, reference *linefile.Reader, opts Options) (*Result, error) {
	counter := opts.Counter
	if counter == nil {
		counter = width.Default()
	}
	limit := opts.MaxMismatches
	if limit <= 0 {
		limit = 1
	}
	tr := truncate.New().WithCounter(counter)
	cut := func(s string) string {
		if opts.MaxWidth <= 0 {
			return s
		}
		out, _ := tr.Truncate(s, opts.MaxWidth)
		return out
	}

	nextActual, stopActual := iter.Pull(actual.Records())
	defer stopActual()
	nextReference, stopReference := iter.Pull(reference.Records())
	defer stopReference()

	res := &Result{}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		a, okA := nextActual()
		e, okE := nextReference()
		if !okA && !okE {
			break
		}
		res.Lines++
		line := res.Lines

		var m *Mismatch
		switch {
		case !okA:
			m = &Mismatch{Kind: MissingActual, Line: line, Expected: cut(e)}
		case !okE:
			m = &Mismatch{Kind: MissingReference, Line: line, Actual: cut(a)}
		default:
			a, e = cut(a), cut(e)
			if a != e {
				m = &Mismatch{Kind: Differ, Line: line, Column: Column(a, e, counter), Expected: e, Actual: a}
			}
		}
		if m == nil {
			continue
		}
		res.Mismatches = append(res.Mismatches, *m)
		if len(res.Mismatches) >= limit {
			_, moreA := nextActual()
			_, moreE := nextReference()
			res.Truncated = moreA || moreE
			break
		}
	}

	if err := actual.Err(); err != nil {
		return res, fmt.Errorf("actual: %w", err)
	}
	if err := reference.Err(); err != nil {
		return res, fmt.Errorf("reference: %w", err)
	}
	return res, nil
}

// Column returns the 1-based column, in counter units, of the first
// difference between a and b. It returns 0 if they are equal.
func Column(a, b string, counter width.Counter) int {
	if a == b {
		return 0
	}
	if counter == nil {
		counter = width.Default()
	}
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	// Back up to the start of a partially matched multi-byte sequence so the
	// column points at the differing rune.
	if counter.Unit() == width.Runes {
		for i > 0 && ((i < len(a) && !isRuneStart(a[i])) || (i < len(b) && !isRuneStart(b[i]))) {
			i--
		}
	}
	return counter.Count(a[:i]) + 1
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
