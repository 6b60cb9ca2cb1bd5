package width

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Unit names a width unit.
type Unit string

const (
	// Runes counts Unicode code points (default).
	Runes Unit = "runes"

	// Bytes counts raw bytes.
	Bytes Unit = "bytes"
)

// Units lists the recognized unit names.
var Units = []Unit{Runes, Bytes}

// Counter measures text width and cuts text to a width limit.
type Counter interface {
	// Count returns the width of text.
	Count(text string) int

	// FitsInLimit returns true if text is at most limit wide.
	FitsInLimit(text string, limit int) bool

	// Cut returns the longest prefix of text that is at most limit wide.
	// A limit <= 0 yields the empty string.
	Cut(text string, limit int) string

	// Unit reports the unit this counter measures in.
	Unit() Unit
}

// RuneCounter measures width in Unicode code points.
type RuneCounter struct{}

// NewRuneCounter creates a counter that counts runes.
func NewRuneCounter() *RuneCounter {
	return &RuneCounter{}
}

// Count returns the number of runes in text.
func (c *RuneCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// FitsInLimit returns true if text has at most limit runes.
func (c *RuneCounter) FitsInLimit(text string, limit int) bool {
	// A string never has more runes than bytes.
	if len(text) <= limit {
		return true
	}
	return c.Count(text) <= limit
}

// Cut returns the first limit runes of text, sliced from the original bytes.
func (c *RuneCounter) Cut(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}

	offset := 0
	for n := 0; n < limit && offset < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[offset:])
		offset += size
	}
	return text[:offset]
}

// Unit returns Runes.
func (c *RuneCounter) Unit() Unit {
	return Runes
}

// ByteCounter measures width in bytes.
type ByteCounter struct{}

// NewByteCounter creates a counter that counts bytes.
func NewByteCounter() *ByteCounter {
	return &ByteCounter{}
}

// Count returns len(text).
func (c *ByteCounter) Count(text string) int {
	return len(text)
}

// FitsInLimit returns true if text has at most limit bytes.
func (c *ByteCounter) FitsInLimit(text string, limit int) bool {
	return len(text) <= limit
}

// Cut returns the first limit bytes of text. It may split a multi-byte sequence.
func (c *ByteCounter) Cut(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

// Unit returns Bytes.
func (c *ByteCounter) Unit() Unit {
	return Bytes
}

// Parse returns the Counter for a unit name. The empty string selects Runes.
func Parse(unit string) (Counter, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(unit))) {
	case "", Runes, "rune", "chars", "characters":
		return NewRuneCounter(), nil
	case Bytes, "byte":
		return NewByteCounter(), nil
	default:
		return nil, fmt.Errorf("unknown width unit %q (want %q or %q)", unit, Runes, Bytes)
	}
}

// Default returns the counter used when no unit is configured.
func Default() Counter {
	return NewRuneCounter()
}
