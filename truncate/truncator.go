package truncate

import "github.com/randalmurphal/tracetrim/width"

// Truncator cuts text to a maximum width.
type Truncator struct {
	counter width.Counter
}

// New creates a truncator that counts width in runes.
func New() *Truncator {
	return &Truncator{
		counter: width.Default(),
	}
}

// WithCounter sets a custom width counter.
func (t *Truncator) WithCounter(counter width.Counter) *Truncator {
	if counter != nil {
		t.counter = counter
	}
	return t
}

// Counter returns the truncator's width counter.
func (t *Truncator) Counter() width.Counter {
	return t.counter
}

// Truncate reduces text to at most maxWidth units.
// Returns the (possibly unchanged) prefix and whether truncation occurred.
// A maxWidth <= 0 yields the empty string.
func (t *Truncator) Truncate(text string, maxWidth int) (string, bool) {
	if maxWidth > 0 && t.counter.FitsInLimit(text, maxWidth) {
		return text, false
	}
	result := t.counter.Cut(text, maxWidth)
	return result, len(result) < len(text)
}
