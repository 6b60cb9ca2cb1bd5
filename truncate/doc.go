// Package truncate cuts trace lines down to a fixed width.
//
// Truncation keeps the head of a line and drops the tail. Nothing is appended
// and nothing is padded: the result is always a prefix of the input, and a
// line that already fits is returned unchanged.
//
// # Basic Usage
//
// Create a truncator and truncate text:
//
//	tr := truncate.New()
//	result, truncated := tr.Truncate("C000  4C F5 C5  JMP $C5F5 ...", 73)
//
// # Width Units
//
// By default width is counted in runes. Byte counting is available through a
// custom counter:
//
//	tr := truncate.New().WithCounter(width.NewByteCounter())
//
// # Convenience Functions
//
// For simple one-off truncation:
//
//	result := truncate.Prefix(text, 73)   // first 73 runes
package truncate
