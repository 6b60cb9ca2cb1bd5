// Package width measures and cuts text by a configurable width unit.
//
// A trace line's width can be measured in Unicode code points (runes) or in
// raw bytes. For ASCII traces the two agree; they differ only when a line
// carries multi-byte UTF-8 sequences.
//
// # Counter
//
// The Counter interface provides width counting and prefix cutting:
//
//	c := width.NewRuneCounter()
//	n := c.Count("LDA #$00")        // 8
//	fits := c.FitsInLimit(line, 73) // true if <= 73 runes
//	head := c.Cut(line, 73)         // longest prefix of at most 73 runes
//
// Cut always returns a prefix of its input. The rune counter never splits a
// multi-byte sequence; bytes that are not valid UTF-8 count as one unit each
// and are passed through unchanged.
//
// # Units
//
// Parse maps a unit name from configuration to a Counter:
//
//	c, err := width.Parse("bytes")
package width
