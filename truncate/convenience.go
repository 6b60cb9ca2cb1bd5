package truncate

import "github.com/randalmurphal/tracetrim/width"

// Prefix returns the first maxWidth runes of text.
func Prefix(text string, maxWidth int) string {
	return width.NewRuneCounter().Cut(text, maxWidth)
}

// PrefixBytes returns the first maxWidth bytes of text.
func PrefixBytes(text string, maxWidth int) string {
	return width.NewByteCounter().Cut(text, maxWidth)
}
