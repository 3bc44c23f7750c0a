package alphabet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases raw and drops everything that is not a..z.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		if ch >= 'a' && ch <= 'z' {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// Normalizer configures how raw text becomes clean text.
type Normalizer struct {
	// FoldAccents strips combining marks first so that "é" counts as "e".
	FoldAccents bool
}

// Normalize applies the configured folding followed by the package Normalize.
func (n Normalizer) Normalize(raw string) string {
	if !n.FoldAccents {
		return Normalize(raw)
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, raw)
	if err != nil {
		return Normalize(raw)
	}
	return Normalize(folded)
}
