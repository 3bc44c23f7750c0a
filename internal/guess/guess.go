// Package guess holds the analyst's partial hypothesis for inverting the
// substitution table.
package guess

import (
	"strings"

	"github.com/verte-zerg/cipherlab/internal/alphabet"
)

// Unknown is the marker rendered for a cipher letter without a guess.
const Unknown = '?'

// Pair is one rendered entry of the map.
type Pair struct {
	Cipher byte
	Plain  byte // Unknown when not guessed
}

// Map is an injective partial mapping cipher letter -> plain letter.
// The zero value is not usable; call New.
type Map struct {
	codec alphabet.Codec
	plain [alphabet.Size]byte // 0 means unknown
}

// New returns an empty map over the letters of codec.
func New(codec alphabet.Codec) *Map {
	return &Map{codec: codec}
}

// Valid reports whether ch can be used as a cipher or plain letter.
func (m *Map) Valid(ch byte) bool {
	return m.codec.Contains(ch)
}

// Guess records cipher -> plain. Any other cipher letter already claiming
// plain is reset to unknown and returned. Invalid letters are ignored.
func (m *Map) Guess(cipher, plain byte) []byte {
	ci, ok := m.codec.Index(cipher)
	if !ok || !m.codec.Contains(plain) {
		return nil
	}
	var cleared []byte
	for i, p := range m.plain {
		if p == plain && i != ci {
			m.plain[i] = 0
			cleared = append(cleared, m.codec.Letter(i))
		}
	}
	m.plain[ci] = plain
	return cleared
}

// Undo resets the guess for cipher. Invalid letters are ignored.
func (m *Map) Undo(cipher byte) {
	if ci, ok := m.codec.Index(cipher); ok {
		m.plain[ci] = 0
	}
}

// Reset clears every guess.
func (m *Map) Reset() {
	m.plain = [alphabet.Size]byte{}
}

// Lookup returns the guessed plain letter for cipher.
func (m *Map) Lookup(cipher byte) (byte, bool) {
	ci, ok := m.codec.Index(cipher)
	if !ok || m.plain[ci] == 0 {
		return 0, false
	}
	return m.plain[ci], true
}

// Known returns the number of cipher letters with a guess.
func (m *Map) Known() int {
	n := 0
	for _, p := range m.plain {
		if p != 0 {
			n++
		}
	}
	return n
}

// Render lists every cipher letter in alphabet order with its guess.
func (m *Map) Render() []Pair {
	out := make([]Pair, alphabet.Size)
	for i := range out {
		p := m.plain[i]
		if p == 0 {
			p = Unknown
		}
		out[i] = Pair{Cipher: m.codec.Letter(i), Plain: p}
	}
	return out
}

// Format renders the map as "a -> ?" cells, perLine entries per row.
func (m *Map) Format(perLine int) string {
	if perLine <= 0 {
		perLine = alphabet.Size
	}
	var b strings.Builder
	for i, pair := range m.Render() {
		if i > 0 {
			if i%perLine == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteByte(pair.Cipher)
		b.WriteString(" -> ")
		b.WriteByte(pair.Plain)
	}
	return b.String()
}

// Snapshot encodes the map as 26 bytes in alphabet order, Unknown for gaps.
func (m *Map) Snapshot() string {
	b := make([]byte, alphabet.Size)
	for i, pair := range m.Render() {
		b[i] = pair.Plain
	}
	return string(b)
}

// Restore replaces the map with a Snapshot. Entries that are not valid
// letters are treated as unknown; later duplicates win.
func (m *Map) Restore(snapshot string) {
	m.Reset()
	for i := 0; i < len(snapshot) && i < alphabet.Size; i++ {
		if m.codec.Contains(snapshot[i]) {
			m.Guess(m.codec.Letter(i), snapshot[i])
		}
	}
}
