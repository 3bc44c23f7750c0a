// Package attack runs an interactive recovery of ciphertext produced by the
// block cipher: guesses for the substitution segment drive both a partial
// view and a full reconstruction through the derived Caesar shift.
package attack

import (
	"strings"

	"github.com/verte-zerg/cipherlab/internal/cipher"
	"github.com/verte-zerg/cipherlab/internal/guess"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

// MaskChar hides Caesar positions in the context view.
const MaskChar = '_'

// CellState tells a resolved letter apart from one that could not be
// resolved and a Caesar letter still waiting for its block shift.
type CellState uint8

const (
	CellPending CellState = iota
	CellUnknown
	CellKnown
)

// Cell is one plaintext position of an attempt.
type Cell struct {
	State  CellState
	Letter byte
}

// Byte renders the cell, guess.Unknown unless the letter is known.
func (c Cell) Byte() byte {
	if c.State == CellKnown {
		return c.Letter
	}
	return guess.Unknown
}

// BlockAttempt is the reconstruction of one block.
type BlockAttempt struct {
	Offset       int
	Caesar       []Cell
	Substitution []Cell
	// ShiftKnown is set when every substitution position resolved.
	ShiftKnown bool
	Shift      int
}

// Resolved reports whether every position of the block is known.
func (b BlockAttempt) Resolved() bool {
	if !b.ShiftKnown {
		return false
	}
	for _, c := range b.Caesar {
		if c.State != CellKnown {
			return false
		}
	}
	return true
}

func (b BlockAttempt) String() string {
	out := make([]byte, 0, len(b.Caesar)+len(b.Substitution))
	for _, c := range b.Caesar {
		out = append(out, c.Byte())
	}
	for _, c := range b.Substitution {
		out = append(out, c.Byte())
	}
	return string(out)
}

// Decryptor builds views of clean ciphertext through a guess map. It keeps
// no state between calls.
type Decryptor struct {
	c *cipher.Cipher
}

// NewDecryptor returns a Decryptor for the block layout and alphabet of c.
func NewDecryptor(c *cipher.Cipher) Decryptor {
	return Decryptor{c: c}
}

// ContextView masks every Caesar segment and shows the current guess for
// each substitution letter. Blocks are separated by a single space.
func (d Decryptor) ContextView(clean string, m *guess.Map) string {
	var b strings.Builder
	b.Grow(len(clean) + len(clean)/cipher.BlockSize)
	for off := 0; off < len(clean); off += cipher.BlockSize {
		if off > 0 {
			b.WriteByte(wordlist.BlockSeparator)
		}
		b.WriteString(strings.Repeat(string(MaskChar), cipher.CaesarLen))
		end := min(off+cipher.BlockSize, len(clean))
		for i := off + cipher.CaesarLen; i < end; i++ {
			if p, ok := m.Lookup(clean[i]); ok {
				b.WriteByte(p)
			} else {
				b.WriteByte(guess.Unknown)
			}
		}
	}
	return b.String()
}

// Attempt reconstructs every block. The substitution segment is resolved
// through m; only a fully resolved, full-length segment yields the shift
// that unlocks the Caesar segment.
func (d Decryptor) Attempt(clean string, m *guess.Map) []BlockAttempt {
	codec := d.c.Codec()
	var blocks []BlockAttempt
	for off := 0; off < len(clean); off += cipher.BlockSize {
		end := min(off+cipher.BlockSize, len(clean))
		caesarEnd := min(off+cipher.CaesarLen, end)
		blk := BlockAttempt{
			Offset: off,
			Caesar: make([]Cell, caesarEnd-off),
		}

		complete := end-off == cipher.BlockSize
		for i := caesarEnd; i < end; i++ {
			cell := Cell{State: CellUnknown}
			if p, ok := m.Lookup(clean[i]); ok {
				cell = Cell{State: CellKnown, Letter: p}
			} else {
				complete = false
			}
			blk.Substitution = append(blk.Substitution, cell)
		}
		if complete {
			blk.Shift, blk.ShiftKnown = codec.Index(blk.Substitution[0].Letter)
		}

		for i := range blk.Caesar {
			if !blk.ShiftKnown {
				blk.Caesar[i] = Cell{State: CellPending}
				continue
			}
			p, ok := codec.Shift(clean[off+i], -blk.Shift)
			if !ok {
				blk.Caesar[i] = Cell{State: CellUnknown}
				continue
			}
			blk.Caesar[i] = Cell{State: CellKnown, Letter: p}
		}
		blocks = append(blocks, blk)
	}
	return blocks
}

// FullAttempt renders Attempt with a space between blocks.
func (d Decryptor) FullAttempt(clean string, m *guess.Map) string {
	blocks := d.Attempt(clean, m)
	parts := make([]string, len(blocks))
	for i, blk := range blocks {
		parts[i] = blk.String()
	}
	return strings.Join(parts, string(wordlist.BlockSeparator))
}
