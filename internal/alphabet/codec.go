// Package alphabet maps cipher letters to dense indices and normalizes raw text.
package alphabet

import (
	"errors"
	"fmt"
)

// Size is the number of letters in every supported alphabet.
const Size = 26

// Latin is the plain lowercase alphabet in natural order.
const Latin = "abcdefghijklmnopqrstuvwxyz"

// ErrInvalidAlphabet reports an alphabet that is not a permutation of a..z.
var ErrInvalidAlphabet = errors.New("invalid alphabet")

// Codec maps the letters of an alphabet to indices 0..25 and back.
type Codec struct {
	letters string
	index   [256]int8
}

// New builds a codec for letters. The string must hold each of a..z exactly once.
func New(letters string) (Codec, error) {
	c := Codec{letters: letters}
	for i := range c.index {
		c.index[i] = -1
	}
	if len(letters) != Size {
		return Codec{}, fmt.Errorf("%w: expected %d letters, got %d", ErrInvalidAlphabet, Size, len(letters))
	}
	for i := 0; i < len(letters); i++ {
		ch := letters[i]
		if ch < 'a' || ch > 'z' {
			return Codec{}, fmt.Errorf("%w: %q is not a lowercase latin letter", ErrInvalidAlphabet, ch)
		}
		if c.index[ch] >= 0 {
			return Codec{}, fmt.Errorf("%w: duplicate letter %q", ErrInvalidAlphabet, ch)
		}
		c.index[ch] = int8(i)
	}
	return c, nil
}

// MustNew is New that panics on error. Intended for package-level constants.
func MustNew(letters string) Codec {
	c, err := New(letters)
	if err != nil {
		panic(err)
	}
	return c
}

// Index returns the position of ch in the alphabet.
func (c Codec) Index(ch byte) (int, bool) {
	i := c.index[ch]
	if i < 0 {
		return 0, false
	}
	return int(i), true
}

// Letter returns the letter at position i, wrapping modulo 26.
func (c Codec) Letter(i int) byte {
	i %= Size
	if i < 0 {
		i += Size
	}
	return c.letters[i]
}

// Contains reports whether ch belongs to the alphabet.
func (c Codec) Contains(ch byte) bool {
	return c.index[ch] >= 0
}

// Letters returns the alphabet in codec order.
func (c Codec) Letters() string {
	return c.letters
}

// Shift moves ch forward by n positions (backward for negative n).
func (c Codec) Shift(ch byte, n int) (byte, bool) {
	i, ok := c.Index(ch)
	if !ok {
		return ch, false
	}
	return c.Letter(i + n), true
}
