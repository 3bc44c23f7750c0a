// Package cipher implements the block cipher that mixes a keyed Caesar
// segment with a monoalphabetic substitution segment.
package cipher

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/cipherlab/internal/alphabet"
)

// Block geometry shared by every profile.
const (
	BlockSize    = 9
	CaesarLen    = 3
	SubstLen     = BlockSize - CaesarLen
	DefaultTable = "hilwmkbdpcvazusjgrnqyxfote"
	DefaultPad   = "xyz"
)

// ErrInvalidProfile reports a profile that cannot drive the cipher.
var ErrInvalidProfile = errors.New("invalid cipher profile")

// Profile holds the fixed parameters both ends must agree on.
// Table[i] is the substitution for Alphabet[i].
type Profile struct {
	Alphabet string
	Table    string
	Padding  string
}

// DefaultProfile returns the parameters of the reference cipher.
func DefaultProfile() Profile {
	return Profile{
		Alphabet: alphabet.Latin,
		Table:    DefaultTable,
		Padding:  DefaultPad,
	}
}

// Validate checks that the alphabet and table are permutations of a..z and
// that every padding letter belongs to the alphabet.
func (p Profile) Validate() error {
	if _, err := alphabet.New(p.Alphabet); err != nil {
		return fmt.Errorf("%w: alphabet: %v", ErrInvalidProfile, err)
	}
	if _, err := alphabet.New(p.Table); err != nil {
		return fmt.Errorf("%w: substitution table: %v", ErrInvalidProfile, err)
	}
	if p.Padding == "" {
		return fmt.Errorf("%w: padding must not be empty", ErrInvalidProfile)
	}
	for i := 0; i < len(p.Padding); i++ {
		ch := p.Padding[i]
		if ch < 'a' || ch > 'z' {
			return fmt.Errorf("%w: padding letter %q outside the alphabet", ErrInvalidProfile, ch)
		}
	}
	return nil
}
