package cipher

import (
	"strings"

	"github.com/verte-zerg/cipherlab/internal/alphabet"
)

// Cipher is a compiled Profile.
type Cipher struct {
	profile Profile
	codec   alphabet.Codec
	forward [alphabet.Size]byte
	inverse [256]byte
	padSet  [256]bool
	norm    alphabet.Normalizer
}

// New validates p and precomputes the substitution tables.
func New(p Profile) (*Cipher, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := &Cipher{profile: p, codec: alphabet.MustNew(p.Alphabet)}
	for i := 0; i < alphabet.Size; i++ {
		plain := p.Alphabet[i]
		enc := p.Table[i]
		c.forward[i] = enc
		c.inverse[enc] = plain
	}
	for i := 0; i < len(p.Padding); i++ {
		c.padSet[p.Padding[i]] = true
	}
	return c, nil
}

// MustNew is New that panics on an invalid profile.
func MustNew(p Profile) *Cipher {
	c, err := New(p)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns a cipher for DefaultProfile.
func Default() *Cipher {
	return MustNew(DefaultProfile())
}

// Profile returns the parameters the cipher was built from.
func (c *Cipher) Profile() Profile {
	return c.profile
}

// Codec returns the alphabet codec of the profile.
func (c *Cipher) Codec() alphabet.Codec {
	return c.codec
}

// WithNormalizer returns a copy of c that cleans input with n.
func (c *Cipher) WithNormalizer(n alphabet.Normalizer) *Cipher {
	cp := *c
	cp.norm = n
	return &cp
}

// Normalize cleans raw input the way Encrypt and Decrypt do.
func (c *Cipher) Normalize(raw string) string {
	return c.norm.Normalize(raw)
}

// Substitute maps a plaintext letter through the table.
func (c *Cipher) Substitute(ch byte) (byte, bool) {
	i, ok := c.codec.Index(ch)
	if !ok {
		return ch, false
	}
	return c.forward[i], true
}

// Unsubstitute maps a ciphertext letter back through the inverse table.
func (c *Cipher) Unsubstitute(ch byte) (byte, bool) {
	p := c.inverse[ch]
	if p == 0 {
		return ch, false
	}
	return p, true
}

// Pad appends the cyclic padding sequence until len is a multiple of BlockSize.
func (c *Cipher) Pad(clean string) string {
	missing := (BlockSize - len(clean)%BlockSize) % BlockSize
	if missing == 0 {
		return clean
	}
	var b strings.Builder
	b.Grow(len(clean) + missing)
	b.WriteString(clean)
	for i := 0; i < missing; i++ {
		b.WriteByte(c.profile.Padding[i%len(c.profile.Padding)])
	}
	return b.String()
}

// StripPadding removes any trailing run made only of padding letters.
// Genuine trailing x, y or z letters are removed as well.
func (c *Cipher) StripPadding(s string) string {
	end := len(s)
	for end > 0 && c.padSet[s[end-1]] {
		end--
	}
	return s[:end]
}
