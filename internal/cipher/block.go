package cipher

import "strings"

// StepKind tells which segment a Step belongs to.
type StepKind int

const (
	StepCaesar StepKind = iota
	StepSubstitution
)

// Step is one letter transformation inside a block.
type Step struct {
	Kind StepKind
	From byte
	To   byte
}

// BlockTrace describes how one block was processed.
type BlockTrace struct {
	Index        int
	Offset       int
	Input        string
	Caesar       string
	Substitution string
	ShiftLetter  byte
	Shift        int
	Steps        []Step
	Output       string
	// Partial marks a short final block that was passed through untouched.
	Partial bool
}

// Options tunes a single Encrypt or Decrypt call.
type Options struct {
	Trace func(BlockTrace)
}

func (o Options) emit(t BlockTrace) {
	if o.Trace != nil {
		o.Trace(t)
	}
}

// Encrypt normalizes plain, pads it and encrypts block by block.
func (c *Cipher) Encrypt(plain string) string {
	return c.EncryptWithOptions(plain, Options{})
}

// EncryptWithOptions is Encrypt with a per-block trace hook.
func (c *Cipher) EncryptWithOptions(plain string, opts Options) string {
	text := c.Pad(c.Normalize(plain))
	var out strings.Builder
	out.Grow(len(text))
	for idx, off := 0, 0; off < len(text); idx, off = idx+1, off+BlockSize {
		block := text[off : off+BlockSize]
		shiftLetter := block[CaesarLen]
		shift, _ := c.codec.Index(shiftLetter)

		enc := make([]byte, BlockSize)
		var steps []Step
		if opts.Trace != nil {
			steps = make([]Step, 0, BlockSize)
		}
		for i := 0; i < CaesarLen; i++ {
			enc[i], _ = c.codec.Shift(block[i], shift)
			if steps != nil {
				steps = append(steps, Step{Kind: StepCaesar, From: block[i], To: enc[i]})
			}
		}
		for i := CaesarLen; i < BlockSize; i++ {
			enc[i], _ = c.Substitute(block[i])
			if steps != nil {
				steps = append(steps, Step{Kind: StepSubstitution, From: block[i], To: enc[i]})
			}
		}
		out.Write(enc)
		opts.emit(BlockTrace{
			Index:        idx,
			Offset:       off,
			Input:        block,
			Caesar:       block[:CaesarLen],
			Substitution: block[CaesarLen:],
			ShiftLetter:  shiftLetter,
			Shift:        shift,
			Steps:        steps,
			Output:       string(enc),
		})
	}
	return out.String()
}

// Decrypt inverts Encrypt and strips trailing padding letters.
func (c *Cipher) Decrypt(cipherText string) string {
	return c.DecryptWithOptions(cipherText, Options{})
}

// DecryptWithOptions is Decrypt with a per-block trace hook.
func (c *Cipher) DecryptWithOptions(cipherText string, opts Options) string {
	return c.StripPadding(c.decryptBlocks(c.Normalize(cipherText), opts))
}

// DecryptRaw decrypts without stripping padding.
func (c *Cipher) DecryptRaw(cipherText string) string {
	return c.DecryptRawWithOptions(cipherText, Options{})
}

// DecryptRawWithOptions is DecryptRaw with a per-block trace hook.
func (c *Cipher) DecryptRawWithOptions(cipherText string, opts Options) string {
	return c.decryptBlocks(c.Normalize(cipherText), opts)
}

func (c *Cipher) decryptBlocks(text string, opts Options) string {
	var out strings.Builder
	out.Grow(len(text))
	for idx, off := 0, 0; off < len(text); idx, off = idx+1, off+BlockSize {
		if off+BlockSize > len(text) {
			rest := text[off:]
			out.WriteString(rest)
			opts.emit(BlockTrace{Index: idx, Offset: off, Input: rest, Output: rest, Partial: true})
			break
		}
		block := text[off : off+BlockSize]

		dec := make([]byte, BlockSize)
		var steps []Step
		if opts.Trace != nil {
			steps = make([]Step, 0, BlockSize)
		}
		for i := CaesarLen; i < BlockSize; i++ {
			dec[i], _ = c.Unsubstitute(block[i])
			if steps != nil {
				steps = append(steps, Step{Kind: StepSubstitution, From: block[i], To: dec[i]})
			}
		}
		shiftLetter := dec[CaesarLen]
		shift, _ := c.codec.Index(shiftLetter)
		for i := 0; i < CaesarLen; i++ {
			dec[i], _ = c.codec.Shift(block[i], -shift)
			if steps != nil {
				steps = append(steps, Step{Kind: StepCaesar, From: block[i], To: dec[i]})
			}
		}
		out.Write(dec)
		opts.emit(BlockTrace{
			Index:        idx,
			Offset:       off,
			Input:        block,
			Caesar:       block[:CaesarLen],
			Substitution: block[CaesarLen:],
			ShiftLetter:  shiftLetter,
			Shift:        shift,
			Steps:        steps,
			Output:       string(dec),
		})
	}
	return out.String()
}
