package cipher

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cipherlab/internal/alphabet"
)

func TestEncryptReferenceScenario(t *testing.T) {
	c := Default()
	assert.Equal(t, "attackatdawnxyzxyz", c.Pad("attackatdawn"))

	enc := c.Encrypt("Attack at dawn!")
	assert.Equal(t, "atthlvhqwxtkoteote", enc)
	assert.Len(t, enc, 18)

	assert.Equal(t, "attackatdawnxyzxyz", c.DecryptRaw(enc))
	assert.Equal(t, "attackatdawn", c.Decrypt(enc))
}

func TestRoundTripMultipleOfBlock(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	c := Default()
	for n := 1; n <= 20; n++ {
		s := randomLetters(rnd, n*BlockSize)
		assert.Equal(t, s, c.DecryptRaw(c.Encrypt(s)), "length %d", len(s))
	}
}

func TestRoundTripCustomProfile(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for trial := 0; trial < 10; trial++ {
		p := Profile{
			Alphabet: shuffle(rnd, alphabet.Latin),
			Table:    shuffle(rnd, alphabet.Latin),
			Padding:  "q",
		}
		c, err := New(p)
		require.NoError(t, err)
		s := randomLetters(rnd, 5*BlockSize)
		assert.Equal(t, s, c.DecryptRaw(c.Encrypt(s)))
	}
}

func TestCaesarShiftComesFromSubstitutionPlaintext(t *testing.T) {
	c := Default()
	// shift letter 'd' moves the caesar segment by 3
	enc := c.Encrypt("abcdefghi")
	assert.Equal(t, "def", enc[:CaesarLen])
	assert.Equal(t, "wmkbdp", enc[CaesarLen:])
}

func TestDecryptPassesShortFinalBlock(t *testing.T) {
	c := Default()
	enc := c.Encrypt("abcdefghi")
	got := c.DecryptRaw(enc + "qrst")
	assert.Equal(t, "abcdefghiqrst", got)

	var traces []BlockTrace
	c.DecryptWithOptions(enc+"qr", Options{Trace: func(bt BlockTrace) { traces = append(traces, bt) }})
	require.Len(t, traces, 2)
	assert.False(t, traces[0].Partial)
	assert.True(t, traces[1].Partial)
	assert.Equal(t, "qr", traces[1].Output)
}

func TestStripPaddingIsGreedy(t *testing.T) {
	c := Default()
	assert.Equal(t, "bo", c.StripPadding("boxyzx"))
	assert.Equal(t, "", c.StripPadding("xyz"))
	assert.Equal(t, "abc", c.StripPadding("abc"))
	// genuine trailing letters are lost too
	assert.Equal(t, "rela", c.Decrypt(c.Encrypt("relax")))
}

func TestEncryptEmpty(t *testing.T) {
	c := Default()
	assert.Equal(t, "", c.Encrypt(""))
	assert.Equal(t, "", c.Decrypt("1234"))
}

func TestEncryptTrace(t *testing.T) {
	c := Default()
	var traces []BlockTrace
	c.EncryptWithOptions("attackatdawn", Options{Trace: func(bt BlockTrace) { traces = append(traces, bt) }})
	require.Len(t, traces, 2)
	assert.Equal(t, byte('x'), traces[1].ShiftLetter)
	assert.Equal(t, 23, traces[1].Shift)
	assert.Len(t, traces[1].Steps, BlockSize)
	assert.Equal(t, "xtkoteote", traces[1].Output)
	assert.Equal(t, 9, traces[1].Offset)
}

func TestProfileValidate(t *testing.T) {
	assert.NoError(t, DefaultProfile().Validate())

	bad := []Profile{
		{Alphabet: "abc", Table: DefaultTable, Padding: DefaultPad},
		{Alphabet: alphabet.Latin, Table: strings.Repeat("a", 26), Padding: DefaultPad},
		{Alphabet: alphabet.Latin, Table: DefaultTable, Padding: ""},
		{Alphabet: alphabet.Latin, Table: DefaultTable, Padding: "x1"},
	}
	for _, p := range bad {
		_, err := New(p)
		assert.ErrorIs(t, err, ErrInvalidProfile)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add("attackatdawn")
	f.Add("The quick brown fox jumps over the lazy dog")
	f.Fuzz(func(t *testing.T, raw string) {
		c := Default()
		clean := c.Pad(alphabet.Normalize(raw))
		if got := c.DecryptRaw(c.Encrypt(clean)); got != clean {
			t.Fatalf("round trip mismatch: %q != %q", got, clean)
		}
	})
}

func randomLetters(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rnd.Intn(26))
	}
	return string(b)
}

func shuffle(rnd *rand.Rand, s string) string {
	b := []byte(s)
	rnd.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
	return string(b)
}
