// Package generator builds practice plaintext from dictionary words.
package generator

import (
	"errors"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// DefaultPunctSet is used when Options.PunctSet is empty.
const DefaultPunctSet = ".,;:!?"

// Options shape the generated text.
type Options struct {
	Words int
	// CapsPct is the chance a word is capitalized, 0..1.
	CapsPct float64
	// PunctPct is the chance a word is followed by punctuation, 0..1.
	PunctPct float64
	PunctSet string
}

// Generator produces randomized plaintext.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible samples.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate picks opts.Words words uniformly and applies caps and
// punctuation. The result is joined by spaces.
func (g *Generator) Generate(words []string, opts Options) (string, error) {
	if len(words) == 0 {
		return "", errors.New("no words to sample from")
	}
	if opts.Words <= 0 {
		return "", errors.New("word count must be greater than 0")
	}
	punct := []rune(opts.PunctSet)
	if len(punct) == 0 {
		punct = []rune(DefaultPunctSet)
	}
	out := make([]string, 0, opts.Words)
	for i := 0; i < opts.Words; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, opts.CapsPct)
		word = applyPunct(g.rnd, word, opts.PunctPct, punct)
		out = append(out, word)
	}
	return strings.Join(out, " "), nil
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
