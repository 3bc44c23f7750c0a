package attack

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/verte-zerg/cipherlab/internal/cipher"
	"github.com/verte-zerg/cipherlab/internal/guess"
	"github.com/verte-zerg/cipherlab/internal/stats"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

// ErrNotLoaded reports that no ciphertext is loaded.
var ErrNotLoaded = errors.New("ciphertext not loaded")

// Op names a change to the guess map.
type Op string

const (
	OpGuess Op = "guess"
	OpUndo  Op = "undo"
	OpReset Op = "reset"
)

// Event is one change to the guess map, as journaled for resume.
type Event struct {
	Op     Op
	Cipher byte
	Plain  byte
}

// Session owns one loaded ciphertext, the dictionary and the analyst's
// guesses. It is not safe for concurrent use.
type Session struct {
	cipher   *cipher.Cipher
	dec      Decryptor
	rawLen   int
	clean    string
	dict     *wordlist.Dictionary
	guesses  *guess.Map
	analyzer stats.Analyzer
	observer func(Event)
}

// Load normalizes raw and starts a session. A nil cipher selects the
// default profile; a nil dictionary disables validation.
func Load(raw string, c *cipher.Cipher, dict *wordlist.Dictionary) *Session {
	if c == nil {
		c = cipher.Default()
	}
	return &Session{
		cipher:  c,
		dec:     NewDecryptor(c),
		rawLen:  len(raw),
		clean:   c.Normalize(raw),
		dict:    dict,
		guesses: guess.New(c.Codec()),
		analyzer: stats.Analyzer{
			Letters: c.Codec().Letters(),
		},
	}
}

// LoadFile reads the ciphertext at path and starts a session.
func LoadFile(path string, c *cipher.Cipher, dict *wordlist.Dictionary) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrNotLoaded, path, err)
	}
	return Load(string(data), c, dict), nil
}

// WithAnalyzer replaces the frequency analyzer. The letters always follow
// the session alphabet.
func (s *Session) WithAnalyzer(a stats.Analyzer) *Session {
	a.Letters = s.cipher.Codec().Letters()
	s.analyzer = a
	return s
}

// Observe registers fn to receive every change made through Guess, Undo
// and Reset. Replay does not notify.
func (s *Session) Observe(fn func(Event)) {
	s.observer = fn
}

func (s *Session) notify(e Event) {
	if s.observer != nil {
		s.observer(e)
	}
}

// Cipher returns the cipher the session decrypts with.
func (s *Session) Cipher() *cipher.Cipher { return s.cipher }

// RawLength returns the byte length of the text before normalization.
func (s *Session) RawLength() int { return s.rawLen }

// CleanText returns the normalized ciphertext.
func (s *Session) CleanText() string { return s.clean }

// DictionaryLoaded reports whether validation can run.
func (s *Session) DictionaryLoaded() bool { return s.dict != nil }

// DictionarySize returns the number of dictionary words.
func (s *Session) DictionarySize() int { return s.dict.Size() }

// GuessMap returns the live guess map.
func (s *Session) GuessMap() *guess.Map { return s.guesses }

// Guess records cipher -> plain and returns the cipher letters whose claim
// on plain was cleared. Letters outside the alphabet are ignored.
func (s *Session) Guess(cipherLetter, plain byte) []byte {
	if !s.guesses.Valid(cipherLetter) || !s.guesses.Valid(plain) {
		return nil
	}
	cleared := s.guesses.Guess(cipherLetter, plain)
	s.notify(Event{Op: OpGuess, Cipher: cipherLetter, Plain: plain})
	return cleared
}

// Undo forgets the guess for cipherLetter.
func (s *Session) Undo(cipherLetter byte) {
	if !s.guesses.Valid(cipherLetter) {
		return
	}
	s.guesses.Undo(cipherLetter)
	s.notify(Event{Op: OpUndo, Cipher: cipherLetter})
}

// Reset forgets every guess.
func (s *Session) Reset() {
	s.guesses.Reset()
	s.notify(Event{Op: OpReset})
}

// Replay applies journaled events in order without notifying.
func (s *Session) Replay(events []Event) {
	for _, e := range events {
		switch e.Op {
		case OpGuess:
			s.guesses.Guess(e.Cipher, e.Plain)
		case OpUndo:
			s.guesses.Undo(e.Cipher)
		case OpReset:
			s.guesses.Reset()
		}
	}
}

// ContextView renders the substitution segments through the guess map
// with the Caesar segments masked.
func (s *Session) ContextView() string {
	return s.dec.ContextView(s.clean, s.guesses)
}

// Attempt reconstructs every block with the current guesses.
func (s *Session) Attempt() []BlockAttempt {
	return s.dec.Attempt(s.clean, s.guesses)
}

// FullAttempt renders Attempt.
func (s *Session) FullAttempt() string {
	return s.dec.FullAttempt(s.clean, s.guesses)
}

// Validate scores text against the dictionary.
func (s *Session) Validate(text string, showAll bool) wordlist.ScoreResult {
	return s.dict.Score(text, showAll)
}

// Frequency counts n-grams of the clean text, restricted to seg when set.
func (s *Session) Frequency(kind stats.Kind, seg *stats.Segment) *stats.Table {
	t, err := s.FrequencyContext(context.Background(), kind, seg)
	if err != nil {
		return stats.NewTable()
	}
	return t
}

// FrequencyContext is Frequency with cancellation for parallel counting.
func (s *Session) FrequencyContext(ctx context.Context, kind stats.Kind, seg *stats.Segment) (*stats.Table, error) {
	return s.analyzer.CountContext(ctx, s.clean, kind, seg)
}

// Suggest pairs the most frequent substitution-segment letters with the
// most frequent English letters. The guess map is not touched.
func (s *Session) Suggest(n int) []stats.Suggestion {
	seg := stats.SubstitutionSegment
	return stats.SuggestMapping(s.Frequency(stats.Unigram, &seg), n)
}
