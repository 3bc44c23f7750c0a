// Package wordlist loads dictionaries and scores candidate plaintext against them.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/verte-zerg/cipherlab/internal/alphabet"
)

// ErrUnavailable reports that no dictionary could be loaded.
var ErrUnavailable = errors.New("dictionary unavailable")

// Dictionary is an immutable set of lowercase letter-only words.
type Dictionary struct {
	words []string
	set   map[string]struct{}
}

// New builds a dictionary from raw entries. Each entry is cleaned; empty
// results and duplicates are dropped.
func New(entries []string) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		word := Clean(entry)
		if word == "" {
			continue
		}
		if _, ok := d.set[word]; ok {
			continue
		}
		d.set[word] = struct{}{}
		d.words = append(d.words, word)
	}
	sort.Strings(d.words)
	return d
}

// Load reads one entry per line from path.
func Load(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("path", path).Msg("failed to close dictionary")
		}
	}()
	d, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
	return d, nil
}

// Parse reads newline-delimited entries from r.
func Parse(r io.Reader) (*Dictionary, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entries = append(entries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(entries), nil
}

// Clean lowercases and trims an entry and drops every non-letter.
func Clean(entry string) string {
	return alphabet.Normalize(strings.TrimSpace(entry))
}

// IsPlainWord reports whether word is already a clean dictionary entry.
func IsPlainWord(word string) bool {
	return word != "" && Clean(word) == word
}

// Size returns the number of distinct words.
func (d *Dictionary) Size() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Contains reports whether word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.set[word]
	return ok
}

// Words returns the words in lexical order.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.words...)
}
