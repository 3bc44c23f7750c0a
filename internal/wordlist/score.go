package wordlist

import (
	"fmt"
	"sort"
	"strings"
)

// Layout of the texts produced by the attack views.
const (
	BlockSeparator     = ' '
	UnknownMarker      = '?'
	MaskLen            = 3
	MinFragmentLetters = 2
	DefaultTop         = 10
)

// Status distinguishes the three kinds of zero and non-zero results.
type Status int

const (
	StatusMatched Status = iota
	StatusNoMatches
	StatusUnavailable
)

// ScoreResult is the outcome of scoring one text.
type ScoreResult struct {
	Status Status
	Score  int
	// Total is the number of distinct matched words, including hidden ones.
	Total int
	// Words are the matched words longest first, truncated unless showAll.
	Words []string
}

// Truncated reports whether Words hides some matches.
func (r ScoreResult) Truncated() bool {
	return len(r.Words) < r.Total
}

func (r ScoreResult) String() string {
	switch r.Status {
	case StatusUnavailable:
		return "==> Dictionary not loaded. Skipping validation."
	case StatusNoMatches:
		return "==> Word Score: 0. No dictionary words found."
	}
	label := fmt.Sprintf("Found %d words", r.Total)
	if r.Truncated() {
		label = fmt.Sprintf("Found %d words (top %d)", r.Total, len(r.Words))
	}
	return fmt.Sprintf("==> Word Score: %d. %s: [%s]", r.Score, label, strings.Join(r.Words, ", "))
}

// Score matches dictionary words against text in two passes. Words found
// inside a block's substitution fragment are worth twice their length,
// words found only in the joined letters of the whole text their length.
// A nil dictionary yields StatusUnavailable.
func (d *Dictionary) Score(text string, showAll bool) ScoreResult {
	if d == nil {
		return ScoreResult{Status: StatusUnavailable}
	}
	found := map[string]struct{}{}
	score := 0

	for _, block := range strings.Split(text, string(BlockSeparator)) {
		if len(block) <= MaskLen {
			continue
		}
		fragment := strings.ReplaceAll(block[MaskLen:], string(UnknownMarker), "")
		if len(fragment) < MinFragmentLetters {
			continue
		}
		for _, word := range d.words {
			if _, ok := found[word]; ok {
				continue
			}
			if strings.Contains(fragment, word) {
				found[word] = struct{}{}
				score += 2 * len(word)
			}
		}
	}

	joined := Clean(text)
	for _, word := range d.words {
		if _, ok := found[word]; ok {
			continue
		}
		if strings.Contains(joined, word) {
			found[word] = struct{}{}
			score += len(word)
		}
	}

	if len(found) == 0 {
		return ScoreResult{Status: StatusNoMatches}
	}
	words := make([]string, 0, len(found))
	for word := range found {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) == len(words[j]) {
			return words[i] < words[j]
		}
		return len(words[i]) > len(words[j])
	})
	total := len(words)
	if !showAll && len(words) > DefaultTop {
		words = words[:DefaultTop]
	}
	return ScoreResult{Status: StatusMatched, Score: score, Total: total, Words: words}
}
