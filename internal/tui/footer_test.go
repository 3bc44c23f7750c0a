package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/cipherlab/internal/attack"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

const referenceCipher = "atthlvhqwxtkoteote"

func newTestModel(dict *wordlist.Dictionary) *Model {
	return NewModel(attack.NewInterpreter(attack.Load(referenceCipher, nil, dict)), nil)
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(wordlist.New([]string{"attack", "at", "dawn"}))
	m.interp.Session.Guess('h', 'a')
	m.lastScore = &wordlist.ScoreResult{Status: wordlist.StatusMatched, Score: 12}
	out := m.renderFooter()
	if !containsAll(out, []string{"Known 1/26", "Resolved 0/2 blocks", "Dictionary 3 words", "Score 12", "Freq unigram substitution"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterWithoutDictionary(t *testing.T) {
	m := newTestModel(nil)
	out := m.renderFooter()
	if !containsAll(out, []string{"Known 0/26", "Dictionary unavailable", "Score -"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
