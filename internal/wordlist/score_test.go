package wordlist

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFragmentWithoutWord(t *testing.T) {
	d := New([]string{"had", "confidential"})
	res := d.Score("___e?a?an", false)
	assert.Equal(t, StatusNoMatches, res.Status)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Words)
}

func TestScoreFragmentMatchCountsDouble(t *testing.T) {
	d := New([]string{"had", "confidential"})
	res := d.Score("___ehadan", false)
	assert.Equal(t, StatusMatched, res.Status)
	assert.Equal(t, 6, res.Score)
	assert.Equal(t, []string{"had"}, res.Words)
}

func TestScoreWholeTextPass(t *testing.T) {
	d := New([]string{"had", "confidential"})
	// "confidential" spans two blocks so only the joined pass sees it
	res := d.Score("___??conf ___idential", false)
	assert.Equal(t, 12, res.Score)
	assert.Equal(t, []string{"confidential"}, res.Words)

	both := d.Score("___ehadan ___??conf ___idential", false)
	assert.Equal(t, 6+12, both.Score)
	assert.Equal(t, []string{"confidential", "had"}, both.Words)
}

func TestScoreSkipsShortFragments(t *testing.T) {
	d := New([]string{"a"})
	// one known letter is not enough for the fragment pass
	res := d.Score("___a?????", false)
	assert.Equal(t, 1, res.Score)
	res = d.Score("___a?a???", false)
	assert.Equal(t, 2, res.Score)
}

func TestScoreTopTen(t *testing.T) {
	var entries []string
	text := "___"
	for i := 0; i < 12; i++ {
		w := fmt.Sprintf("%c%c", 'a'+i, 'a'+i)
		entries = append(entries, w)
		text += w
	}
	d := New(append(entries, "aabb"))
	res := d.Score(text, false)
	assert.Equal(t, 13, res.Total)
	assert.Len(t, res.Words, DefaultTop)
	assert.Equal(t, "aabb", res.Words[0])
	assert.True(t, res.Truncated())
	assert.Equal(t, 2*(12*2+4), res.Score)

	all := d.Score(text, true)
	assert.Len(t, all.Words, 13)
	assert.Equal(t, res.Score, all.Score)
	assert.Contains(t, res.String(), "(top 10)")
}

func TestScoreUnavailable(t *testing.T) {
	var d *Dictionary
	res := d.Score("anything", true)
	assert.Equal(t, StatusUnavailable, res.Status)
	assert.Equal(t, 0, res.Score)
	assert.Contains(t, res.String(), "Dictionary not loaded")
	assert.NotEqual(t, res.String(), New(nil).Score("x", false).String())
}

func TestScoreResultString(t *testing.T) {
	d := New([]string{"had", "an"})
	assert.Equal(t, "==> Word Score: 10. Found 2 words: [had, an]", d.Score("___ehadan", false).String())
}
