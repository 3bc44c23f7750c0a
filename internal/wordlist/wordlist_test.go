package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCleansEntries(t *testing.T) {
	d := New([]string{" Hello ", "hello", "don't", "", "123", "Co-op"})
	assert.Equal(t, []string{"coop", "dont", "hello"}, d.Words())
	assert.True(t, d.Contains("dont"))
	assert.False(t, d.Contains("don't"))
	assert.Equal(t, 3, d.Size())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	require.NoError(t, os.WriteFile(path, []byte("had\nConfidential\n\n  \nhad\n"), 0o644))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"confidential", "had"}, d.Words())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIsPlainWord(t *testing.T) {
	assert.True(t, IsPlainWord("hello"))
	for _, word := range []string{"", "Hello", "résumé", "co-op"} {
		assert.False(t, IsPlainWord(word), word)
	}
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	assert.Equal(t, 0, d.Size())
	assert.False(t, d.Contains("a"))
	assert.Nil(t, d.Words())
}

func TestParseLongLines(t *testing.T) {
	d, err := Parse(strings.NewReader("alpha\r\nbeta\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, d.Words())
}
