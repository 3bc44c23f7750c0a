package repl

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cipherlab/internal/attack"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

const referenceCipher = "atthlvhqwxtkoteote"

type scriptedLines struct {
	lines []string
	err   error
}

func (s *scriptedLines) Readline() (string, error) {
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func newREPL(dict *wordlist.Dictionary) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	in := attack.NewInterpreter(attack.Load(referenceCipher, nil, dict))
	return New(in, &out, &errOut), &out, &errOut
}

func TestLoopRunsUntilQuit(t *testing.T) {
	r, out, errOut := newREPL(nil)
	lines := &scriptedLines{lines: []string{"g h a", "q", "g l c"}}
	require.NoError(t, r.Loop(lines))

	assert.Contains(t, out.String(), "==> OK. Guessing cipher 'h' = plain 'a'")
	assert.Contains(t, out.String(), "Exiting analyzer. Goodbye.")
	assert.Empty(t, errOut.String())
	assert.Len(t, lines.lines, 1, "lines after quit must not be read")
	_, ok := r.interp.Session.GuessMap().Lookup('l')
	assert.False(t, ok)
}

func TestLoopStopsOnEOFAndInterrupt(t *testing.T) {
	for _, stop := range []error{io.EOF, readline.ErrInterrupt} {
		r, out, _ := newREPL(nil)
		require.NoError(t, r.Loop(&scriptedLines{err: stop}))
		assert.Contains(t, out.String(), "Goodbye.")
	}
}

func TestLoopReturnsReadErrors(t *testing.T) {
	r, _, _ := newREPL(nil)
	boom := errors.New("boom")
	err := r.Loop(&scriptedLines{err: boom})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestHandleReportsErrorsWithoutStopping(t *testing.T) {
	r, _, errOut := newREPL(nil)
	assert.False(t, r.Handle("zap"))
	assert.Contains(t, errOut.String(), "unknown command")

	errOut.Reset()
	assert.False(t, r.Handle("g 1 a"))
	assert.Contains(t, errOut.String(), "Error: invalid arguments")
}

func TestHandleForwardsScores(t *testing.T) {
	r, out, _ := newREPL(wordlist.New([]string{"attack"}))
	var scores []wordlist.ScoreResult
	r.OnScore(func(s wordlist.ScoreResult) { scores = append(scores, s) })

	assert.False(t, r.Handle("v"))
	require.Len(t, scores, 1)
	assert.Contains(t, out.String(), "--- Validating partial substitution text ---")

	assert.False(t, r.Handle("m"))
	assert.Len(t, scores, 1)
}

func TestGreetListsCommands(t *testing.T) {
	r, out, _ := newREPL(nil)
	r.Greet()
	assert.Contains(t, out.String(), "Commands:")
	assert.Contains(t, out.String(), "g <c> <p>")
}
