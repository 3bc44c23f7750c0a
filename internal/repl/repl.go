// Package repl runs the line-oriented analyzer on top of readline.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/cipherlab/internal/attack"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

const defaultPrompt = "cipherlab> "

var (
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgHiRed)
	titleColor   = color.New(color.FgHiMagenta)
	promptColor  = color.New(color.FgHiGreen)
	unknownColor = color.New(color.FgHiYellow)
)

// LineReader is the part of *readline.Instance the loop needs.
type LineReader interface {
	Readline() (string, error)
}

// REPL executes analyzer commands read line by line.
type REPL struct {
	interp  *attack.Interpreter
	out     io.Writer
	errOut  io.Writer
	onScore func(wordlist.ScoreResult)
}

// New returns a REPL writing command output to out and errors to errOut.
func New(in *attack.Interpreter, out, errOut io.Writer) *REPL {
	return &REPL{interp: in, out: out, errOut: errOut}
}

// OnScore registers fn to receive every dictionary score a command produces.
func (r *REPL) OnScore(fn func(wordlist.ScoreResult)) {
	r.onScore = fn
}

// Greet prints the command summary shown before the first prompt.
func (r *REPL) Greet() {
	titleColor.Fprintln(r.out, "Cipher analyzer")
	fmt.Fprintln(r.out, attack.Usage())
	fmt.Fprintln(r.out)
}

// Handle runs one line and reports whether the loop should stop.
func (r *REPL) Handle(line string) bool {
	res, err := r.interp.Exec(line)
	if err != nil {
		r.printErr(err)
		return false
	}
	if res.Score != nil && r.onScore != nil {
		r.onScore(*res.Score)
	}
	r.print(res.Output)
	return res.Quit
}

// Loop reads lines until quit, EOF or interrupt.
func (r *REPL) Loop(lines LineReader) error {
	for {
		line, err := lines.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nExiting analyzer. Goodbye.")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		if r.Handle(line) {
			return nil
		}
	}
}

// Run starts readline with the given history file and loops until quit.
// An empty history path keeps history in memory only.
func (r *REPL) Run(historyFile string) error {
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
			log.Warn().Err(err).Msg("failed to create history directory, history will not be saved")
			historyFile = ""
		}
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptColor.Sprint(defaultPrompt),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "q",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer func() {
		if cerr := rl.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close readline")
		}
	}()
	r.Greet()
	return r.Loop(rl)
}

func (r *REPL) print(output string) {
	if output == "" {
		return
	}
	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "==>"):
			okColor.Fprintln(r.out, line)
		case strings.HasPrefix(line, "  (warning:"):
			warnColor.Fprintln(r.out, line)
		case strings.HasPrefix(line, "---"):
			titleColor.Fprintln(r.out, line)
		default:
			fmt.Fprintln(r.out, line)
		}
	}
}

func (r *REPL) printErr(err error) {
	switch {
	case errors.Is(err, attack.ErrUnknownCommand):
		unknownColor.Fprintln(r.errOut, err)
	default:
		errColor.Fprintf(r.errOut, "Error: %v\n", err)
	}
}
