package attack

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/cipherlab/internal/stats"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

var (
	// ErrUnknownCommand is returned for a command letter Exec does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned for a known command with malformed arguments.
	ErrUsage = errors.New("invalid arguments")
)

// GuessMapPerLine is the number of map cells per rendered row.
const GuessMapPerLine = 13

// Result is the outcome of one command.
type Result struct {
	Output string
	// Quit is set by the quit command.
	Quit bool
	// Mutated is set when the guess map changed.
	Mutated bool
	// Score is set by commands that ran a validation.
	Score *wordlist.ScoreResult
}

// Interpreter executes the line-oriented attack commands against a session.
type Interpreter struct {
	Session *Session
	// Top limits frequency charts; all entries when zero.
	Top int
	// Render draws a frequency chart; stats.RenderBars when nil.
	Render func(w io.Writer, title string, t *stats.Table, top int) error
}

// NewInterpreter returns an Interpreter showing every letter in charts.
func NewInterpreter(s *Session) *Interpreter {
	return &Interpreter{Session: s, Top: 26}
}

// Usage lists the commands Exec understands.
func Usage() string {
	return strings.Join([]string{
		"Commands:",
		"  g <c> <p>   guess cipher letter c is plain letter p (g h e)",
		"  u <c>       undo the guess for cipher letter c",
		"  reset       clear every guess",
		"  m           show the guess map",
		"  c           show the partial substitution text",
		"  r           reshow the substitution segment frequencies",
		"  f <kind> [caesar|substitution|<bs> <start> <len>]",
		"              frequencies of unigram, digram or trigram",
		"  s [n]       suggest mappings from English letter frequencies",
		"  v [all]     validate the partial text, 'v all' lists every word",
		"  a           attempt full decryption and validate it",
		"  h           show this help",
		"  q           quit",
	}, "\n")
}

// Exec runs one command line. An empty line is a no-op.
func (in *Interpreter) Exec(line string) (Result, error) {
	if in == nil || in.Session == nil {
		return Result{}, ErrNotLoaded
	}
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Result{}, nil
	}
	args := fields[1:]
	switch fields[0] {
	case "g", "guess":
		return in.guess(args)
	case "u", "undo":
		return in.undo(args)
	case "reset":
		if len(args) != 0 {
			return Result{}, usage("reset takes no arguments")
		}
		in.Session.Reset()
		return Result{Output: "==> OK. Cleared every guess.", Mutated: true}, nil
	case "m", "map":
		return Result{Output: in.guessMap()}, nil
	case "c", "context":
		return Result{Output: in.Session.ContextView()}, nil
	case "r", "reshow":
		seg := stats.SubstitutionSegment
		return in.chart(stats.Unigram, &seg)
	case "f", "freq":
		return in.freq(args)
	case "s", "suggest":
		return in.suggest(args)
	case "v", "validate":
		return in.validate(args)
	case "a", "attempt":
		return in.attempt()
	case "h", "help", "?":
		return Result{Output: Usage()}, nil
	case "q", "quit", "exit":
		return Result{Output: "Exiting analyzer. Goodbye.", Quit: true}, nil
	default:
		return Result{}, fmt.Errorf("%w %q, try 'h' for help", ErrUnknownCommand, fields[0])
	}
}

func usage(msg string) error {
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

func (in *Interpreter) letter(arg string) (byte, error) {
	if len(arg) != 1 || !in.Session.GuessMap().Valid(arg[0]) {
		return 0, usage(fmt.Sprintf("%q is not a letter of the alphabet", arg))
	}
	return arg[0], nil
}

func (in *Interpreter) guess(args []string) (Result, error) {
	if len(args) != 2 {
		return Result{}, usage("guess needs a cipher and a plain letter, e.g. g h e")
	}
	c, err := in.letter(args[0])
	if err != nil {
		return Result{}, err
	}
	p, err := in.letter(args[1])
	if err != nil {
		return Result{}, err
	}
	var b strings.Builder
	for _, prev := range in.Session.Guess(c, p) {
		fmt.Fprintf(&b, "  (warning: already guessed '%c' for cipher '%c', clearing that guess)\n", p, prev)
	}
	fmt.Fprintf(&b, "==> OK. Guessing cipher '%c' = plain '%c'", c, p)
	return Result{Output: b.String(), Mutated: true}, nil
}

func (in *Interpreter) undo(args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, usage("undo needs a cipher letter, e.g. u h")
	}
	c, err := in.letter(args[0])
	if err != nil {
		return Result{}, err
	}
	in.Session.Undo(c)
	return Result{Output: fmt.Sprintf("==> OK. Cleared guess for cipher '%c'.", c), Mutated: true}, nil
}

func (in *Interpreter) guessMap() string {
	m := in.Session.GuessMap()
	return fmt.Sprintf("--- Guess map (cipher -> plain), %d of 26 known ---\n%s", m.Known(), m.Format(GuessMapPerLine))
}

func (in *Interpreter) freq(args []string) (Result, error) {
	if len(args) == 0 {
		return Result{}, usage("freq needs a kind, e.g. f unigram substitution")
	}
	kind, err := stats.ParseKind(args[0])
	if err != nil {
		return Result{}, usage(err.Error())
	}
	var seg *stats.Segment
	switch len(args) {
	case 1:
	case 2, 4:
		parsed, err := stats.ParseSegment(strings.Join(args[1:], ","))
		if err != nil {
			return Result{}, usage(err.Error())
		}
		seg = &parsed
	default:
		return Result{}, usage("segment is caesar, substitution or <bs> <start> <len>")
	}
	return in.chart(kind, seg)
}

func (in *Interpreter) chart(kind stats.Kind, seg *stats.Segment) (Result, error) {
	t := in.Session.Frequency(kind, seg)
	var b strings.Builder
	render := in.Render
	if render == nil {
		render = stats.RenderBars
	}
	if err := render(&b, ChartTitle(kind, seg), t, in.Top); err != nil {
		return Result{}, fmt.Errorf("failed to render frequencies: %w", err)
	}
	if kind == stats.Unigram && t.Total() > 0 {
		fmt.Fprintf(&b, "==> Chi-squared vs flat: %.2f, index of coincidence: %.4f",
			stats.ChiSquaredUniform(t), stats.IndexOfCoincidence(t))
	}
	return Result{Output: strings.TrimRight(b.String(), "\n")}, nil
}

// ChartTitle names a frequency chart.
func ChartTitle(kind stats.Kind, seg *stats.Segment) string {
	switch {
	case seg == nil:
		return fmt.Sprintf("--- %s frequencies (all text) ---", kind)
	case *seg == stats.CaesarSegment:
		return fmt.Sprintf("--- %s frequencies (Caesar segments only) ---", kind)
	case *seg == stats.SubstitutionSegment:
		return fmt.Sprintf("--- %s frequencies (substitution segments only) ---", kind)
	default:
		return fmt.Sprintf("--- %s frequencies (segment %s) ---", kind, seg)
	}
}

func (in *Interpreter) suggest(args []string) (Result, error) {
	n := 0
	switch len(args) {
	case 0:
	case 1:
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return Result{}, usage("suggest takes a non-negative count, e.g. s 5")
		}
		n = v
	default:
		return Result{}, usage("suggest takes at most one argument")
	}
	suggestions := in.Session.Suggest(n)
	if len(suggestions) == 0 {
		return Result{Output: "==> No substitution letters to rank."}, nil
	}
	var b strings.Builder
	b.WriteString("--- Suggested mappings (substitution segments vs English) ---")
	for _, s := range suggestions {
		fmt.Fprintf(&b, "\n  %s (%d) -> %c", s.Cipher, s.Count, s.Plain)
	}
	return Result{Output: b.String()}, nil
}

func (in *Interpreter) validate(args []string) (Result, error) {
	showAll := false
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "all":
		showAll = true
	default:
		return Result{}, usage("validate takes an optional 'all'")
	}
	res := in.Session.Validate(in.Session.ContextView(), showAll)
	return Result{Output: "--- Validating partial substitution text ---\n" + res.String(), Score: &res}, nil
}

func (in *Interpreter) attempt() (Result, error) {
	text := in.Session.FullAttempt()
	res := in.Session.Validate(text, false)
	out := "--- Full decryption with current guesses ---\n" + text + "\n\n--- Dictionary validation ---\n" + res.String()
	return Result{Output: out, Score: &res}, nil
}
