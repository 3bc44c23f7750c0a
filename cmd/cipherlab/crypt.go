package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cipherlab/internal/attack"
	"github.com/verte-zerg/cipherlab/internal/cipher"
	"github.com/verte-zerg/cipherlab/internal/generator"
	"github.com/verte-zerg/cipherlab/internal/stats"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

type cryptFlags struct {
	in      string
	out     string
	verbose bool
	raw     bool
}

func newEncryptCmd() *cobra.Command {
	var f cryptFlags
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt plaintext",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrypt(cmd, f, true)
		},
	}
	addCryptFlags(cmd, &f)
	return cmd
}

func newDecryptCmd() *cobra.Command {
	var f cryptFlags
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt ciphertext",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrypt(cmd, f, false)
		},
	}
	addCryptFlags(cmd, &f)
	cmd.Flags().BoolVar(&f.raw, "raw", false, "keep trailing padding letters")
	return cmd
}

func addCryptFlags(cmd *cobra.Command, f *cryptFlags) {
	cmd.Flags().StringVar(&f.in, "in", "-", "input file, - for stdin")
	cmd.Flags().StringVar(&f.out, "out", "-", "output file, - for stdout")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print each block step by step")
	cmd.Flags().Bool("fold-accents", false, "map accented letters to their base letter")
}

func runCrypt(cmd *cobra.Command, f cryptFlags, encrypt bool) error {
	c, err := buildCipher(settings(cmd))
	if err != nil {
		return err
	}
	text, err := readInput(cmd, f.in)
	if err != nil {
		return err
	}
	var opts cipher.Options
	if f.verbose {
		// Keep stdout clean for the result when it goes there.
		w := cmd.OutOrStdout()
		if f.out == "" || f.out == "-" {
			w = cmd.ErrOrStderr()
		}
		opts.Trace = func(t cipher.BlockTrace) { printTrace(w, t, encrypt) }
	}
	var result string
	switch {
	case encrypt:
		result = c.EncryptWithOptions(text, opts)
	case f.raw:
		result = c.DecryptRawWithOptions(text, opts)
	default:
		result = c.DecryptWithOptions(text, opts)
	}
	return writeOutput(cmd, f.out, result)
}

func printTrace(w io.Writer, t cipher.BlockTrace, encrypt bool) {
	if t.Partial {
		fmt.Fprintf(w, "Block %d (offset %d): %q is shorter than a block, passed through\n\n", t.Index+1, t.Offset, t.Input)
		return
	}
	fmt.Fprintf(w, "Block %d (offset %d): %s\n", t.Index+1, t.Offset, t.Input)
	fmt.Fprintf(w, "  Caesar segment %q, substitution segment %q\n", t.Caesar, t.Substitution)
	verb := "key letter"
	if !encrypt {
		verb = "recovered key letter"
	}
	fmt.Fprintf(w, "  %s '%c', shift %d\n", verb, t.ShiftLetter, t.Shift)
	for _, s := range t.Steps {
		kind := "caesar"
		if s.Kind == cipher.StepSubstitution {
			kind = "subst"
		}
		fmt.Fprintf(w, "    %-6s %c -> %c\n", kind, s.From, s.To)
	}
	fmt.Fprintf(w, "  output %s\n\n", t.Output)
}

func newFreqCmd() *cobra.Command {
	var kind, segment string
	cmd := &cobra.Command{
		Use:   "freq <file>",
		Short: "Print n-gram frequencies of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreqCmd(cmd, args[0], kind, segment)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "unigram", "unigram, digram or trigram")
	cmd.Flags().StringVar(&segment, "segment", "", "caesar, substitution or blocksize,start,length")
	cmd.Flags().Int("top", defaultTop, "rows to show")
	cmd.Flags().Bool("fold-accents", false, "map accented letters to their base letter")
	return cmd
}

func runFreqCmd(cmd *cobra.Command, path, kindName, segment string) error {
	s := settings(cmd)
	if err := validateSettings(s); err != nil {
		return err
	}
	k, err := stats.ParseKind(kindName)
	if err != nil {
		return err
	}
	var seg *stats.Segment
	if segment != "" {
		parsed, err := stats.ParseSegment(segment)
		if err != nil {
			return err
		}
		seg = &parsed
	}
	c, err := buildCipher(s)
	if err != nil {
		return err
	}
	raw, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	analyzer := stats.Analyzer{ParallelThreshold: s.Parallel}
	t, err := analyzer.CountContext(cmd.Context(), c.Normalize(raw), k, seg)
	if err != nil {
		return fmt.Errorf("failed to count %s frequencies: %w", k, err)
	}
	w := cmd.OutOrStdout()
	if err := stats.RenderBars(w, attack.ChartTitle(k, seg), t, s.Top); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if k == stats.Unigram && t.Total() > 0 {
		fmt.Fprintf(w, "==> Chi-squared vs flat: %.2f, index of coincidence: %.4f\n",
			stats.ChiSquaredUniform(t), stats.IndexOfCoincidence(t))
	}
	return nil
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Score a candidate decryption against the dictionary",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidateCmd,
	}
	cmd.Flags().Bool("all", false, "list every matched word")
	cmd.Flags().String("dictionary", "", "dictionary path")
	return cmd
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	s := settings(cmd)
	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	dict, err := wordlist.Load(s.DictionaryPath)
	if err != nil {
		return fmt.Errorf("%w (download one with: cipherlab dictionary)", err)
	}
	res := dict.Score(candidateText(raw), s.ShowAll)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.String())
	return err
}

// candidateText lowercases raw and joins its words with single block
// separators, keeping the unknown and mask markers analyzer views use.
func candidateText(raw string) string {
	fields := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != wordlist.UnknownMarker && r != attack.MaskChar
	})
	return strings.Join(fields, string(wordlist.BlockSeparator))
}

func newSampleCmd() *cobra.Command {
	var (
		words   int
		seed    int64
		caps    float64
		punct   float64
		encrypt bool
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate practice plaintext from the dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settings(cmd)
			dict, err := wordlist.Load(s.DictionaryPath)
			if err != nil {
				return fmt.Errorf("%w (download one with: cipherlab dictionary)", err)
			}
			gen := generator.New()
			if cmd.Flags().Changed("seed") {
				gen = generator.NewSeeded(seed)
			}
			text, err := gen.Generate(dict.Words(), generator.Options{Words: words, CapsPct: caps, PunctPct: punct})
			if err != nil {
				return err
			}
			if encrypt {
				c, err := buildCipher(s)
				if err != nil {
					return err
				}
				text = c.Encrypt(text)
			}
			return writeOutput(cmd, "-", text)
		},
	}
	cmd.Flags().IntVar(&words, "words", 25, "number of words")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible samples")
	cmd.Flags().Float64Var(&caps, "caps", 0, "probability of a capitalized word (0-1)")
	cmd.Flags().Float64Var(&punct, "punct", 0, "punctuation probability per word (0-1)")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "print the ciphertext instead")
	cmd.Flags().String("dictionary", "", "dictionary path")
	return cmd
}
