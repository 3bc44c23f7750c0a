package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cipherlab/internal/attack"
	"github.com/verte-zerg/cipherlab/internal/config"
	"github.com/verte-zerg/cipherlab/internal/model"
	"github.com/verte-zerg/cipherlab/internal/repl"
	"github.com/verte-zerg/cipherlab/internal/stats"
	"github.com/verte-zerg/cipherlab/internal/store"
	"github.com/verte-zerg/cipherlab/internal/tui"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

type sessionFlags struct {
	resume  bool
	noStore bool
}

// workspace is a loaded session plus its optional journal.
type workspace struct {
	session *attack.Session
	interp  *attack.Interpreter
	store   *store.Store
	record  model.SessionRecord
}

func newAnalyzeCmd() *cobra.Command {
	var f sessionFlags
	cmd := &cobra.Command{
		Use:   "analyze <cipherfile>",
		Short: "Attack a ciphertext in the interactive workbench",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, args[0], f)
			if err != nil {
				return err
			}
			defer ws.close()
			program := tea.NewProgram(tui.NewModel(ws.interp, ws.recordScore), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run TUI: %w", err)
			}
			return nil
		},
	}
	addSessionFlags(cmd, &f)
	return cmd
}

func newReplCmd() *cobra.Command {
	var f sessionFlags
	cmd := &cobra.Command{
		Use:   "repl <cipherfile>",
		Short: "Attack a ciphertext from a line prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, args[0], f)
			if err != nil {
				return err
			}
			defer ws.close()
			r := repl.New(ws.interp, cmd.OutOrStdout(), cmd.ErrOrStderr())
			r.OnScore(ws.recordScore)
			return r.Run(config.DefaultPaths().History)
		},
	}
	addSessionFlags(cmd, &f)
	return cmd
}

func addSessionFlags(cmd *cobra.Command, f *sessionFlags) {
	cmd.Flags().BoolVar(&f.resume, "resume", false, "replay the stored guesses for this ciphertext")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "do not journal guesses and scores")
	cmd.Flags().String("dictionary", "", "dictionary path")
	cmd.Flags().Int("top", defaultTop, "rows shown in frequency charts")
	cmd.Flags().Bool("fold-accents", false, "map accented letters to their base letter")
}

func openWorkspace(cmd *cobra.Command, path string, f sessionFlags) (*workspace, error) {
	if f.resume && f.noStore {
		return nil, fmt.Errorf("--resume and --no-store are mutually exclusive")
	}
	s := settings(cmd)
	if err := validateSettings(s); err != nil {
		return nil, err
	}
	c, err := buildCipher(s)
	if err != nil {
		return nil, err
	}
	dict, dictErr := wordlist.Load(s.DictionaryPath)
	if dictErr != nil {
		log.Warn().Err(dictErr).Msg("dictionary unavailable, validation is disabled")
		dict = nil
	}
	sess, err := attack.LoadFile(path, c, dict)
	if err != nil {
		return nil, err
	}
	sess.WithAnalyzer(stats.Analyzer{ParallelThreshold: s.Parallel})

	interp := attack.NewInterpreter(sess)
	interp.Top = s.Top
	ws := &workspace{session: sess, interp: interp}
	printDiagnostics(cmd.OutOrStdout(), path, sess, s.DictionaryPath)

	if f.noStore {
		return ws, nil
	}
	if err := ws.attachStore(cmd.Context(), path, f.resume); err != nil {
		log.Warn().Err(err).Msg("session journal unavailable, continuing without persistence")
		ws.close()
		ws.store = nil
	}
	return ws, nil
}

func printDiagnostics(w io.Writer, path string, sess *attack.Session, dictPath string) {
	fmt.Fprintf(w, "Loaded %s: %d characters read, %d letters after cleaning.\n", path, sess.RawLength(), len(sess.CleanText()))
	if sess.DictionaryLoaded() {
		fmt.Fprintf(w, "Dictionary %s: %d words.\n", dictPath, sess.DictionarySize())
	} else {
		fmt.Fprintf(w, "Warning: no dictionary at %s, validation will report it as unavailable.\n", dictPath)
	}
}

func (ws *workspace) attachStore(ctx context.Context, path string, resume bool) error {
	st, err := store.Open(config.DefaultPaths().DB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	ws.store = st
	source := path
	if abs, err := filepath.Abs(path); err == nil {
		source = abs
	}
	clean := ws.session.CleanText()
	rec, err := st.OpenOrCreateSession(ctx, store.Digest(clean), source, len(clean))
	if err != nil {
		return fmt.Errorf("failed to open session record: %w", err)
	}
	ws.record = rec

	if resume {
		events, err := st.ListGuessEvents(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load journal: %w", err)
		}
		ws.session.Replay(toEvents(events))
		log.Info().Int("events", len(events)).Int("known", ws.session.GuessMap().Known()).Msg("resumed session")
	} else if _, err := st.AppendGuess(ctx, rec.ID, string(attack.OpReset), "", ""); err != nil {
		return fmt.Errorf("failed to start journal: %w", err)
	}

	ws.session.Observe(func(e attack.Event) {
		if _, err := st.AppendGuess(context.Background(), rec.ID, string(e.Op), letterString(e.Cipher), letterString(e.Plain)); err != nil {
			log.Warn().Err(err).Str("op", string(e.Op)).Msg("failed to journal guess")
		}
	})
	return nil
}

func (ws *workspace) recordScore(res wordlist.ScoreResult) {
	if ws.store == nil || res.Status == wordlist.StatusUnavailable {
		return
	}
	if err := ws.store.RecordScore(context.Background(), ws.record.ID, res.Score, res.Words); err != nil {
		log.Warn().Err(err).Msg("failed to record score")
	}
}

func (ws *workspace) close() {
	if ws.store == nil {
		return
	}
	if err := ws.store.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close db")
	}
}

func toEvents(events []model.GuessEvent) []attack.Event {
	out := make([]attack.Event, 0, len(events))
	for _, e := range events {
		out = append(out, attack.Event{
			Op:     attack.Op(e.Op),
			Cipher: firstByte(e.Cipher),
			Plain:  firstByte(e.Plain),
		})
	}
	return out
}

func letterString(b byte) string {
	if b == 0 {
		return ""
	}
	return string(b)
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored analysis sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(config.DefaultPaths().DB)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					log.Warn().Err(cerr).Msg("failed to close db")
				}
			}()
			sessions, err := st.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), sessions)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of sessions to list, 0 for all")
	return cmd
}

func printHistory(w io.Writer, sessions []model.SessionSummary) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No stored sessions yet. Start one with: cipherlab analyze <cipherfile>")
		return err
	}
	if _, err := fmt.Fprintf(w, "%-4s  %-12s  %7s  %7s  %5s  %-16s  %s\n", "ID", "DIGEST", "LETTERS", "GUESSES", "BEST", "UPDATED", "SOURCE"); err != nil {
		return err
	}
	for _, s := range sessions {
		best := "-"
		if s.Scored {
			best = fmt.Sprintf("%d", s.BestScore)
		}
		digest := s.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		if _, err := fmt.Fprintf(w, "%-4d  %-12s  %7d  %7d  %5s  %-16s  %s\n",
			s.ID, digest, s.CleanLen, s.Guesses, best, s.UpdatedAt.Local().Format("2006-01-02 15:04"), s.Source); err != nil {
			return err
		}
	}
	return nil
}
