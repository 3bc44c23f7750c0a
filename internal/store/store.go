// Package store handles SQLite persistence.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cipherlab/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for analysis sessions.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Digest identifies a ciphertext by the sha256 of its clean text.
func Digest(clean string) string {
	sum := sha256.Sum256([]byte(clean))
	return hex.EncodeToString(sum[:])
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			digest TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			clean_len INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS guess_events (
			session_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			op TEXT NOT NULL,
			cipher TEXT NOT NULL,
			plain TEXT NOT NULL,
			at TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS scores (
			session_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			words TEXT NOT NULL,
			at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_session ON scores(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// OpenOrCreateSession returns the session for digest, creating it when it
// does not exist yet. The source path is refreshed on every call.
func (s *Store) OpenOrCreateSession(ctx context.Context, digest, source string, cleanLen int) (model.SessionRecord, error) {
	now := s.stamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (digest, source, clean_len, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(digest) DO UPDATE SET source = excluded.source`,
		digest, source, cleanLen, now, now,
	)
	if err != nil {
		return model.SessionRecord{}, err
	}
	return s.session(ctx, digest)
}

func (s *Store) session(ctx context.Context, digest string) (model.SessionRecord, error) {
	var rec model.SessionRecord
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, digest, source, clean_len, created_at, updated_at FROM sessions WHERE digest = ?`,
		digest,
	).Scan(&rec.ID, &rec.Digest, &rec.Source, &rec.CleanLen, &created, &updated)
	if err != nil {
		return model.SessionRecord{}, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return model.SessionRecord{}, err
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return model.SessionRecord{}, err
	}
	return rec, nil
}

// AppendGuess journals one guess map change and returns its sequence number.
func (s *Store) AppendGuess(ctx context.Context, sessionID int64, op, cipher, plain string) (seq int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM guess_events WHERE session_id = ?`, sessionID,
	).Scan(&seq); err != nil {
		return 0, err
	}
	now := s.stamp()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO guess_events (session_id, seq, op, cipher, plain, at) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, seq, op, cipher, plain, now,
	); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, now, sessionID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		err = fmt.Errorf("session %d not found", sessionID)
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return seq, nil
}

// ListGuessEvents returns the journal of a session in sequence order.
func (s *Store) ListGuessEvents(ctx context.Context, sessionID int64) ([]model.GuessEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, op, cipher, plain, at FROM guess_events WHERE session_id = ? ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.GuessEvent
	for rows.Next() {
		ev := model.GuessEvent{SessionID: sessionID}
		var at string
		if err := rows.Scan(&ev.Seq, &ev.Op, &ev.Cipher, &ev.Plain, &at); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		ev.At = parsed
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// RecordScore stores a validation result for a session.
func (s *Store) RecordScore(ctx context.Context, sessionID int64, score int, words []string) error {
	if sessionID <= 0 {
		return errors.New("session id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (session_id, score, words, at) VALUES (?, ?, ?, ?)`,
		sessionID, score, strings.Join(words, ","), s.stamp(),
	)
	return err
}

// ListScores returns the scores of a session, newest first.
func (s *Store) ListScores(ctx context.Context, sessionID int64) ([]model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, words, at FROM scores WHERE session_id = ? ORDER BY at DESC, rowid DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var scores []model.ScoreRecord
	for rows.Next() {
		rec := model.ScoreRecord{SessionID: sessionID}
		var words, at string
		if err := rows.Scan(&rec.Score, &words, &at); err != nil {
			return nil, err
		}
		if words != "" {
			rec.Words = strings.Split(words, ",")
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		rec.At = parsed
		scores = append(scores, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// ListSessions returns session summaries, most recently updated first.
// A non-positive limit returns every session.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]model.SessionSummary, error) {
	query := `SELECT s.id, s.digest, s.source, s.clean_len, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM guess_events g WHERE g.session_id = s.id) AS guesses,
			(SELECT MAX(score) FROM scores sc WHERE sc.session_id = s.id) AS best
		FROM sessions s
		ORDER BY s.updated_at DESC, s.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionSummary
	for rows.Next() {
		var sum model.SessionSummary
		var created, updated string
		var best sql.NullInt64
		if err := rows.Scan(&sum.ID, &sum.Digest, &sum.Source, &sum.CleanLen, &created, &updated, &sum.Guesses, &best); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, err
		}
		if sum.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, err
		}
		if best.Valid {
			sum.Scored = true
			sum.BestScore = int(best.Int64)
		}
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
