// Package model defines shared data structures.
package model

import "time"

// Settings are the analysis settings after config file and flags are merged.
type Settings struct {
	Top            int
	ShowAll        bool
	FoldAccents    bool
	Parallel       int
	DictionaryPath string
	DictionarySize int
	LogLevel       string
}

// SessionRecord identifies the stored analysis of one ciphertext.
type SessionRecord struct {
	ID        int64
	Digest    string
	Source    string
	CleanLen  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuessEvent is one journaled change to a guess map.
type GuessEvent struct {
	SessionID int64
	Seq       int
	Op        string
	Cipher    string
	Plain     string
	At        time.Time
}

// ScoreRecord is one dictionary validation result.
type ScoreRecord struct {
	SessionID int64
	Score     int
	Words     []string
	At        time.Time
}

// SessionSummary aggregates a session for the history listing.
type SessionSummary struct {
	SessionRecord
	Guesses   int
	Scored    bool
	BestScore int
}
