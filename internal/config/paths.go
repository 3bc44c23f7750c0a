package config

import (
	"os"
	"path/filepath"
)

const appName = "cipherlab"

// Paths locates every file cipherlab reads or writes.
type Paths struct {
	// Config and Dictionary live under $XDG_CONFIG_HOME/cipherlab.
	Config     string
	Dictionary string
	// DB, WordfreqCache and History live under $XDG_DATA_HOME/cipherlab.
	DB            string
	WordfreqCache string
	History       string
}

// DefaultPaths resolves Paths from the XDG environment at call time.
func DefaultPaths() Paths {
	cfg := filepath.Join(xdgHome("XDG_CONFIG_HOME", ".config"), appName)
	data := filepath.Join(xdgHome("XDG_DATA_HOME", ".local", "share"), appName)
	return Paths{
		Config:        filepath.Join(cfg, "config.toml"),
		Dictionary:    filepath.Join(cfg, "dictionary.txt"),
		DB:            filepath.Join(data, appName+".db"),
		WordfreqCache: filepath.Join(data, "wordfreq"),
		History:       filepath.Join(data, "repl-history"),
	}
}

// xdgHome returns $env, or the fallback below the home directory, or "."
// when neither is known.
func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}
