// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Profile    ProfileConfig    `toml:"profile"`
	Analysis   AnalysisConfig   `toml:"analysis"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Logging    LoggingConfig    `toml:"logging"`
}

// ProfileConfig maps the cipher profile.
type ProfileConfig struct {
	Alphabet *string `toml:"alphabet"`
	Table    *string `toml:"table"`
	Padding  *string `toml:"padding"`
}

// AnalysisConfig maps frequency and validation settings.
type AnalysisConfig struct {
	Top         *int  `toml:"top"`
	ShowAll     *bool `toml:"show-all"`
	FoldAccents *bool `toml:"fold-accents"`
	Parallel    *int  `toml:"parallel"`
}

// DictionaryConfig maps dictionary settings.
type DictionaryConfig struct {
	Path *string `toml:"path"`
	Size *int    `toml:"size"`
}

// LoggingConfig maps logging settings.
type LoggingConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
