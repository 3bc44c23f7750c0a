// Package main provides the CLI entrypoint for cipherlab.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cipherlab/internal/alphabet"
	"github.com/verte-zerg/cipherlab/internal/cipher"
	"github.com/verte-zerg/cipherlab/internal/config"
	"github.com/verte-zerg/cipherlab/internal/logging"
	"github.com/verte-zerg/cipherlab/internal/model"
)

const (
	defaultTop            = 26
	defaultParallel       = 1 << 16
	defaultDictionarySize = 50000
)

var (
	configPath string
	logLevel   string

	fileCfg config.FileConfig
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "cipherlab",
		Short:             "Block cipher encryption and interactive cryptanalysis",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupRoot,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/cipherlab/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level: debug, info, warn, error")

	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newDecryptCmd())
	rootCmd.AddCommand(newFreqCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newDictionaryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setupRoot(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPaths().Config
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Logging.Level)
	if err := logging.Setup(logLevel); err != nil {
		return err
	}
	log.Debug().Str("config", path).Msg("configuration loaded")
	return nil
}

// settings merges defaults, the config file and flags of cmd that share a
// config key name.
func settings(cmd *cobra.Command) model.Settings {
	s := model.Settings{
		Top:            defaultTop,
		Parallel:       defaultParallel,
		DictionaryPath: config.DefaultPaths().Dictionary,
		DictionarySize: defaultDictionarySize,
		LogLevel:       logLevel,
	}
	applyIntValue(&s.Top, fileCfg.Analysis.Top)
	applyBoolValue(&s.ShowAll, fileCfg.Analysis.ShowAll)
	applyBoolValue(&s.FoldAccents, fileCfg.Analysis.FoldAccents)
	applyIntValue(&s.Parallel, fileCfg.Analysis.Parallel)
	applyStringValue(&s.DictionaryPath, fileCfg.Dictionary.Path)
	applyIntValue(&s.DictionarySize, fileCfg.Dictionary.Size)

	applyIntFlag(cmd, "top", &s.Top)
	applyBoolFlag(cmd, "all", &s.ShowAll)
	applyBoolFlag(cmd, "fold-accents", &s.FoldAccents)
	applyStringFlag(cmd, "dictionary", &s.DictionaryPath)
	applyIntFlag(cmd, "size", &s.DictionarySize)
	return s
}

// buildCipher applies the [profile] section over the default profile.
func buildCipher(s model.Settings) (*cipher.Cipher, error) {
	p := cipher.DefaultProfile()
	applyStringValue(&p.Alphabet, fileCfg.Profile.Alphabet)
	applyStringValue(&p.Table, fileCfg.Profile.Table)
	applyStringValue(&p.Padding, fileCfg.Profile.Padding)
	c, err := cipher.New(p)
	if err != nil {
		return nil, err
	}
	if s.FoldAccents {
		c = c.WithNormalizer(alphabet.Normalizer{FoldAccents: true})
	}
	return c, nil
}

func validateSettings(s model.Settings) error {
	if s.Top <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	if s.Parallel < 0 {
		return fmt.Errorf("analysis.parallel must be >= 0")
	}
	if s.DictionarySize <= 0 {
		return fmt.Errorf("--size must be > 0")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPaths().Config
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	p := cipher.DefaultProfile()
	return fmt.Sprintf(`# cipherlab configuration
# Uncomment a value to enable it. CLI flags override config values.

[profile]
# alphabet = %q
# table = %q      # substitution for each alphabet letter
# padding = %q

[analysis]
# top = %d                # Rows shown in frequency charts
# show-all = false        # List every matched word when validating
# fold-accents = false    # Map accented letters to their base letter
# parallel = %d        # Text length from which counting runs in parallel, 0 disables

[dictionary]
# path = %q
# size = %d            # Words kept by 'cipherlab dictionary'

[logging]
# level = %q
`,
		p.Alphabet,
		p.Table,
		p.Padding,
		defaultTop,
		defaultParallel,
		config.DefaultPaths().Dictionary,
		defaultDictionarySize,
		logging.DefaultLevel,
	)
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes text plus a newline to a file, or stdout for "-".
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" || path == "-" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("wrote output")
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringValue(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func applyIntValue(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func applyBoolValue(target, value *bool) {
	if value != nil {
		*target = *value
	}
}

func applyStringFlag(cmd *cobra.Command, name string, target *string) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*target = f.Value.String()
	}
}

func applyIntFlag(cmd *cobra.Command, name string, target *int) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		if v, err := cmd.Flags().GetInt(name); err == nil {
			*target = v
		}
	}
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			*target = v
		}
	}
}
