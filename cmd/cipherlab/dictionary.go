package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cipherlab/internal/config"
	"github.com/verte-zerg/cipherlab/internal/wordfreq"
)

const minDictionaryWordLen = 2

func newDictionaryCmd() *cobra.Command {
	var (
		lang  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Download a validation dictionary from wordfreq",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDictionaryCmd(cmd, lang, force)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "wordfreq language code")
	cmd.Flags().Int("size", defaultDictionarySize, "number of words")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing dictionary")
	cmd.Flags().String("dictionary", "", "output path")
	return cmd
}

func runDictionaryCmd(cmd *cobra.Command, lang string, force bool) error {
	s := settings(cmd)
	if err := validateSettings(s); err != nil {
		return err
	}
	lang = strings.TrimSpace(strings.ToLower(lang))
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	outPath := s.DictionaryPath
	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("dictionary already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat dictionary: %w", err)
		}
	}

	log.Info().Msg("fetching wordfreq metadata")
	wheel, err := wordfreq.Client{}.DownloadLatestWheel(cmd.Context(), config.DefaultPaths().WordfreqCache)
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	log.Info().Str("wheel", wheel.Filename).Bool("cached", wheel.Cached).Msg("wordfreq wheel ready")

	types, err := wordfreq.ListLanguageTypes(wheel.Path)
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	available := wordfreq.LanguagesFromTypes(types)
	if !slices.Contains(available, lang) {
		return fmt.Errorf("unknown language %q (available: %s)", lang, strings.Join(available, ", "))
	}
	list := "large"
	if _, ok := types[lang][list]; !ok {
		list = "small"
		log.Warn().Str("lang", lang).Msg("no large word list, using small")
	}

	words, err := wordfreq.ExtractDictionary(wheel.Path, wordfreq.Options{
		Lang:   lang,
		List:   list,
		Limit:  s.DictionarySize,
		MinLen: minDictionaryWordLen,
	})
	if err != nil {
		return fmt.Errorf("failed to extract %s word list: %w", lang, err)
	}
	if err := wordfreq.WriteDictionary(outPath, words); err != nil {
		return err
	}
	if err := wordfreq.WriteAttribution(wheel.Path, filepath.Dir(outPath)); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	log.Info().Str("path", outPath).Int("words", len(words)).Msg("wrote dictionary")
	return nil
}
