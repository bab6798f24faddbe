package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/notebookconcat/internal/lsp"
)

// Environment variables read by Load.
const (
	EnvLogLevel  = "NBCONCAT_LOG_LEVEL"
	EnvLogFile   = "NBCONCAT_LOG_FILE"
	EnvLanguages = "NBCONCAT_LANGUAGES"
	EnvTemplate  = "NBCONCAT_TEMPLATE"
	EnvDebounce  = "NBCONCAT_DEBOUNCE"
)

// applyEnv overrides cfg from the environment. Empty values count as set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.Log.File = v
	}
	if v, ok := lookup(EnvTemplate); ok {
		cfg.Concat.FilenameTemplate = v
	}
	if v, ok := lookup(EnvLanguages); ok {
		cfg.Concat.Languages = parseLanguages(v)
	}
	if v, ok := lookup(EnvDebounce); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvDebounce, err)
		}
		cfg.Watch.Debounce = Duration(d)
	}
	return nil
}

// parseLanguages splits a comma-separated list and normalizes each entry.
func parseLanguages(v string) []string {
	var langs []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		langs = append(langs, lsp.DetectLanguageID(part))
	}
	return langs
}
