package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/notebookconcat/internal/concat"
	"github.com/dshills/notebookconcat/internal/concatview"
	"github.com/dshills/notebookconcat/internal/notebook"
)

// Config holds all nbconcat settings.
type Config struct {
	Concat ConcatConfig `toml:"concat"`
	Log    LogConfig    `toml:"log"`
	Watch  WatchConfig  `toml:"watch"`
}

// ConcatConfig controls which cells are concatenated and how the synthetic
// file is named.
type ConcatConfig struct {
	// FilenameTemplate must contain "{token}".
	FilenameTemplate string `toml:"filename_template"`
	// Languages restricts the view to cells of these languages. Empty means all.
	Languages []string `toml:"languages"`
	// IncludeMarkup adds markdown cells to the view.
	IncludeMarkup bool `toml:"include_markup"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

// WatchConfig controls the notebook file watcher.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Concat: ConcatConfig{
			FilenameTemplate: concatview.DefaultFilenameTemplate,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce: Duration(200 * time.Millisecond),
		},
	}
}

// DefaultPath returns the user configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nbconcat", "config.toml")
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file leaves the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode parses TOML data into cfg. Unknown keys are rejected.
func decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if !strings.Contains(c.Concat.FilenameTemplate, concatview.TokenPlaceholder) {
		return &ValidationError{
			Path:    "concat.filename_template",
			Message: "must contain " + concatview.TokenPlaceholder,
			Value:   c.Concat.FilenameTemplate,
		}
	}
	if strings.ContainsRune(c.Concat.FilenameTemplate, filepath.Separator) {
		return &ValidationError{
			Path:    "concat.filename_template",
			Message: "must be a file name, not a path",
			Value:   c.Concat.FilenameTemplate,
		}
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		return &ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: c.Log.Level}
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Log.Format)) {
		return &ValidationError{Path: "log.format", Message: "must be text or json", Value: c.Log.Format}
	}
	if c.Watch.Debounce < 0 {
		return &ValidationError{Path: "watch.debounce", Message: "must not be negative", Value: time.Duration(c.Watch.Debounce)}
	}
	return nil
}

// Selector returns the cell filter described by the concat settings.
func (c Config) Selector() concat.Selector {
	sel := concat.Selector{Languages: c.Concat.Languages}
	if !c.Concat.IncludeMarkup {
		sel.Kinds = []notebook.CellKind{notebook.CellKindCode}
	}
	return sel
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
