// Package config loads ActaPipe settings from YAML.
// Values absent from the file keep their defaults; CLI flags override both.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gaurav-prasanna/actapipe/core/segment"
	"github.com/gaurav-prasanna/actapipe/core/strip"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// Workers bounds how many documents are processed concurrently.
	Workers int `yaml:"workers"`
	// DocumentTimeout aborts one document's processing; 0 disables it.
	DocumentTimeout time.Duration `yaml:"document_timeout"`

	Strip   StripConfig   `yaml:"strip"`
	Segment segment.Rules `yaml:"segment"`
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Serve   ServeConfig   `yaml:"serve"`
}

type StripConfig struct {
	// TitleOffset of 0 keeps everything after the title prologue.
	TitleOffset int `yaml:"title_offset"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // json, markdown or pdf
	CSV    bool   `yaml:"csv"`
}

type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Formats lists the accepted output formats.
var Formats = []string{"json", "markdown", "pdf"}

// Defaults returns a Config with every field set to its default.
func Defaults() Config {
	return Config{
		LogLevel:        "info",
		Workers:         4,
		DocumentTimeout: 2 * time.Minute,
		Strip:           StripConfig{TitleOffset: strip.DefaultTitleOffset},
		Segment:         segment.DefaultRules(),
		Output:          OutputConfig{Format: "json"},
		Serve:           ServeConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", c.Workers)
	}
	if c.DocumentTimeout < 0 {
		return fmt.Errorf("document_timeout must not be negative")
	}
	if c.Strip.TitleOffset < 0 {
		return fmt.Errorf("strip.title_offset must not be negative")
	}
	if c.Segment.MinHeadlineLen < 1 {
		return fmt.Errorf("segment.min_headline_len must be >= 1 (got %d)", c.Segment.MinHeadlineLen)
	}
	if c.Segment.MinBodyLen < 1 {
		return fmt.Errorf("segment.min_body_len must be >= 1 (got %d)", c.Segment.MinBodyLen)
	}
	for _, f := range Formats {
		if c.Output.Format == f {
			return nil
		}
	}
	return fmt.Errorf("output.format must be one of %s (got %q)", strings.Join(Formats, ", "), c.Output.Format)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn or error (got %q)", s)
	}
}

// NewLogger builds a text logger at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
