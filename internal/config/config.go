// Package config loads scprobe settings from an optional YAML file, then
// applies SCPROBE_* environment variables on top.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/gregLibert/scprobe/pkg/iso7816"
	"github.com/gregLibert/scprobe/pkg/pcsc"
)

// EnvPrefix is the prefix of every environment override, e.g. SCPROBE_READER.
const EnvPrefix = "SCPROBE"

type Config struct {
	// Reader selects a reader by exact name or unique substring.
	Reader string `yaml:"reader"`
	// ReaderIndex is used when Reader is empty.
	ReaderIndex int `yaml:"reader_index" split_words:"true"`

	ShareMode        string   `yaml:"share_mode" split_words:"true"`
	Protocols        []string `yaml:"protocols"`
	MaxContinuations int      `yaml:"max_continuations" split_words:"true"`
	VerifyChecksum   bool     `yaml:"verify_checksum" split_words:"true"`

	// CatalogFile extends the built-in status catalog. Relative paths are
	// resolved against the config file directory.
	CatalogFile string `yaml:"catalog_file" split_words:"true"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		ShareMode:        "shared",
		Protocols:        []string{"t0", "t1"},
		MaxContinuations: iso7816.DefaultMaxContinuations,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (skipped when empty), applies the environment and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	if path != "" {
		cfg.CatalogFile = resolvePath(filepath.Dir(path), cfg.CatalogFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ReaderIndex < 0 {
		return fmt.Errorf("config.reader_index must be >= 0")
	}
	if _, err := pcsc.ParseShareMode(c.ShareMode); err != nil {
		return fmt.Errorf("config.share_mode: %w", err)
	}
	if _, err := pcsc.ParseProtocols(c.Protocols); err != nil {
		return fmt.Errorf("config.protocols: %w", err)
	}
	if c.MaxContinuations < 0 {
		return fmt.Errorf("config.max_continuations must be >= 0")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config.log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config.log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// LogLevel returns the configured slog level. Validate has already rejected
// unknown names, so the fallback is never reached on a loaded Config.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
	return level, nil
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Clean(filepath.Join(baseDir, trimmed))
}
