// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Parser   ParserConfig   `toml:"parser"`
	Scan     ScanConfig     `toml:"scan"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`

	unknown []string // keys in the file that match no field
}

type ParserConfig struct {
	Kind string `toml:"kind"` // tv, movie or series
}

type ScanConfig struct {
	Workers    int      `toml:"workers"`
	Extensions []string `toml:"extensions"`
	SkipHidden bool     `toml:"skip_hidden"`
	// MinAgreement is the file/directory title confidence below which a
	// scan logs a warning.
	MinAgreement string `toml:"min_agreement"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Scan.SkipHidden = true
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Parser.Kind == "" {
		c.Parser.Kind = "tv"
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = []string{"mkv", "mp4", "avi", "m4v", "mov", "wmv", "ts", "m2ts", "webm"}
	}
	if c.Scan.MinAgreement == "" {
		c.Scan.MinAgreement = "low"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/arrname.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Load reads, substitutes, parses and validates the configuration file.
// Unresolved variables and validation failures are reported together as a
// *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}
	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the file, leaving unresolved
// variables in place and skipping validation.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	cfg := &Config{Scan: ScanConfig{SkipHidden: true}}
	md, err := toml.Decode(content, cfg)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, nil, fmt.Errorf("parsing config: %s", perr.ErrorWithPosition())
		}
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, key := range md.Undecoded() {
		cfg.unknown = append(cfg.unknown, key.String())
	}
	cfg.applyDefaults()
	return cfg, missing, nil
}
