package types

import (
	"errors"
	"strings"
)

// Config holds the settings the tabula CLI loads from config.yaml.
type Config struct {
	Seed SeedConfig `json:"seed" yaml:"seed" mapstructure:"seed"`
	Log  LogConfig  `json:"log" yaml:"log" mapstructure:"log"`
	Edit EditConfig `json:"edit" yaml:"edit" mapstructure:"edit"`
}

// SeedConfig selects where the baseline snapshot comes from.
type SeedConfig struct {
	Source string `json:"source" yaml:"source" mapstructure:"source"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	Table  string `json:"table,omitempty" yaml:"table,omitempty" mapstructure:"table"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	SeqURL string `json:"seq_url,omitempty" yaml:"seq_url,omitempty" mapstructure:"seq_url"`
}

// EditConfig controls how rejected edits are presented.
type EditConfig struct {
	// ReportRejections prints the reason an edit was dropped. Off by default:
	// invalid input is dropped silently.
	ReportRejections bool `json:"report_rejections" yaml:"report_rejections" mapstructure:"report_rejections"`
}

// Supported baseline sources.
const (
	SeedBuiltin = "builtin"
	SeedJSONL   = "jsonl"
	SeedSQLite  = "sqlite"
)

// Config validation errors.
var (
	ErrSeedSourceUnknown = errors.New("unknown seed source")
	ErrSeedPathEmpty     = errors.New("seed path must not be empty")
	ErrSeedTableEmpty    = errors.New("seed table must not be empty")
	ErrLogLevelUnknown   = errors.New("unknown log level")
	ErrLogFormatUnknown  = errors.New("unknown log format")
)

var knownLogLevels = map[string]bool{
	"": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

var knownLogFormats = map[string]bool{
	"": true, "text": true, "json": true,
}

// DefaultConfig returns the configuration used when no config.yaml exists.
func DefaultConfig() Config {
	return Config{
		Seed: SeedConfig{Source: SeedBuiltin},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty seed source means builtin.
func (c Config) Validate() error {
	switch c.Seed.Source {
	case "", SeedBuiltin:
	case SeedJSONL:
		if c.Seed.Path == "" {
			return ErrSeedPathEmpty
		}
	case SeedSQLite:
		if c.Seed.Path == "" {
			return ErrSeedPathEmpty
		}
		if c.Seed.Table == "" {
			return ErrSeedTableEmpty
		}
	default:
		return ErrSeedSourceUnknown
	}
	if !knownLogLevels[strings.ToLower(c.Log.Level)] {
		return ErrLogLevelUnknown
	}
	if !knownLogFormats[strings.ToLower(c.Log.Format)] {
		return ErrLogFormatUnknown
	}
	return nil
}
