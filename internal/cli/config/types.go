// Package config provides configuration management for the sqlpretty CLI.
//
// Only presentation is configurable: color handling, the highlight style
// and formatter, and logging. SQL layout rules are fixed.
package config

import (
	"log/slog"

	"github.com/leapstack-labs/sqlpretty/pkg/highlight"
)

// Config holds all CLI configuration options.
type Config struct {
	Color     string `koanf:"color" yaml:"color"`         // auto, always or never
	Style     string `koanf:"style" yaml:"style"`         // chroma style name
	Formatter string `koanf:"formatter" yaml:"formatter"` // chroma formatter; empty picks one from the terminal
	Verbose   bool   `koanf:"verbose" yaml:"verbose"`
	LogLevel  string `koanf:"log_level" yaml:"log_level"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-" yaml:"-"`
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default configuration values.
const (
	DefaultColor    = ColorAuto
	DefaultStyle    = highlight.DefaultStyle
	DefaultLogLevel = "warn"
)

// EnvPrefix prefixes environment variables, e.g. SQLPRETTY_STYLE.
const EnvPrefix = "SQLPRETTY_"

// Level returns the log level, forced to debug when Verbose is set.
// An unparsable level falls back to warn; Validate reports it.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
