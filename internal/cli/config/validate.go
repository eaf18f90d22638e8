package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlpretty/pkg/highlight"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (available: auto, always, never)", c.Color)
	}

	if !slices.ContainsFunc(highlight.Styles(), func(s string) bool { return strings.EqualFold(s, c.Style) }) {
		return fmt.Errorf("unknown style %q\nHint: run 'sqlpretty styles' to list available styles", c.Style)
	}

	if c.Formatter != "" && !slices.Contains(highlight.Formatters(), c.Formatter) {
		return fmt.Errorf("unknown formatter %q (available: %s)", c.Formatter, strings.Join(highlight.Formatters(), ", "))
	}

	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
		}
	}
	return nil
}
