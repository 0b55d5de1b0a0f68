package config

import "bladesplit/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`          // production JSON encoder
	Categories map[string]bool `yaml:"categories,omitempty"` // per-category toggles
}

// Options converts the config into logging options. verbose forces debug.
func (c LoggingConfig) Options(verbose bool) logging.Options {
	level := c.Level
	if verbose {
		level = "debug"
	}
	return logging.Options{
		Level:      level,
		JSONFormat: c.JSONFormat,
		Categories: c.Categories,
	}
}
