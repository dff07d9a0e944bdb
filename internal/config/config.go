package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/linebuf/internal/engine/buffer"
	"github.com/dshills/linebuf/internal/logging"
)

// Config is the complete linebuf configuration.
type Config struct {
	Engine EngineConfig   `toml:"engine" yaml:"engine"`
	Log    LogConfig      `toml:"log" yaml:"log"`
	Syntax []SyntaxConfig `toml:"syntax" yaml:"syntax"`
}

// EngineConfig holds document settings.
type EngineConfig struct {
	// TabWidth is the display width of a tab stop.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// MaxUndoEntries caps the action log. Zero means unlimited.
	MaxUndoEntries int `toml:"max_undo_entries" yaml:"max_undo_entries"`

	// LargeFileThreshold is the size in bytes from which files are
	// memory-mapped. Zero disables mapping.
	LargeFileThreshold int64 `toml:"large_file_threshold" yaml:"large_file_threshold"`

	// Styles enables the style engine.
	Styles bool `toml:"styles" yaml:"styles"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Output string `toml:"output" yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TabWidth:           buffer.DefaultTabWidth,
			LargeFileThreshold: buffer.DefaultLargeFileThreshold,
			Styles:             true,
		},
		Log: LogConfig{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Validate checks the configuration for out-of-range values and rules that
// do not compile.
func (c *Config) Validate() error {
	if c.Engine.TabWidth < 1 {
		return fmt.Errorf("%w: engine.tab_width must be positive, got %d", ErrInvalidValue, c.Engine.TabWidth)
	}
	if c.Engine.MaxUndoEntries < 0 {
		return fmt.Errorf("%w: engine.max_undo_entries must not be negative", ErrInvalidValue)
	}
	if c.Engine.LargeFileThreshold < 0 {
		return fmt.Errorf("%w: engine.large_file_threshold must not be negative", ErrInvalidValue)
	}
	for i := range c.Syntax {
		if _, err := c.Syntax[i].Compile(); err != nil {
			return fmt.Errorf("syntax %q: %w", c.Syntax[i].Name, err)
		}
	}
	return nil
}

// Options converts the engine settings into document options.
func (e EngineConfig) Options() []buffer.Option {
	return []buffer.Option{
		buffer.WithTabWidth(e.TabWidth),
		buffer.WithMaxUndoEntries(e.MaxUndoEntries),
		buffer.WithLargeFileThreshold(e.LargeFileThreshold),
		buffer.WithStylesEnabled(e.Styles),
	}
}

// Logging converts the log settings into a logger configuration.
func (l LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if l.Level != "" {
		cfg.Level = l.Level
	}
	if l.Output != "" {
		cfg.Output = l.Output
	}
	return cfg
}

// SyntaxFor returns the syntax whose extensions match path.
func (c *Config) SyntaxFor(path string) (*SyntaxConfig, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	for i := range c.Syntax {
		for _, e := range c.Syntax[i].Extensions {
			if strings.ToLower(e) == ext {
				return &c.Syntax[i], true
			}
		}
	}
	return nil, false
}
