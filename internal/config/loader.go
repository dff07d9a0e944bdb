package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "LINEBUF_"

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := parse(path, data, format)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data in the given format over the defaults and validates
// the result. Environment overrides are not applied.
func Parse(data []byte, format Format) (*Config, error) {
	cfg, err := parse("<data>", data, format)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse decodes data over the defaults.
func parse(source string, data []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			pe := &ParseError{Path: source, Message: err.Error(), Err: err}
			var decErr *toml.DecodeError
			if errors.As(err, &decErr) {
				pe.Line, _ = decErr.Position()
			}
			return nil, pe
		}
	case FormatYAML:
		if len(bytes.TrimSpace(data)) == 0 {
			return cfg, nil
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return cfg, nil
}

// envSetters maps override names, without the prefix, to the setting they
// change.
var envSetters = map[string]func(c *Config, v string) error{
	"TAB_WIDTH": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Engine.TabWidth = n
		return err
	},
	"MAX_UNDO_ENTRIES": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Engine.MaxUndoEntries = n
		return err
	},
	"LARGE_FILE_THRESHOLD": func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		c.Engine.LargeFileThreshold = n
		return err
	},
	"STYLES": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Engine.Styles = b
		return err
	},
	"LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = v
		return nil
	},
	"LOG_OUTPUT": func(c *Config, v string) error {
		c.Log.Output = v
		return nil
	},
}

// applyEnv applies LINEBUF_* overrides found by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envSetters {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}
