package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is returned for files that are neither TOML nor YAML.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrUnknownRuleKind is returned for a rule kind other than single or
	// multi.
	ErrUnknownRuleKind = errors.New("unknown rule kind")

	// ErrInvalidValue is returned when a setting is out of range.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrWatcherClosed is returned when starting a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
