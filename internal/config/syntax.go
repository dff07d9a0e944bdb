package config

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/linebuf/internal/engine/buffer"
)

// SyntaxConfig is a named set of style rules applied to files with the
// given extensions.
type SyntaxConfig struct {
	Name       string       `toml:"name" yaml:"name"`
	Extensions []string     `toml:"extensions" yaml:"extensions"`
	Rules      []RuleConfig `toml:"rules" yaml:"rules"`
}

// RuleConfig describes one style rule.
type RuleConfig struct {
	// Kind is "single" or "multi". Empty means single.
	Kind string `toml:"kind" yaml:"kind"`

	// Pattern is the match pattern, or the start pattern of a multi rule.
	Pattern string `toml:"pattern" yaml:"pattern"`

	// End is the end pattern of a multi rule.
	End string `toml:"end" yaml:"end"`

	// Fg and Bg are color names ("red") or hex values ("#ff8800").
	Fg string `toml:"fg" yaml:"fg"`
	Bg string `toml:"bg" yaml:"bg"`

	Caseless  bool `toml:"caseless" yaml:"caseless"`
	Bold      bool `toml:"bold" yaml:"bold"`
	Underline bool `toml:"underline" yaml:"underline"`
	Reverse   bool `toml:"reverse" yaml:"reverse"`
}

// Style builds the tcell style of the rule. Unknown colors are left at
// the default.
func (r RuleConfig) Style() tcell.Style {
	s := tcell.StyleDefault
	if r.Fg != "" {
		s = s.Foreground(tcell.GetColor(r.Fg))
	}
	if r.Bg != "" {
		s = s.Background(tcell.GetColor(r.Bg))
	}
	if r.Bold {
		s = s.Bold(true)
	}
	if r.Underline {
		s = s.Underline(true)
	}
	if r.Reverse {
		s = s.Reverse(true)
	}
	return s
}

// Rule compiles the configured rule.
func (r RuleConfig) Rule() (*buffer.Rule, error) {
	switch strings.ToLower(r.Kind) {
	case "", "single":
		return buffer.NewSingleRule(r.Pattern, r.Caseless, r.Style())
	case "multi":
		if r.End == "" {
			return nil, fmt.Errorf("multi rule %q: %w: missing end pattern", r.Pattern, ErrInvalidValue)
		}
		start, end := r.Pattern, r.End
		if r.Caseless {
			start, end = "(?i)"+start, "(?i)"+end
		}
		return buffer.NewMultiRule(start, end, r.Style())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleKind, r.Kind)
	}
}

// Compile builds the rules of the syntax in order.
func (s *SyntaxConfig) Compile() ([]*buffer.Rule, error) {
	rules := make([]*buffer.Rule, 0, len(s.Rules))
	for i, rc := range s.Rules {
		r, err := rc.Rule()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Apply compiles the syntax and registers its rules with d.
func (s *SyntaxConfig) Apply(d *buffer.Document) error {
	rules, err := s.Compile()
	if err != nil {
		return err
	}
	for _, r := range rules {
		if err := d.AddRule(r); err != nil {
			return err
		}
	}
	return nil
}
