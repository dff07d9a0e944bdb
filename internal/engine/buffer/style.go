package buffer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// RuleKind identifies how a style rule matches.
type RuleKind uint8

const (
	// RuleSingle styles each match of a pattern within a line.
	RuleSingle RuleKind = iota

	// RuleMulti styles from a start pattern to an end pattern, possibly
	// spanning lines.
	RuleMulti

	// RuleRange styles the text between two marks.
	RuleRange
)

// String returns the kind name.
func (k RuleKind) String() string {
	switch k {
	case RuleSingle:
		return "single"
	case RuleMulti:
		return "multi"
	case RuleRange:
		return "range"
	default:
		return fmt.Sprintf("rule(%d)", uint8(k))
	}
}

// Rule is a style rule. A rule is registered with at most one document.
type Rule struct {
	kind  RuleKind
	start *Pattern
	end   *Pattern
	a, b  *Mark
	style tcell.Style

	doc *Document

	// Last search for start on memoLine, valid for one line scan.
	memoLine  *Line
	memoFrom  int
	memoStart int
	memoEnd   int
	memoOK    bool
}

// NewSingleRule creates a rule styling every match of expr within a line.
func NewSingleRule(expr string, caseless bool, style tcell.Style) (*Rule, error) {
	p, err := CompilePattern(expr, caseless)
	if err != nil {
		return nil, err
	}
	return &Rule{kind: RuleSingle, start: p, style: style}, nil
}

// NewMultiRule creates a rule styling from a match of start through the
// next match of end, which may be on a later line.
func NewMultiRule(start, end string, style tcell.Style) (*Rule, error) {
	sp, err := CompilePattern(start, false)
	if err != nil {
		return nil, err
	}
	ep, err := CompilePattern(end, false)
	if err != nil {
		return nil, err
	}
	return &Rule{kind: RuleMulti, start: sp, end: ep, style: style}, nil
}

// NewRangeRule creates a rule styling the half-open span between two marks
// of the same document.
func NewRangeRule(a, b *Mark, style tcell.Style) (*Rule, error) {
	if a == nil || b == nil || a.IsDestroyed() || b.IsDestroyed() {
		return nil, ErrDestroyedMark
	}
	if a.doc != b.doc {
		return nil, ErrForeignMark
	}
	return &Rule{kind: RuleRange, a: a, b: b, style: style}, nil
}

// Kind returns the rule kind.
func (r *Rule) Kind() RuleKind {
	return r.kind
}

// Style returns the style applied by the rule.
func (r *Rule) Style() tcell.Style {
	return r.style
}

// Pattern returns the match pattern, or the start pattern of a Multi rule.
func (r *Rule) Pattern() *Pattern {
	return r.start
}

// EndPattern returns the end pattern of a Multi rule.
func (r *Rule) EndPattern() *Pattern {
	return r.end
}

// Marks returns the anchors of a Range rule.
func (r *Rule) Marks() (*Mark, *Mark) {
	return r.a, r.b
}

// nextStart returns the first start match on l at or after byte from, reusing
// the previous search while its match is still ahead of from.
func (r *Rule) nextStart(l *Line, from int) (int, int, bool) {
	if r.memoLine == l && r.memoFrom <= from && (!r.memoOK || r.memoStart >= from) {
		return r.memoStart, r.memoEnd, r.memoOK
	}
	s, e, ok := r.start.FindFrom(l.data, from)
	r.memoLine, r.memoFrom, r.memoStart, r.memoEnd, r.memoOK = l, from, s, e, ok
	return s, e, ok
}

// resetMemo invalidates the cached search.
func (r *Rule) resetMemo() {
	r.memoLine = nil
}

// ============================================================================
// Registration
// ============================================================================

// AddRule registers a style rule. Single and Multi rules trigger a rescan
// of the whole document.
func (d *Document) AddRule(r *Rule) error {
	if r.doc != nil {
		return ErrRuleInUse
	}
	if r.kind == RuleRange {
		if r.a.doc != d || r.a.IsDestroyed() || r.b.IsDestroyed() {
			return ErrForeignMark
		}
		r.doc = d
		d.ranges = append(d.ranges, r)
		return nil
	}

	r.doc = d
	d.rules = append(d.rules, r)
	d.restyleAll()
	return nil
}

// RemoveRule unregisters a style rule.
func (d *Document) RemoveRule(r *Rule) error {
	if r.doc != d {
		return ErrRuleNotFound
	}
	if r.kind == RuleRange {
		d.ranges = removeRule(d.ranges, r)
		r.doc = nil
		return nil
	}

	d.rules = removeRule(d.rules, r)
	r.doc = nil
	r.resetMemo()
	d.restyleAll()
	return nil
}

// removeRule deletes r from rules, preserving order.
func removeRule(rules []*Rule, r *Rule) []*Rule {
	for i, o := range rules {
		if o == r {
			copy(rules[i:], rules[i+1:])
			rules[len(rules)-1] = nil
			return rules[:len(rules)-1]
		}
	}
	return rules
}

// Rules returns the registered rules: scanned rules in registration order,
// then Range rules.
func (d *Document) Rules() []*Rule {
	out := make([]*Rule, 0, len(d.rules)+len(d.ranges))
	out = append(out, d.rules...)
	return append(out, d.ranges...)
}

// StylesEnabled returns true if style rules are applied.
func (d *Document) StylesEnabled() bool {
	return d.stylesEnabled
}

// SetStylesEnabled turns style scanning on or off. Turning it on rescans
// the whole document.
func (d *Document) SetStylesEnabled(enabled bool) {
	if enabled == d.stylesEnabled {
		return
	}
	d.stylesEnabled = enabled
	if enabled {
		d.restyleAll()
	}
}

// restyleAll rescans every line.
func (d *Document) restyleAll() {
	d.ApplyStyles(d.lines[0], len(d.lines))
}

// ============================================================================
// Queries
// ============================================================================

// Styles returns the style of every character of the line, with Range rules
// applied.
func (l *Line) Styles() []tcell.Style {
	out := make([]tcell.Style, l.nchars)
	if l.doc == nil || !l.doc.stylesEnabled {
		for i := range out {
			out[i] = tcell.StyleDefault
		}
		return out
	}

	if len(l.styles) == l.nchars {
		copy(out, l.styles)
	} else {
		for i := range out {
			out[i] = tcell.StyleDefault
		}
	}

	for _, r := range l.doc.ranges {
		from, to, ok := r.spanOn(l)
		if !ok {
			continue
		}
		for i := from; i < to; i++ {
			out[i] = r.style
		}
	}
	return out
}

// StyleAt returns the style of the character at col.
func (l *Line) StyleAt(col int) tcell.Style {
	if l.doc == nil || !l.doc.stylesEnabled || col < 0 || col >= l.nchars {
		return tcell.StyleDefault
	}

	style := tcell.StyleDefault
	if len(l.styles) == l.nchars {
		style = l.styles[col]
	}
	for _, r := range l.doc.ranges {
		if from, to, ok := r.spanOn(l); ok && col >= from && col < to {
			style = r.style
		}
	}
	return style
}

// spanOn returns the columns of l covered by a Range rule.
func (r *Rule) spanOn(l *Line) (int, int, bool) {
	a, b := r.a, r.b
	if a.IsDestroyed() || b.IsDestroyed() {
		return 0, 0, false
	}
	a, b = a.ordered(b)
	if a.line.index > l.index || b.line.index < l.index {
		return 0, 0, false
	}
	from, to := 0, l.nchars
	if a.line == l {
		from = a.col
	}
	if b.line == l {
		to = b.col
	}
	if from >= to {
		return 0, 0, false
	}
	return from, to, true
}
