package buffer

import (
	"fmt"
	"regexp"
	"regexp/syntax"
)

// Pattern is a compiled regular expression matched against single lines
// from a byte offset.
type Pattern struct {
	expr string
	re   *regexp.Regexp

	// contextual is set when a match depends on text left of its start
	// (^, \A, \b, \B). Such patterns are matched against the whole line
	// instead of the suffix.
	contextual bool
}

// CompilePattern compiles expr, optionally case-insensitive.
func CompilePattern(expr string, caseless bool) (*Pattern, error) {
	src := expr
	if caseless {
		src = "(?i)" + expr
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, expr, err)
	}
	parsed, err := syntax.Parse(src, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, expr, err)
	}
	return &Pattern{expr: expr, re: re, contextual: leftContext(parsed)}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(expr string, caseless bool) *Pattern {
	p, err := CompilePattern(expr, caseless)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.expr
}

// Regexp returns the underlying regular expression.
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// FindFrom returns the leftmost match in data starting at or after byte from.
func (p *Pattern) FindFrom(data []byte, from int) (start, end int, ok bool) {
	if from < 0 {
		from = 0
	}
	if from > len(data) {
		return 0, 0, false
	}
	if !p.contextual {
		loc := p.re.FindIndex(data[from:])
		if loc == nil {
			return 0, 0, false
		}
		return from + loc[0], from + loc[1], true
	}
	for _, loc := range p.re.FindAllIndex(data, -1) {
		if loc[0] >= from {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

// leftContext reports whether re contains an assertion about the text
// before the current position.
func leftContext(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginLine, syntax.OpBeginText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	}
	for _, sub := range re.Sub {
		if leftContext(sub) {
			return true
		}
	}
	return false
}
