package buffer

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// finder returns the first match in data starting at or after byte from.
type finder func(data []byte, from int) (start, end int, ok bool)

// stringFinder matches a literal string.
func stringFinder(s string) finder {
	needle := []byte(s)
	return func(data []byte, from int) (int, int, bool) {
		if from > len(data) {
			return 0, 0, false
		}
		i := bytes.Index(data[from:], needle)
		if i < 0 {
			return 0, 0, false
		}
		return from + i, from + i + len(needle), true
	}
}

// patternFinder matches a compiled pattern.
func patternFinder(p *Pattern) finder {
	return p.FindFrom
}

// findNext searches forward from line/col. A match starting at the mark is
// found; at the end of a line the search begins on the next line.
func (d *Document) findNext(line *Line, col int, find finder) (Match, error) {
	from := line.IndexOf(col)
	if col >= line.nchars {
		line, from = line.Next(), 0
	}
	for ; line != nil; line, from = line.Next(), 0 {
		start, end, ok := find(line.data, from)
		if !ok {
			continue
		}
		return line.match(start, end), nil
	}
	return Match{}, ErrNotFound
}

// findPrev searches backward for the last match starting before line/col.
// At the beginning of a line the search begins on the previous line.
func (d *Document) findPrev(line *Line, col int, find finder) (Match, error) {
	limit := line.IndexOf(col)
	if col <= 0 {
		line = line.Prev()
		if line != nil {
			limit = len(line.data) + 1
		}
	}
	for line != nil {
		if start, end, ok := lastMatch(line.data, limit, find); ok {
			return line.match(start, end), nil
		}
		line = line.Prev()
		if line != nil {
			limit = len(line.data) + 1
		}
	}
	return Match{}, ErrNotFound
}

// lastMatch returns the last match in data starting before limit. Matches
// may overlap.
func lastMatch(data []byte, limit int, find finder) (int, int, bool) {
	var start, end int
	found := false
	for from := 0; from < limit && from <= len(data); {
		s, e, ok := find(data, from)
		if !ok || s >= limit {
			break
		}
		start, end, found = s, e, true
		if s >= len(data) {
			break
		}
		_, size := utf8.DecodeRune(data[s:])
		from = s + size
	}
	return start, end, found
}

// match converts a byte range of the line into a Match.
func (l *Line) match(start, end int) Match {
	col := l.ColFromIndex(start)
	return Match{Line: l, Col: col, NChars: l.ColFromIndex(end) - col}
}

// FindNextString finds the next occurrence of s at or after the mark.
func (m *Mark) FindNextString(s string) (Match, error) {
	if m.line == nil {
		return Match{}, ErrDestroyedMark
	}
	return m.doc.findNext(m.line, m.col, stringFinder(s))
}

// FindPrevString finds the last occurrence of s starting before the mark.
func (m *Mark) FindPrevString(s string) (Match, error) {
	if m.line == nil {
		return Match{}, ErrDestroyedMark
	}
	return m.doc.findPrev(m.line, m.col, stringFinder(s))
}

// FindNextPattern finds the next match of p at or after the mark.
func (m *Mark) FindNextPattern(p *Pattern) (Match, error) {
	if m.line == nil {
		return Match{}, ErrDestroyedMark
	}
	return m.doc.findNext(m.line, m.col, patternFinder(p))
}

// FindPrevPattern finds the last match of p starting before the mark.
func (m *Mark) FindPrevPattern(p *Pattern) (Match, error) {
	if m.line == nil {
		return Match{}, ErrDestroyedMark
	}
	return m.doc.findPrev(m.line, m.col, patternFinder(p))
}

// FindNextRegexp compiles expr case-insensitively and finds its next match.
func (m *Mark) FindNextRegexp(expr string) (Match, error) {
	p, err := CompilePattern(expr, true)
	if err != nil {
		return Match{}, err
	}
	return m.FindNextPattern(p)
}

// FindPrevRegexp compiles expr case-insensitively and finds its last match
// before the mark.
func (m *Mark) FindPrevRegexp(expr string) (Match, error) {
	p, err := CompilePattern(expr, true)
	if err != nil {
		return Match{}, err
	}
	return m.FindPrevPattern(p)
}

// moveToMatch moves the mark to the start of a successful match.
func (m *Mark) moveToMatch(match Match, err error) (Match, error) {
	if err != nil {
		return match, err
	}
	m.move(match.Line, match.Col, true)
	return match, nil
}

// MoveNextString moves the mark to the next occurrence of s.
func (m *Mark) MoveNextString(s string) (Match, error) {
	return m.moveToMatch(m.FindNextString(s))
}

// MovePrevString moves the mark to the previous occurrence of s.
func (m *Mark) MovePrevString(s string) (Match, error) {
	return m.moveToMatch(m.FindPrevString(s))
}

// MoveNextRegexp moves the mark to the next match of expr.
func (m *Mark) MoveNextRegexp(expr string) (Match, error) {
	return m.moveToMatch(m.FindNextRegexp(expr))
}

// MovePrevRegexp moves the mark to the previous match of expr.
func (m *Mark) MovePrevRegexp(expr string) (Match, error) {
	return m.moveToMatch(m.FindPrevRegexp(expr))
}

// MoveNextPattern moves the mark to the next match of p.
func (m *Mark) MoveNextPattern(p *Pattern) (Match, error) {
	return m.moveToMatch(m.FindNextPattern(p))
}

// MovePrevPattern moves the mark to the previous match of p.
func (m *Mark) MovePrevPattern(p *Pattern) (Match, error) {
	return m.moveToMatch(m.FindPrevPattern(p))
}

// nudge runs a forward search from one character past the mark.
func (m *Mark) nudge(find func(*Mark) (Match, error)) (Match, error) {
	if m.line == nil {
		return Match{}, ErrDestroyedMark
	}
	ahead := m.Clone()
	defer ahead.Destroy()
	ahead.MoveBy(1)
	return m.moveToMatch(find(ahead))
}

// MoveNextStringNudge moves to the next occurrence of s that starts after
// the mark.
func (m *Mark) MoveNextStringNudge(s string) (Match, error) {
	return m.nudge(func(p *Mark) (Match, error) { return p.FindNextString(s) })
}

// MoveNextRegexpNudge moves to the next match of expr that starts after the
// mark.
func (m *Mark) MoveNextRegexpNudge(expr string) (Match, error) {
	return m.nudge(func(p *Mark) (Match, error) { return p.FindNextRegexp(expr) })
}

// MoveNextPatternNudge moves to the next match of p that starts after the
// mark.
func (m *Mark) MoveNextPatternNudge(p *Pattern) (Match, error) {
	return m.nudge(func(ahead *Mark) (Match, error) { return ahead.FindNextPattern(p) })
}

// ============================================================================
// Brackets and words
// ============================================================================

// bracketPairs maps each bracket to its partner.
var bracketPairs = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
}

// isOpenBracket returns true for ( [ {.
func isOpenBracket(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}

// isWordChar returns true for letters, digits and underscore.
func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// walkChars visits up to maxChars characters starting at line/col, moving
// forward or backward. Line breaks count toward the limit but are not
// visited. fn returns true to stop.
func walkChars(line *Line, col int, forward bool, maxChars int, fn func(l *Line, col int, r rune) bool) bool {
	for n := 0; line != nil && (maxChars <= 0 || n < maxChars); n++ {
		switch {
		case col < 0:
			line = line.Prev()
			if line != nil {
				col = line.nchars - 1
			}
			continue
		case col >= line.nchars:
			line, col = line.Next(), 0
			continue
		}
		c, _ := line.Char(col)
		if fn(line, col, c.Rune) {
			return true
		}
		if forward {
			col++
		} else {
			col--
		}
	}
	return false
}

// FindBracketPair finds the bracket matching the one at the mark, looking
// at most maxChars characters away. Zero means no limit.
func (m *Mark) FindBracketPair(maxChars int) (Match, error) {
	if m.line == nil {
		return Match{}, ErrDestroyedMark
	}
	open := m.CharAfter()
	partner, ok := bracketPairs[open]
	if !ok {
		return Match{}, ErrNotFound
	}

	forward := isOpenBracket(open)
	start := m.col + 1
	if !forward {
		start = m.col - 1
	}

	depth := 0
	var found Match
	hit := walkChars(m.line, start, forward, maxChars, func(l *Line, col int, r rune) bool {
		switch r {
		case open:
			depth++
		case partner:
			if depth == 0 {
				found = Match{Line: l, Col: col, NChars: 1}
				return true
			}
			depth--
		}
		return false
	})
	if !hit {
		return Match{}, ErrNotFound
	}
	return found, nil
}

// FindBracketTop finds the nearest unclosed opening bracket before the mark,
// looking at most maxChars characters back. Zero means no limit.
func (m *Mark) FindBracketTop(maxChars int) (Match, error) {
	if m.line == nil {
		return Match{}, ErrDestroyedMark
	}
	depth := map[rune]int{}
	var found Match
	hit := walkChars(m.line, m.col-1, false, maxChars, func(l *Line, col int, r rune) bool {
		partner, ok := bracketPairs[r]
		if !ok {
			return false
		}
		if !isOpenBracket(r) {
			depth[r]++
			return false
		}
		if depth[partner] == 0 {
			found = Match{Line: l, Col: col, NChars: 1}
			return true
		}
		depth[partner]--
		return false
	})
	if !hit {
		return Match{}, ErrNotFound
	}
	return found, nil
}

// MoveBracketPair moves the mark to the bracket matching the one at it.
func (m *Mark) MoveBracketPair(maxChars int) (Match, error) {
	return m.moveToMatch(m.FindBracketPair(maxChars))
}

// MoveBracketTop moves the mark to the nearest unclosed opening bracket.
func (m *Mark) MoveBracketTop(maxChars int) (Match, error) {
	return m.moveToMatch(m.FindBracketTop(maxChars))
}
