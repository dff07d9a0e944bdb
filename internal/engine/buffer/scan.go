package buffer

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// ApplyStyles rescans style rules after a change starting at line start
// that added lineDelta lines (negative when lines were removed).
//
// The start line and max(1, 1+lineDelta) following lines are always
// rescanned. Scanning continues past that window only while the Multi rule
// carried open into the next line differs from what it was before.
func (d *Document) ApplyStyles(start *Line, lineDelta int) {
	if !d.stylesEnabled || !d.owns(start) {
		return
	}

	window := 1 + max(1, 1+lineDelta)
	scanned := 0
	for l := start; l != nil; {
		if prev := l.Prev(); prev != nil {
			l.bol = prev.eol
		} else {
			l.bol = nil
		}
		d.styleLine(l)
		scanned++

		next := l.Next()
		if next == nil || (scanned >= window && next.bol == l.eol) {
			break
		}
		l = next
	}

	d.logger.Debug("styles applied",
		zap.Int("start", start.index), zap.Int("lines", scanned))
}

// styleLine recomputes the scanned styles of one line from its carried-open
// rule and the registered rules.
func (d *Document) styleLine(l *Line) {
	n := l.nchars
	if cap(l.styles) < n {
		l.styles = make([]tcell.Style, n)
	}
	l.styles = l.styles[:n]
	for i := range l.styles {
		l.styles[i] = tcell.StyleDefault
	}
	l.eol = nil

	for _, r := range d.rules {
		r.resetMemo()
	}

	t := l.chars()
	col := 0

	// Finish a Multi rule left open by the previous line.
	if open := l.bol; open != nil {
		_, end, ok := open.end.FindFrom(l.data, 0)
		if !ok {
			l.fill(0, n, open.style)
			l.eol = open
			return
		}
		col = t.IndexToCol(end)
		l.fill(0, col, open.style)
	}

	for col < n {
		from := t.ColToIndex(col)
		matched := false
		for _, r := range d.rules {
			s, e, ok := r.nextStart(l, from)
			if !ok || s != from {
				continue
			}

			if r.kind == RuleSingle {
				if e == s {
					continue
				}
				endCol := t.IndexToCol(e)
				l.fill(col, endCol, r.style)
				col = endCol
				matched = true
				break
			}

			_, ee, eok := r.end.FindFrom(l.data, e)
			if !eok {
				l.fill(col, n, r.style)
				l.eol = r
				col = n
				matched = true
				break
			}
			endCol := max(t.IndexToCol(ee), col+1)
			l.fill(col, endCol, r.style)
			col = endCol
			matched = true
			break
		}
		if !matched {
			col++
		}
	}
}

// fill sets the scanned style of columns [from, to).
func (l *Line) fill(from, to int, style tcell.Style) {
	if to > len(l.styles) {
		to = len(l.styles)
	}
	for i := max(0, from); i < to; i++ {
		l.styles[i] = style
	}
}
