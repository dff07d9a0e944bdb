package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dshills/linebuf/internal/engine/history"
)

// ============================================================================
// Offset-based edits
// ============================================================================

// Insert inserts text at a character offset.
// Returns the number of characters inserted.
func (d *Document) Insert(offset int, text string) (int, error) {
	line, col := d.LineCol(offset)
	return d.InsertAt(line, col, text)
}

// Delete removes nchars characters starting at a character offset. The
// count is clamped at the end of the document.
// Returns the number of characters deleted.
func (d *Document) Delete(offset, nchars int) (int, error) {
	line, col := d.LineCol(offset)
	return d.DeleteAt(line, col, nchars)
}

// Replace replaces nchars characters at a character offset with text. It is
// equivalent to a delete followed by an insert and records both actions.
// Returns the number of characters inserted.
func (d *Document) Replace(offset, nchars int, text string) (int, error) {
	line, col := d.LineCol(offset)
	return d.ReplaceAt(line, col, nchars, text)
}

// Clear removes all content.
func (d *Document) Clear() error {
	_, err := d.Delete(0, d.charCount)
	return err
}

// Set replaces all content with text and drops the action log.
func (d *Document) Set(text string) error {
	if err := d.Clear(); err != nil {
		return err
	}
	if _, err := d.Insert(0, text); err != nil {
		return err
	}
	d.log.Clear()
	return nil
}

// ============================================================================
// Line-based edits
// ============================================================================

// InsertAt inserts text at a line and column.
// Returns the number of characters inserted.
func (d *Document) InsertAt(line *Line, col int, text string) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if !d.owns(line) {
		return 0, fmt.Errorf("insert: %w", ErrForeignMark)
	}
	if text == "" {
		return 0, nil
	}

	d.insertText(line, line.IndexOf(line.clampCol(col)), text, nil)
	return utf8.RuneCountInString(text), nil
}

// DeleteAt removes nchars characters at a line and column, continuing
// across line breaks. The count is clamped at the end of the document.
// Returns the number of characters deleted.
func (d *Document) DeleteAt(line *Line, col, nchars int) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if !d.owns(line) {
		return 0, fmt.Errorf("delete: %w", ErrForeignMark)
	}

	col = line.clampCol(col)
	endLine, endCol, n := d.findEnd(line, col, nchars)
	if n == 0 {
		return 0, nil
	}
	if n < nchars {
		d.logger.Debug("delete clamped at end of document",
			zap.Int("requested", nchars), zap.Int("deleted", n))
	}

	d.deleteText(line, line.IndexOf(col), endLine, endLine.IndexOf(endCol))
	return n, nil
}

// ReplaceAt replaces nchars characters at a line and column with text.
// Returns the number of characters inserted.
func (d *Document) ReplaceAt(line *Line, col, nchars int, text string) (int, error) {
	if _, err := d.DeleteAt(line, col, nchars); err != nil {
		return 0, err
	}
	return d.InsertAt(line, col, text)
}

// insertText inserts text at byte index idx of line and records the change.
// Marks named by anchors are put back where a deletion of the same text
// found them.
func (d *Document) insertText(line *Line, idx int, text string, anchors []history.Anchor) *history.Action {
	restore := d.restoreMarks(anchors)
	before := line.nchars
	a := &history.Action{
		Kind:      history.KindInsert,
		StartLine: line.index,
		StartCol:  line.ColFromIndex(idx),
		StartByte: idx,
		ByteDelta: len(text),
		Text:      text,
	}

	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		a.CharDelta = line.insertBytes(idx, []byte(text))
		a.EndLine = line.index
		a.EndCol = line.ColFromIndex(idx + len(text))
		restore()
		d.update(line, a)
		return a
	}

	// Break the line, fill the head, then link the middle and the tail.
	tail := line.split(idx)
	line.insertBytes(len(line.data), []byte(parts[0]))

	added := make([]*Line, 0, len(parts)-1)
	after := line.nchars + len(parts) - 1
	for _, p := range parts[1 : len(parts)-1] {
		mid := newLine(d, []byte(p))
		added = append(added, mid)
		after += mid.nchars
	}
	last := parts[len(parts)-1]
	tail.insertBytes(0, []byte(last))
	added = append(added, tail)
	after += tail.nchars

	d.lines = insertLines(d.lines, line.index+1, added)
	d.renumber(line.index + 1)

	a.CharDelta = after - before
	a.LineDelta = len(added)
	a.EndLine = tail.index
	a.EndCol = tail.ColFromIndex(len(last))
	restore()
	d.update(line, a)
	return a
}

// deleteText removes the text from line/idx up to endLine/endIdx and
// records the change. The positions of the marks it displaces are kept in
// the action's anchors.
func (d *Document) deleteText(line *Line, idx int, endLine *Line, endIdx int) *history.Action {
	text := d.span(line, idx, endLine, endIdx)
	col := line.ColFromIndex(idx)

	before := line.nchars
	for _, l := range d.lines[line.index+1 : endLine.index+1] {
		before += l.nchars + 1
	}
	anchors := d.anchorMarks(line, col, endLine)

	a := &history.Action{
		Kind:      history.KindDelete,
		StartLine: line.index,
		StartCol:  col,
		StartByte: idx,
		EndLine:   line.index,
		EndCol:    col,
		ByteDelta: -len(text),
		LineDelta: line.index - endLine.index,
		Text:      text,
	}

	if endLine == line {
		line.deleteBytes(idx, endIdx)
	} else {
		line.deleteBytes(idx, len(line.data))
		for i := line.index + 1; i < endLine.index; i++ {
			line.adoptMarks(d.lines[i], line.nchars)
		}
		line.join(endLine, endIdx)

		first, last, count := line.index+1, endLine.index+1, len(d.lines)
		for _, l := range d.lines[first:last] {
			l.detach()
		}
		d.lines = append(d.lines[:first], d.lines[last:]...)
		clearLines(d.lines[len(d.lines):count])
		d.renumber(first)
	}

	a.CharDelta = line.nchars - before
	for i := range anchors {
		m := anchors[i].Ref.(*Mark)
		anchors[i].AfterLine, anchors[i].AfterCol = m.line.index, m.col
	}
	a.Anchors = anchors
	d.update(line, a)
	return a
}

// span returns the text from line/idx up to endLine/endIdx.
func (d *Document) span(line *Line, idx int, endLine *Line, endIdx int) string {
	if line == endLine {
		return string(line.data[idx:endIdx])
	}
	var b strings.Builder
	b.Write(line.data[idx:])
	for _, l := range d.lines[line.index+1 : endLine.index] {
		b.WriteByte('\n')
		b.Write(l.data)
	}
	b.WriteByte('\n')
	b.Write(endLine.data[:endIdx])
	return b.String()
}

// anchorMarks records the marks a deletion starting at line/col and ending
// on endLine may move: marks at or after col on the start line and every
// mark on the lines after it.
func (d *Document) anchorMarks(line *Line, col int, endLine *Line) []history.Anchor {
	var anchors []history.Anchor
	for _, l := range d.lines[line.index : endLine.index+1] {
		for _, m := range l.marks {
			if l == line && m.col < col {
				continue
			}
			anchors = append(anchors, history.Anchor{Ref: m, Line: l.index, Col: m.col})
		}
	}
	return anchors
}

// restoreMarks picks the anchored marks still sitting where the recorded
// deletion left them and returns a function that moves them back to where
// they were before it. Marks that moved since are left alone.
func (d *Document) restoreMarks(anchors []history.Anchor) func() {
	type spot struct {
		m         *Mark
		line, col int
	}
	var pending []spot
	for _, an := range anchors {
		m, ok := an.Ref.(*Mark)
		if !ok || m.doc != d || m.line == nil {
			continue
		}
		if m.line.index != an.AfterLine || m.col != an.AfterCol {
			continue
		}
		pending = append(pending, spot{m, an.Line, an.Col})
	}
	return func() {
		for _, p := range pending {
			if p.line < len(d.lines) {
				p.m.move(d.lines[p.line], p.col, true)
			}
		}
	}
}

// findEnd walks nchars characters forward from line/col, counting each line
// break as one, and stops at the end of the document. Returns the end
// position and the number of characters covered.
func (d *Document) findEnd(line *Line, col, nchars int) (*Line, int, int) {
	if nchars <= 0 {
		return line, col, 0
	}

	remaining := nchars
	for {
		avail := line.nchars - col
		if remaining <= avail {
			return line, col + remaining, nchars
		}
		remaining -= avail
		next := line.Next()
		if next == nil {
			return line, line.nchars, nchars - remaining
		}
		remaining--
		line, col = next, 0
		if remaining == 0 {
			return line, 0, nchars
		}
	}
}

// update runs the bookkeeping shared by every mutation.
func (d *Document) update(start *Line, a *history.Action) {
	d.byteCount += a.ByteDelta
	d.charCount += a.CharDelta
	d.textDirty = true
	d.modified = true

	if d.stylesEnabled {
		d.ApplyStyles(start, a.LineDelta)
	}

	// Record before notifying so edits made by the callback land after a.
	if !d.replaying {
		d.log.Append(a)
	}

	if d.onChange != nil && !d.inCallback {
		d.inCallback = true
		defer func() { d.inCallback = false }()
		d.onChange(d, a)
	}
}

// insertLines inserts added into lines at position at.
func insertLines(lines []*Line, at int, added []*Line) []*Line {
	lines = append(lines, added...)
	copy(lines[at+len(added):], lines[at:len(lines)-len(added)])
	copy(lines[at:], added)
	return lines
}

// clearLines nils vacated slots so removed lines can be collected.
func clearLines(lines []*Line) {
	for i := range lines {
		lines[i] = nil
	}
}
