package buffer

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/linebuf/internal/engine/chars"
)

// storage is the ownership mode of a line's bytes.
type storage uint8

const (
	// storageOwned means the line owns a private, writable copy of its bytes.
	storageOwned storage = iota

	// storageSlab means the line's bytes are a view into a block shared by
	// every line of a bulk load. The block may be a read-only memory mapping.
	storageSlab
)

// Line is one line of a document, without its line break.
type Line struct {
	doc   *Document
	data  []byte
	store storage
	index int

	nchars     int
	table      chars.Table
	tableDirty bool

	marks []*Mark

	// Multi rules open at the start and at the end of the line.
	bol *Rule
	eol *Rule

	styles []tcell.Style
}

// newLine creates an owned line holding a copy of data.
func newLine(d *Document, data []byte) *Line {
	l := &Line{doc: d, tableDirty: true}
	if len(data) > 0 {
		l.data = append([]byte(nil), data...)
	}
	l.nchars = utf8.RuneCount(l.data)
	return l
}

// newSlabLine creates a line viewing data without copying it.
func newSlabLine(d *Document, data []byte) *Line {
	return &Line{
		doc:        d,
		data:       data[:len(data):len(data)],
		store:      storageSlab,
		nchars:     utf8.RuneCount(data),
		tableDirty: true,
	}
}

// Index returns the 0-based position of the line in its document.
func (l *Line) Index() int {
	return l.index
}

// Document returns the document the line belongs to, or nil once the line
// has been removed.
func (l *Line) Document() *Document {
	return l.doc
}

// Len returns the byte length of the line.
func (l *Line) Len() int {
	return len(l.data)
}

// CharCount returns the number of characters in the line.
func (l *Line) CharCount() int {
	return l.nchars
}

// Text returns the line content.
func (l *Line) Text() string {
	return string(l.data)
}

// Bytes returns a copy of the line content.
func (l *Line) Bytes() []byte {
	return append([]byte(nil), l.data...)
}

// IsSlabbed returns true while the line still views shared load storage.
func (l *Line) IsSlabbed() bool {
	return l.store == storageSlab
}

// Next returns the following line, or nil for the last line.
func (l *Line) Next() *Line {
	if l.doc == nil || l.index+1 >= len(l.doc.lines) {
		return nil
	}
	return l.doc.lines[l.index+1]
}

// Prev returns the preceding line, or nil for the first line.
func (l *Line) Prev() *Line {
	if l.doc == nil || l.index == 0 {
		return nil
	}
	return l.doc.lines[l.index-1]
}

// Marks returns the marks anchored on the line.
func (l *Line) Marks() []*Mark {
	return append([]*Mark(nil), l.marks...)
}

// chars returns the character table, rebuilding it if the line changed.
func (l *Line) chars() *chars.Table {
	if l.tableDirty {
		tw := DefaultTabWidth
		if l.doc != nil {
			tw = l.doc.tabWidth
		}
		l.table = chars.Build(l.data, tw)
		l.tableDirty = false
	}
	return &l.table
}

// Char returns the character at col.
func (l *Line) Char(col int) (chars.Char, bool) {
	return l.chars().Char(col)
}

// VWidth returns the display width of the line.
func (l *Line) VWidth() int {
	return l.chars().VWidth
}

// VColOf returns the display column where col starts.
func (l *Line) VColOf(col int) int {
	return l.chars().VColOf(col)
}

// ColFromVCol returns the first column starting at or after display column vcol.
func (l *Line) ColFromVCol(vcol int) int {
	return l.chars().ColFromVCol(vcol)
}

// ColFromIndex returns the column of the character containing a byte index.
func (l *Line) ColFromIndex(index int) int {
	return l.chars().IndexToCol(index)
}

// IndexOf returns the byte index where col starts.
func (l *Line) IndexOf(col int) int {
	return l.chars().ColToIndex(col)
}

// clampCol limits col to [0, CharCount].
func (l *Line) clampCol(col int) int {
	if col < 0 {
		return 0
	}
	if col > l.nchars {
		return l.nchars
	}
	return col
}

// own promotes slab storage to a private copy before a mutation.
func (l *Line) own() {
	if l.store == storageOwned {
		return
	}
	if l.doc != nil {
		l.doc.logger.Debug("promote slab line")
	}
	l.data = append([]byte(nil), l.data...)
	l.store = storageOwned
}

// changed resets derived state after the bytes changed.
func (l *Line) changed() {
	l.nchars = utf8.RuneCount(l.data)
	l.tableDirty = true
}

// detach disconnects a removed line from its document.
func (l *Line) detach() {
	l.doc = nil
	l.data = nil
	l.store = storageOwned
	l.nchars = 0
	l.table = chars.Table{}
	l.tableDirty = true
	l.marks = nil
	l.styles = nil
	l.bol = nil
	l.eol = nil
}

// ============================================================================
// Single-line edits
// ============================================================================

// insertBytes inserts newline-free data at byte index idx and rebases
// marks. Returns the change in the line's character count, which differs
// from the rune count of data when invalid UTF-8 merges with the bytes
// around it.
func (l *Line) insertBytes(idx int, data []byte) int {
	if len(data) == 0 {
		return 0
	}
	l.own()
	idx = min(max(idx, 0), len(l.data))
	col := l.ColFromIndex(idx)
	boundary := l.IndexOf(col) == idx
	before := l.nchars

	buf := make([]byte, 0, len(l.data)+len(data))
	buf = append(buf, l.data[:idx]...)
	buf = append(buf, data...)
	buf = append(buf, l.data[idx:]...)
	l.data = buf
	l.changed()

	delta := l.nchars - before
	for _, m := range l.marks {
		if m.col > col || (m.col == col && boundary && !m.lefty) {
			m.col = l.clampCol(m.col + delta)
		}
	}
	return delta
}

// deleteBytes removes the bytes [start, end) and rebases marks. Returns the
// change in the line's character count.
func (l *Line) deleteBytes(start, end int) int {
	start = min(max(start, 0), len(l.data))
	end = min(max(end, start), len(l.data))
	if start == end {
		return 0
	}
	l.own()
	col := l.ColFromIndex(start)
	before := l.nchars
	l.data = append(l.data[:start], l.data[end:]...)
	l.changed()

	delta := l.nchars - before
	for _, m := range l.marks {
		if m.col > col {
			m.col = l.clampCol(max(col, m.col+delta))
		}
	}
	return delta
}

// split breaks the line at byte index idx. The suffix becomes a new detached
// line that the caller links into the document. Marks past the split, and
// right-affine marks at it, move with the suffix.
func (l *Line) split(idx int) *Line {
	l.own()
	idx = min(max(idx, 0), len(l.data))
	col := l.ColFromIndex(idx)
	boundary := l.IndexOf(col) == idx

	next := newLine(l.doc, l.data[idx:])
	l.data = l.data[:idx]
	l.changed()

	kept := l.marks[:0]
	for _, m := range l.marks {
		if m.col > col || (m.col == col && boundary && !m.lefty) {
			m.line = next
			m.col = next.clampCol(m.col - col)
			next.marks = append(next.marks, m)
			continue
		}
		m.col = l.clampCol(m.col)
		kept = append(kept, m)
	}
	clearMarks(l.marks, len(kept))
	l.marks = kept
	return next
}

// join appends other's content from byte index from onward to l. Marks on
// other before from land at the join point; later ones keep their distance
// from it.
func (l *Line) join(other *Line, from int) {
	l.own()
	base := l.nchars
	from = min(max(from, 0), len(other.data))
	fromCol := other.ColFromIndex(from)

	l.data = append(l.data, other.data[from:]...)
	l.changed()

	for _, m := range other.marks {
		m.line = l
		m.col = l.clampCol(base + max(0, m.col-fromCol))
		l.marks = append(l.marks, m)
	}
	other.marks = nil
}

// adoptMarks moves every mark of other to col on l.
func (l *Line) adoptMarks(other *Line, col int) {
	for _, m := range other.marks {
		m.line = l
		m.col = col
		l.marks = append(l.marks, m)
	}
	other.marks = nil
}

// addMark anchors m on the line.
func (l *Line) addMark(m *Mark) {
	m.line = l
	l.marks = append(l.marks, m)
}

// removeMark detaches m from the line.
func (l *Line) removeMark(m *Mark) {
	for i, o := range l.marks {
		if o == m {
			last := len(l.marks) - 1
			l.marks[i] = l.marks[last]
			l.marks[last] = nil
			l.marks = l.marks[:last]
			return
		}
	}
}

// clearMarks nils the tail of a filtered mark slice so removed marks can be
// collected.
func clearMarks(marks []*Mark, from int) {
	for i := from; i < len(marks); i++ {
		marks[i] = nil
	}
}

// ============================================================================
// Line-relative edits
// ============================================================================

// advance moves col past the end of l into following lines, counting each
// line break as one character.
func (l *Line) advance(col int) (*Line, int) {
	line := l
	if col < 0 {
		col = 0
	}
	for col > line.nchars {
		next := line.Next()
		if next == nil {
			return line, line.nchars
		}
		col -= line.nchars + 1
		line = next
	}
	return line, col
}

// Insert inserts text at col. A col past the end of the line continues onto
// the following lines. Returns the number of characters inserted.
func (l *Line) Insert(col int, text string) (int, error) {
	if l.doc == nil {
		return 0, ErrClosed
	}
	line, c := l.advance(col)
	return l.doc.InsertAt(line, c, text)
}

// Delete removes nchars characters at col, continuing across line breaks.
// Returns the number of characters deleted.
func (l *Line) Delete(col, nchars int) (int, error) {
	if l.doc == nil {
		return 0, ErrClosed
	}
	line, c := l.advance(col)
	return l.doc.DeleteAt(line, c, nchars)
}

// Replace replaces nchars characters at col with text.
// Returns the number of characters inserted.
func (l *Line) Replace(col, nchars int, text string) (int, error) {
	if l.doc == nil {
		return 0, ErrClosed
	}
	line, c := l.advance(col)
	return l.doc.ReplaceAt(line, c, nchars, text)
}
