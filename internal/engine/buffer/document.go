package buffer

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/linebuf/internal/engine/history"
)

// ChangeFunc is called after every successful mutation with the action it
// produced. Mutations made from inside the callback are applied and recorded
// but do not trigger it again.
type ChangeFunc func(d *Document, a *history.Action)

// Document is a text buffer stored as an ordered sequence of lines.
//
// A Document is not safe for concurrent use.
type Document struct {
	id    string
	lines []*Line

	byteCount int
	charCount int
	tabWidth  int

	// Flattened text cache
	text      []byte
	textDirty bool

	log       *history.Log
	replaying bool

	lettered  [26]*Mark
	registers [26][]byte

	// Style rules
	rules         []*Rule // single and multi, in registration order
	ranges        []*Rule
	stylesEnabled bool

	onChange   ChangeFunc
	inCallback bool

	// File state
	path      string
	modTime   time.Time
	modified  bool
	mapping   []byte
	largeFile int64

	closed bool
	logger *zap.Logger
}

// New creates an empty document holding a single empty line.
func New(opts ...Option) *Document {
	d := &Document{
		id:            uuid.NewString(),
		tabWidth:      DefaultTabWidth,
		log:           history.NewLog(0),
		stylesEnabled: true,
		largeFile:     DefaultLargeFileThreshold,
		logger:        zap.NewNop(),
		textDirty:     true,
	}

	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(zap.String("doc", d.id))

	d.lines = []*Line{newLine(d, nil)}
	return d
}

// NewFromString creates a document with the given content. The initial
// content is not recorded in the action log.
func NewFromString(s string, opts ...Option) *Document {
	d := New(opts...)
	d.setSlab([]byte(s))
	return d
}

// NewFromReader creates a document from the contents of r.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	d := New(opts...)
	if err := d.LoadReader(r); err != nil {
		return nil, err
	}
	return d, nil
}

// ID returns the unique id of the document.
func (d *Document) ID() string {
	return d.id
}

// Logger returns the document's logger.
func (d *Document) Logger() *zap.Logger {
	return d.logger
}

// ============================================================================
// Counters and lines
// ============================================================================

// LineCount returns the number of lines. A document always has at least one.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// ByteCount returns the length of the content in bytes, line breaks included.
func (d *Document) ByteCount() int {
	return d.byteCount
}

// CharCount returns the length of the content in characters, line breaks
// included.
func (d *Document) CharCount() int {
	return d.charCount
}

// IsEmpty returns true if the document has no content.
func (d *Document) IsEmpty() bool {
	return d.byteCount == 0
}

// TabWidth returns the tab width.
func (d *Document) TabWidth() int {
	return d.tabWidth
}

// SetTabWidth changes the tab width and invalidates every character table.
func (d *Document) SetTabWidth(width int) error {
	if width < 1 {
		return ErrInvalidTabWidth
	}
	if width == d.tabWidth {
		return nil
	}
	d.tabWidth = width
	for _, l := range d.lines {
		l.tableDirty = true
	}
	return nil
}

// Line returns the line at index, clamped into range.
func (d *Document) Line(index int) *Line {
	if index < 0 {
		index = 0
	}
	if index >= len(d.lines) {
		index = len(d.lines) - 1
	}
	return d.lines[index]
}

// FirstLine returns the first line.
func (d *Document) FirstLine() *Line {
	return d.lines[0]
}

// LastLine returns the last line.
func (d *Document) LastLine() *Line {
	return d.lines[len(d.lines)-1]
}

// Lines returns the document's lines in order.
func (d *Document) Lines() []*Line {
	return append([]*Line(nil), d.lines...)
}

// owns returns true if l is a live line of d.
func (d *Document) owns(l *Line) bool {
	return l != nil && l.doc == d && l.index < len(d.lines) && d.lines[l.index] == l
}

// renumber refreshes line indexes from position from onward.
func (d *Document) renumber(from int) {
	for i := from; i < len(d.lines); i++ {
		d.lines[i].index = i
	}
}

// ============================================================================
// Coordinates
// ============================================================================

// LineCol converts a character offset into a line and column.
// Offsets are clamped into the document.
func (d *Document) LineCol(offset int) (*Line, int) {
	if offset <= 0 {
		return d.lines[0], 0
	}
	for _, l := range d.lines {
		if offset <= l.nchars {
			return l, offset
		}
		offset -= l.nchars + 1
	}
	last := d.LastLine()
	return last, last.nchars
}

// Offset converts a line and column into a character offset.
func (d *Document) Offset(line *Line, col int) int {
	if !d.owns(line) {
		return 0
	}
	offset := 0
	for _, l := range d.lines[:line.index] {
		offset += l.nchars + 1
	}
	return offset + line.clampCol(col)
}

// Substr returns the text between two positions and its length in
// characters. Positions are clamped and may be given in either order.
func (d *Document) Substr(startLine *Line, startCol int, endLine *Line, endCol int) (string, int) {
	if !d.owns(startLine) || !d.owns(endLine) {
		return "", 0
	}
	startCol = startLine.clampCol(startCol)
	endCol = endLine.clampCol(endCol)
	if (Position{endLine.index, endCol}).Before(Position{startLine.index, startCol}) {
		startLine, startCol, endLine, endCol = endLine, endCol, startLine, startCol
	}

	if startLine == endLine {
		s := startLine.data[startLine.IndexOf(startCol):startLine.IndexOf(endCol)]
		return string(s), endCol - startCol
	}

	var sb strings.Builder
	n := startLine.nchars - startCol
	sb.Write(startLine.data[startLine.IndexOf(startCol):])
	for l := startLine.Next(); l != endLine; l = l.Next() {
		sb.WriteByte('\n')
		sb.Write(l.data)
		n += 1 + l.nchars
	}
	sb.WriteByte('\n')
	sb.Write(endLine.data[:endLine.IndexOf(endCol)])
	n += 1 + endCol
	return sb.String(), n
}

// Bytes returns the flattened content. The returned slice is cached until
// the next mutation and must not be modified.
func (d *Document) Bytes() []byte {
	if d.textDirty {
		var buf bytes.Buffer
		buf.Grow(d.byteCount)
		for i, l := range d.lines {
			if i > 0 {
				buf.WriteByte('\n')
			}
			buf.Write(l.data)
		}
		d.text = buf.Bytes()
		d.textDirty = false
	}
	return d.text
}

// Text returns the flattened content as a string.
func (d *Document) Text() string {
	return string(d.Bytes())
}

// String implements fmt.Stringer.
func (d *Document) String() string {
	return d.Text()
}

// ============================================================================
// Bulk load
// ============================================================================

// setSlab replaces the content with lines viewing data. Every mark is moved
// to the start of the document and history is cleared.
func (d *Document) setSlab(data []byte) {
	old := d.lines

	lines := make([]*Line, 0, bytes.Count(data, []byte{'\n'})+1)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, newSlabLine(d, data))
			break
		}
		lines = append(lines, newSlabLine(d, data[:i]))
		data = data[i+1:]
	}

	d.lines = lines
	d.renumber(0)

	first := d.lines[0]
	for _, l := range old {
		first.adoptMarks(l, 0)
		l.detach()
	}

	d.recount()
	d.log.Clear()
	d.textDirty = true
	d.ApplyStyles(first, len(d.lines))
}

// recount recomputes the byte and character counters from the lines.
func (d *Document) recount() {
	d.byteCount = len(d.lines) - 1
	d.charCount = len(d.lines) - 1
	for _, l := range d.lines {
		d.byteCount += len(l.data)
		d.charCount += l.nchars
	}
}

// SetChangeFunc sets the change notification callback. Nil removes it.
func (d *Document) SetChangeFunc(fn ChangeFunc) {
	d.onChange = fn
}
