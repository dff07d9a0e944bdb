package buffer

// Mark is a position in a document that stays attached to its text as the
// document is edited.
//
// An insertion exactly at a mark's column pushes the mark past the inserted
// text unless the mark is lefty. Deletions pull marks back to the deletion
// point. Marks on removed lines move onto the surviving line.
type Mark struct {
	doc    *Document
	line   *Line
	col    int
	target int
	letter byte
	lefty  bool
}

// AddMark creates a mark at line and col. A nil line means the first line.
// The column is clamped into the line.
func (d *Document) AddMark(line *Line, col int) *Mark {
	if !d.owns(line) {
		line = d.lines[0]
	}
	m := &Mark{doc: d}
	line.addMark(m)
	m.col = line.clampCol(col)
	m.target = line.VColOf(m.col)
	return m
}

// AddMarkAt creates a mark at a character offset.
func (d *Document) AddMarkAt(offset int) *Mark {
	line, col := d.LineCol(offset)
	return d.AddMark(line, col)
}

// AddLetteredMark creates a mark registered under letter (a-z). A previous
// holder of the letter is destroyed.
func (d *Document) AddLetteredMark(letter byte, line *Line, col int) (*Mark, error) {
	slot, ok := letterSlot(letter)
	if !ok {
		return nil, ErrInvalidLetter
	}
	if prev := d.lettered[slot]; prev != nil {
		prev.Destroy()
	}
	m := d.AddMark(line, col)
	m.letter = letter
	d.lettered[slot] = m
	return m, nil
}

// LetteredMark returns the mark registered under letter, if any.
func (d *Document) LetteredMark(letter byte) (*Mark, bool) {
	slot, ok := letterSlot(letter)
	if !ok || d.lettered[slot] == nil {
		return nil, false
	}
	return d.lettered[slot], true
}

// letterSlot maps a-z to 0-25.
func letterSlot(letter byte) (int, bool) {
	if letter < 'a' || letter > 'z' {
		return 0, false
	}
	return int(letter - 'a'), true
}

// Clone creates a new mark at the same position.
func (m *Mark) Clone() *Mark {
	if m.line == nil {
		return nil
	}
	c := m.doc.AddMark(m.line, m.col)
	c.target = m.target
	c.lefty = m.lefty
	return c
}

// CloneWithLetter creates a new lettered mark at the same position.
func (m *Mark) CloneWithLetter(letter byte) (*Mark, error) {
	if m.line == nil {
		return nil, ErrDestroyedMark
	}
	c, err := m.doc.AddLetteredMark(letter, m.line, m.col)
	if err != nil {
		return nil, err
	}
	c.target = m.target
	c.lefty = m.lefty
	return c, nil
}

// Destroy detaches the mark from its document. Its letter is released and
// every Range rule it anchors is removed.
func (m *Mark) Destroy() {
	if m.line == nil {
		return
	}
	d := m.doc
	m.line.removeMark(m)
	m.line = nil

	if slot, ok := letterSlot(m.letter); ok && d.lettered[slot] == m {
		d.lettered[slot] = nil
	}
	for i := len(d.ranges) - 1; i >= 0; i-- {
		if r := d.ranges[i]; r.a == m || r.b == m {
			// r is registered with d, so removal cannot fail.
			_ = d.RemoveRule(r)
		}
	}
}

// IsDestroyed returns true once the mark has been destroyed.
func (m *Mark) IsDestroyed() bool {
	return m.line == nil
}

// Document returns the document the mark belongs to.
func (m *Mark) Document() *Document {
	return m.doc
}

// Line returns the line the mark is on, or nil once destroyed.
func (m *Mark) Line() *Line {
	return m.line
}

// Col returns the mark's column.
func (m *Mark) Col() int {
	return m.col
}

// TargetCol returns the display column vertical movement aims for.
func (m *Mark) TargetCol() int {
	return m.target
}

// Letter returns the mark's letter, or 0 if it has none.
func (m *Mark) Letter() byte {
	return m.letter
}

// IsLefty returns true if the mark stays before text inserted at its column.
func (m *Mark) IsLefty() bool {
	return m.lefty
}

// SetLefty sets whether the mark stays before text inserted at its column.
func (m *Mark) SetLefty(lefty bool) {
	m.lefty = lefty
}

// Position returns the mark's line index and column.
func (m *Mark) Position() Position {
	if m.line == nil {
		return Position{}
	}
	return Position{Line: m.line.index, Col: m.col}
}

// Offset returns the mark's character offset in the document.
func (m *Mark) Offset() int {
	if m.line == nil {
		return 0
	}
	return m.doc.Offset(m.line, m.col)
}

// ============================================================================
// Movement
// ============================================================================

// move places the mark at line/col, optionally resetting the target column.
func (m *Mark) move(line *Line, col int, setTarget bool) {
	if m.line == nil || !m.doc.owns(line) {
		return
	}
	if line != m.line {
		m.line.removeMark(m)
		line.addMark(m)
	}
	m.col = line.clampCol(col)
	if setTarget {
		m.target = line.VColOf(m.col)
	}
}

// MoveTo moves the mark to a line index and column, both clamped.
func (m *Mark) MoveTo(lineIndex, col int) {
	if m.line == nil {
		return
	}
	m.move(m.doc.Line(lineIndex), col, true)
}

// MoveToLine moves the mark to a line and column.
func (m *Mark) MoveToLine(line *Line, col int) {
	m.move(line, col, true)
}

// MoveCol moves the mark to a column of its current line.
func (m *Mark) MoveCol(col int) {
	m.move(m.line, col, true)
}

// MoveOffset moves the mark to a character offset.
func (m *Mark) MoveOffset(offset int) {
	if m.line == nil {
		return
	}
	line, col := m.doc.LineCol(offset)
	m.move(line, col, true)
}

// MoveBy moves the mark delta characters, crossing line breaks.
func (m *Mark) MoveBy(delta int) {
	if m.line == nil || delta == 0 {
		return
	}
	line, col := m.line, m.col+delta
	for col < 0 {
		prev := line.Prev()
		if prev == nil {
			col = 0
			break
		}
		line = prev
		col += line.nchars + 1
	}
	for col > line.nchars {
		next := line.Next()
		if next == nil {
			col = line.nchars
			break
		}
		col -= line.nchars + 1
		line = next
	}
	m.move(line, col, true)
}

// MoveVert moves the mark delta lines up or down, aiming for its target
// display column. The target column is kept.
func (m *Mark) MoveVert(delta int) {
	if m.line == nil {
		return
	}
	line := m.doc.Line(m.line.index + delta)
	m.move(line, line.ColFromVCol(m.target), false)
}

// MoveBOL moves the mark to the beginning of its line.
func (m *Mark) MoveBOL() {
	m.move(m.line, 0, true)
}

// MoveEOL moves the mark to the end of its line.
func (m *Mark) MoveEOL() {
	if m.line == nil {
		return
	}
	m.move(m.line, m.line.nchars, true)
}

// MoveBeginning moves the mark to the start of the document.
func (m *Mark) MoveBeginning() {
	if m.line == nil {
		return
	}
	m.move(m.doc.FirstLine(), 0, true)
}

// MoveEnd moves the mark to the end of the document.
func (m *Mark) MoveEnd() {
	if m.line == nil {
		return
	}
	last := m.doc.LastLine()
	m.move(last, last.nchars, true)
}

// Join moves the mark to other's position.
func (m *Mark) Join(other *Mark) {
	if other.line == nil {
		return
	}
	m.move(other.line, other.col, true)
}

// Swap exchanges the positions of m and other.
func (m *Mark) Swap(other *Mark) {
	if m.line == nil || other.line == nil {
		return
	}
	line, col := m.line, m.col
	m.move(other.line, other.col, true)
	other.move(line, col, true)
}

// ============================================================================
// Comparison
// ============================================================================

// Compare returns -1, 0 or 1 as m is before, at or after other.
func (m *Mark) Compare(other *Mark) int {
	return m.Position().Compare(other.Position())
}

// Before returns true if m is before other.
func (m *Mark) Before(other *Mark) bool {
	return m.Compare(other) < 0
}

// After returns true if m is after other.
func (m *Mark) After(other *Mark) bool {
	return m.Compare(other) > 0
}

// Equal returns true if m and other are at the same position.
func (m *Mark) Equal(other *Mark) bool {
	return m.Compare(other) == 0
}

// BeforeOrEqual returns true if m is not after other.
func (m *Mark) BeforeOrEqual(other *Mark) bool {
	return m.Compare(other) <= 0
}

// AfterOrEqual returns true if m is not before other.
func (m *Mark) AfterOrEqual(other *Mark) bool {
	return m.Compare(other) >= 0
}

// Between returns true if m lies in the half-open range spanned by a and b,
// which may be given in either order.
func (m *Mark) Between(a, b *Mark) bool {
	if b.Before(a) {
		a, b = b, a
	}
	return m.AfterOrEqual(a) && m.Before(b)
}

// ordered returns m and other with the earlier one first.
func (m *Mark) ordered(other *Mark) (*Mark, *Mark) {
	if other.Before(m) {
		return other, m
	}
	return m, other
}

// ============================================================================
// Inspection
// ============================================================================

// IsAtBOL returns true if the mark is at the beginning of its line.
func (m *Mark) IsAtBOL() bool {
	return m.col == 0
}

// IsAtEOL returns true if the mark is at the end of its line.
func (m *Mark) IsAtEOL() bool {
	return m.line != nil && m.col >= m.line.nchars
}

// CharAfter returns the character at the mark, or 0 at the end of the line.
func (m *Mark) CharAfter() rune {
	if m.line == nil {
		return 0
	}
	c, ok := m.line.Char(m.col)
	if !ok {
		return 0
	}
	return c.Rune
}

// CharBefore returns the character before the mark, or 0 at the beginning
// of the line.
func (m *Mark) CharBefore() rune {
	if m.line == nil {
		return 0
	}
	c, ok := m.line.Char(m.col - 1)
	if !ok {
		return 0
	}
	return c.Rune
}

// IsAtWordBound reports whether the mark sits on a word boundary. A
// negative side checks for the start of a word, a positive side for the
// end, and zero for either.
func (m *Mark) IsAtWordBound(side int) bool {
	before := isWordChar(m.CharBefore())
	after := isWordChar(m.CharAfter())
	switch {
	case side < 0:
		return !before && after
	case side > 0:
		return before && !after
	default:
		return before != after
	}
}

// NCharsBetween returns the number of characters between m and other.
func (m *Mark) NCharsBetween(other *Mark) int {
	n := other.Offset() - m.Offset()
	if n < 0 {
		return -n
	}
	return n
}
