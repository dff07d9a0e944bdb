package buffer

// InsertBefore inserts text at the mark, leaving the mark after it unless
// the mark is lefty. Returns the number of characters inserted.
func (m *Mark) InsertBefore(text string) (int, error) {
	if m.line == nil {
		return 0, ErrDestroyedMark
	}
	return m.doc.InsertAt(m.line, m.col, text)
}

// InsertAfter inserts text at the mark, leaving the mark before it.
// Returns the number of characters inserted.
func (m *Mark) InsertAfter(text string) (int, error) {
	if m.line == nil {
		return 0, ErrDestroyedMark
	}
	lefty := m.lefty
	m.lefty = true
	defer func() { m.lefty = lefty }()
	return m.doc.InsertAt(m.line, m.col, text)
}

// DeleteBefore removes up to n characters before the mark.
// Returns the number of characters deleted.
func (m *Mark) DeleteBefore(n int) (int, error) {
	if m.line == nil {
		return 0, ErrDestroyedMark
	}
	if n <= 0 {
		return 0, nil
	}
	end := m.Offset()
	start := max(0, end-n)
	return m.doc.Delete(start, end-start)
}

// DeleteAfter removes up to n characters after the mark.
// Returns the number of characters deleted.
func (m *Mark) DeleteAfter(n int) (int, error) {
	if m.line == nil {
		return 0, ErrDestroyedMark
	}
	return m.doc.DeleteAt(m.line, m.col, n)
}

// Replace replaces n characters after the mark with text.
// Returns the number of characters inserted.
func (m *Mark) Replace(n int, text string) (int, error) {
	if m.line == nil {
		return 0, ErrDestroyedMark
	}
	return m.doc.ReplaceAt(m.line, m.col, n, text)
}

// TextBetween returns the text between m and other and its length in
// characters.
func (m *Mark) TextBetween(other *Mark) (string, int) {
	if m.line == nil || other.line == nil {
		return "", 0
	}
	a, b := m.ordered(other)
	return m.doc.Substr(a.line, a.col, b.line, b.col)
}

// DeleteBetween removes the text between m and other.
// Returns the number of characters deleted.
func (m *Mark) DeleteBetween(other *Mark) (int, error) {
	if m.line == nil || other.line == nil {
		return 0, ErrDestroyedMark
	}
	a, b := m.ordered(other)
	return m.doc.DeleteAt(a.line, a.col, a.NCharsBetween(b))
}

// ReplaceBetween replaces the text between m and other with text.
// Returns the number of characters inserted.
func (m *Mark) ReplaceBetween(other *Mark, text string) (int, error) {
	if m.line == nil || other.line == nil {
		return 0, ErrDestroyedMark
	}
	a, b := m.ordered(other)
	return m.doc.ReplaceAt(a.line, a.col, a.NCharsBetween(b), text)
}
