// Package chars decodes a line of UTF-8 text into per-character metadata.
//
// A Table maps between the three coordinate systems a line is addressed in:
// character columns, byte indexes, and display (virtual) columns with tabs
// expanded and wide characters taking two cells.
//
//	t := chars.Build([]byte("a\tb"), 4)
//	t.VColOf(2)     // 4
//	t.ColToIndex(2) // 2
//
// Bytes that are not valid UTF-8 decode to utf8.RuneError and occupy one
// byte and one column each.
package chars

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DefaultTabWidth is the tab width used when none is configured.
const DefaultTabWidth = 4

// Char describes one character of a line.
type Char struct {
	// Rune is the decoded code point.
	Rune rune

	// Len is the UTF-8 byte length of the character.
	Len int

	// Index is the byte offset of the character within the line.
	Index int

	// VCol is the display column where the character starts.
	VCol int

	// Width is the number of display cells the character occupies.
	Width int
}

// Flags indicate line properties for fast paths.
type Flags uint8

const (
	// FlagASCII indicates all bytes are ASCII (< 128).
	FlagASCII Flags = 1 << iota

	// FlagHasTabs indicates the line contains tab characters.
	FlagHasTabs
)

// Table is the character index of one line.
type Table struct {
	// Chars holds one entry per character.
	Chars []Char

	// ByteToCol maps a byte index to the column of the character containing
	// it. It is nil for ASCII lines, where the two are equal.
	ByteToCol []int

	// VWidth is the display width of the whole line.
	VWidth int

	// Bytes is the byte length of the line.
	Bytes int

	// Flags describe the line content.
	Flags Flags
}

// Build indexes data using the given tab width.
// A tab width below 1 is treated as 1.
func Build(data []byte, tabWidth int) Table {
	if tabWidth < 1 {
		tabWidth = 1
	}

	t := Table{
		Chars: make([]Char, 0, len(data)),
		Bytes: len(data),
		Flags: FlagASCII,
	}
	for _, b := range data {
		if b >= utf8.RuneSelf {
			t.Flags &^= FlagASCII
		} else if b == '\t' {
			t.Flags |= FlagHasTabs
		}
	}

	// Fast path: plain ASCII without tabs
	if t.Flags == FlagASCII {
		for i, b := range data {
			t.Chars = append(t.Chars, Char{Rune: rune(b), Len: 1, Index: i, VCol: i, Width: 1})
		}
		t.VWidth = len(data)
		return t
	}

	if t.Flags&FlagASCII == 0 {
		t.ByteToCol = make([]int, len(data))
	}

	vcol := 0
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		width := 1
		if r == '\t' {
			width = tabWidth - vcol%tabWidth
		} else if w := runewidth.RuneWidth(r); w > 1 {
			width = w
		}

		col := len(t.Chars)
		t.Chars = append(t.Chars, Char{Rune: r, Len: size, Index: i, VCol: vcol, Width: width})
		if t.ByteToCol != nil {
			for j := i; j < i+size; j++ {
				t.ByteToCol[j] = col
			}
		}
		vcol += width
		i += size
	}
	t.VWidth = vcol
	return t
}

// Count returns the number of characters.
func (t *Table) Count() int {
	return len(t.Chars)
}

// Char returns the character at col.
func (t *Table) Char(col int) (Char, bool) {
	if col < 0 || col >= len(t.Chars) {
		return Char{}, false
	}
	return t.Chars[col], true
}

// ColToIndex returns the byte index where column col starts.
// Columns past the end map to the line length.
func (t *Table) ColToIndex(col int) int {
	if col <= 0 {
		return 0
	}
	if col >= len(t.Chars) {
		return t.Bytes
	}
	return t.Chars[col].Index
}

// IndexToCol returns the column of the character containing byte index.
// Indexes past the end map to the character count.
func (t *Table) IndexToCol(index int) int {
	if index <= 0 {
		return 0
	}
	if index >= t.Bytes {
		return len(t.Chars)
	}
	if t.ByteToCol == nil {
		return index
	}
	return t.ByteToCol[index]
}

// VColOf returns the display column where column col starts.
// Columns past the end map to the line's display width.
func (t *Table) VColOf(col int) int {
	if col < 0 {
		return 0
	}
	if col >= len(t.Chars) {
		return t.VWidth
	}
	return t.Chars[col].VCol
}

// ColFromVCol returns the first column that starts at or after vcol.
func (t *Table) ColFromVCol(vcol int) int {
	for i := range t.Chars {
		if vcol <= t.Chars[i].VCol {
			return i
		}
	}
	return len(t.Chars)
}

// CountRunes returns the number of characters in data, decoding it the same
// way Build does.
func CountRunes(data []byte) int {
	return utf8.RuneCount(data)
}

// CountRunesString is CountRunes for a string.
func CountRunesString(s string) int {
	return utf8.RuneCountInString(s)
}
