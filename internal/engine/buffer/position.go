package buffer

import "fmt"

// Position represents a line and column position.
// Both Line and Col are 0-indexed. Col is measured in characters.
type Position struct {
	Line int // 0-indexed line number
	Col  int // 0-indexed column (character within line)
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Col < other.Col {
		return -1
	}
	if p.Col > other.Col {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Col == 0
}

// Match is the location of a search result.
type Match struct {
	Line   *Line
	Col    int
	NChars int
}

// Position returns the start of the match.
func (m Match) Position() Position {
	return Position{Line: m.Line.Index(), Col: m.Col}
}
