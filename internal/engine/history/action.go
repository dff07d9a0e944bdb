package history

import "fmt"

// Kind identifies the type of an action.
type Kind uint8

const (
	// KindInsert records text inserted into the document.
	KindInsert Kind = iota
	// KindDelete records text removed from the document.
	KindDelete
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Action is a record of one insert or delete.
//
// Start is identified by line index, character column and byte index so the
// action can be replayed after the line objects it touched have been
// replaced. Replays use the byte index. End coordinates are only meaningful
// for inserts. Deltas are negative for deletes.
type Action struct {
	Kind      Kind
	StartLine int
	StartCol  int
	StartByte int
	EndLine   int
	EndCol    int
	ByteDelta int
	CharDelta int
	LineDelta int
	Text      string
	Group     uint64

	// Anchors are the positions displaced by the deleting side of the
	// action. The replayer records them when it removes Text and puts them
	// back when it inserts Text again.
	Anchors []Anchor
}

// Anchor records a position moved by a deletion.
type Anchor struct {
	// Ref identifies the position to the replayer.
	Ref any

	// Line and Col locate the position before the deletion.
	Line, Col int

	// AfterLine and AfterCol locate it right after the deletion. A position
	// found elsewhere when Text is reinserted has been moved since and is
	// left alone.
	AfterLine, AfterCol int
}

// IsInsert returns true if the action inserted text.
func (a *Action) IsInsert() bool {
	return a.Kind == KindInsert
}

// IsDelete returns true if the action removed text.
func (a *Action) IsDelete() bool {
	return a.Kind == KindDelete
}

// Inverse returns the action that reverses a.
// The end coordinates of an inverted delete are not known until it is
// replayed and are left equal to the start.
func (a Action) Inverse() Action {
	inv := a
	inv.ByteDelta = -a.ByteDelta
	inv.CharDelta = -a.CharDelta
	inv.LineDelta = -a.LineDelta
	switch a.Kind {
	case KindInsert:
		inv.Kind = KindDelete
		inv.EndLine = a.StartLine
		inv.EndCol = a.StartCol
	case KindDelete:
		inv.Kind = KindInsert
	}
	return inv
}

// String returns a short human-readable form of the action.
func (a Action) String() string {
	return fmt.Sprintf("%s@%d:%d chars=%d lines=%d group=%d %q",
		a.Kind, a.StartLine, a.StartCol, a.CharDelta, a.LineDelta, a.Group, a.Text)
}

// Replayer applies recorded actions to a document.
type Replayer interface {
	// ReplayInsert inserts a.Text at a.StartLine, a.StartByte.
	ReplayInsert(a *Action) error

	// ReplayDelete removes the len(a.Text) bytes at a.StartLine, a.StartByte.
	ReplayDelete(a *Action) error
}

// apply performs a on r.
func apply(r Replayer, a *Action) error {
	switch a.Kind {
	case KindInsert:
		return r.ReplayInsert(a)
	case KindDelete:
		return r.ReplayDelete(a)
	default:
		return fmt.Errorf("history: unknown action kind %d", a.Kind)
	}
}

// revert performs the inverse of a on r.
func revert(r Replayer, a *Action) error {
	switch a.Kind {
	case KindInsert:
		return r.ReplayDelete(a)
	case KindDelete:
		return r.ReplayInsert(a)
	default:
		return fmt.Errorf("history: unknown action kind %d", a.Kind)
	}
}
