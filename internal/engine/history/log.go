package history

import (
	"errors"
	"fmt"
)

// Common errors for history operations.
var (
	// ErrNoOp indicates a request that had nothing to act on.
	ErrNoOp = errors.New("no-op")

	// ErrNothingToUndo indicates every action is already undone.
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", ErrNoOp)

	// ErrNothingToRedo indicates no action is waiting to be redone.
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", ErrNoOp)
)

// Log is a linear undo/redo history.
//
// actions[:undone] are applied, actions[undone:] can be redone.
type Log struct {
	actions []*Action
	undone  int

	group uint64

	// Configuration
	maxEntries int
}

// NewLog creates an action log.
// A maxEntries of zero or less means the log is unbounded.
func NewLog(maxEntries int) *Log {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Log{maxEntries: maxEntries}
}

// Append records an action, stamping it with the current group id.
// Actions waiting to be redone are discarded first.
func (l *Log) Append(a *Action) {
	if l.undone < len(l.actions) {
		for i := l.undone; i < len(l.actions); i++ {
			l.actions[i] = nil
		}
		l.actions = l.actions[:l.undone]
	}

	a.Group = l.group
	l.actions = append(l.actions, a)
	l.undone = len(l.actions)

	// Enforce max entries
	if l.maxEntries > 0 && len(l.actions) > l.maxEntries {
		excess := len(l.actions) - l.maxEntries
		l.actions = append(l.actions[:0:0], l.actions[excess:]...)
		l.undone = len(l.actions)
	}
}

// Undo reverts the most recently applied action.
// On failure the log is left unchanged.
func (l *Log) Undo(r Replayer) (*Action, error) {
	if l.undone == 0 {
		return nil, ErrNothingToUndo
	}

	a := l.actions[l.undone-1]
	if err := revert(r, a); err != nil {
		return nil, fmt.Errorf("undo %s: %w", a.Kind, err)
	}
	l.undone--
	return a, nil
}

// Redo re-applies the action at the undone cursor.
// On failure the log is left unchanged.
func (l *Log) Redo(r Replayer) (*Action, error) {
	if l.undone == len(l.actions) {
		return nil, ErrNothingToRedo
	}

	a := l.actions[l.undone]
	if err := apply(r, a); err != nil {
		return nil, fmt.Errorf("redo %s: %w", a.Kind, err)
	}
	l.undone++
	return a, nil
}

// UndoGroup undoes the most recent action and keeps going while the next
// action shares its group id. Returns the number of actions undone.
func (l *Log) UndoGroup(r Replayer) (int, error) {
	first, err := l.Undo(r)
	if err != nil {
		return 0, err
	}

	n := 1
	for l.undone > 0 && l.actions[l.undone-1].Group == first.Group {
		if _, err := l.Undo(r); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// RedoGroup redoes the next action and keeps going while the following
// action shares its group id. Returns the number of actions redone.
func (l *Log) RedoGroup(r Replayer) (int, error) {
	first, err := l.Redo(r)
	if err != nil {
		return 0, err
	}

	n := 1
	for l.undone < len(l.actions) && l.actions[l.undone].Group == first.Group {
		if _, err := l.Redo(r); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Group returns the id stamped on newly appended actions.
func (l *Log) Group() uint64 {
	return l.group
}

// SetGroup sets the id stamped on newly appended actions.
func (l *Log) SetGroup(id uint64) {
	l.group = id
}

// NextGroup advances the group id and returns the new value.
func (l *Log) NextGroup() uint64 {
	l.group++
	return l.group
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	return l.undone > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	return l.undone < len(l.actions)
}

// UndoCount returns the number of actions that can be undone.
func (l *Log) UndoCount() int {
	return l.undone
}

// RedoCount returns the number of actions that can be redone.
func (l *Log) RedoCount() int {
	return len(l.actions) - l.undone
}

// Len returns the number of recorded actions.
func (l *Log) Len() int {
	return len(l.actions)
}

// Actions returns a copy of every recorded action, oldest first.
func (l *Log) Actions() []Action {
	result := make([]Action, len(l.actions))
	for i, a := range l.actions {
		result[i] = *a
	}
	return result
}

// Peek returns the action the next Undo would revert.
func (l *Log) Peek() (Action, bool) {
	if l.undone == 0 {
		return Action{}, false
	}
	return *l.actions[l.undone-1], true
}

// Clear removes all history. The group id is kept.
func (l *Log) Clear() {
	l.actions = nil
	l.undone = 0
}

// SetMaxEntries changes the maximum number of recorded actions.
// If the log is larger, the oldest applied actions are removed.
func (l *Log) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}
	l.maxEntries = max

	if max > 0 && len(l.actions) > max {
		excess := len(l.actions) - max
		if excess > l.undone {
			excess = l.undone
		}
		l.actions = append(l.actions[:0:0], l.actions[excess:]...)
		l.undone -= excess
	}
}

// MaxEntries returns the maximum number of recorded actions, 0 if unbounded.
func (l *Log) MaxEntries() int {
	return l.maxEntries
}
