package history

import (
	"errors"
	"fmt"
)

// GroupScope tags a run of appended actions with a fresh group id.
// Usage:
//
//	func doComplexEdit(l *Log) {
//	    defer l.GroupScope().End()
//	    // ... multiple edits ...
//	}
type GroupScope struct {
	log    *Log
	id     uint64
	active bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to close the group.
func (l *Log) GroupScope() *GroupScope {
	return &GroupScope{
		log:    l,
		id:     l.NextGroup(),
		active: true,
	}
}

// ID returns the group id of the scope.
func (g *GroupScope) ID() uint64 {
	return g.id
}

// End closes the group scope so later actions get a different id.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.log.NextGroup()
		g.active = false
	}
}

// Transaction runs fn with every action it appends tagged as one group.
// If fn returns an error, the actions it appended are undone through r and
// dropped from the log, and fn's error is returned. If undoing fails, the
// actions already undone are dropped, the rest stay applied, and the
// returned error wraps both failures.
func (l *Log) Transaction(r Replayer, fn func() error) error {
	scope := l.GroupScope()
	defer scope.End()

	base := l.undone
	err := fn()
	if err == nil {
		return nil
	}

	for l.undone > base && l.actions[l.undone-1].Group == scope.id {
		if _, uerr := l.Undo(r); uerr != nil {
			l.dropUndone(scope.id)
			return errors.Join(err, fmt.Errorf("rollback: %w", uerr))
		}
	}
	l.dropUndone(scope.id)
	return err
}

// dropUndone discards the undone actions if they belong to group id.
func (l *Log) dropUndone(id uint64) {
	if l.undone == len(l.actions) || l.actions[l.undone].Group != id {
		return
	}
	for i := l.undone; i < len(l.actions); i++ {
		l.actions[i] = nil
	}
	l.actions = l.actions[:l.undone]
}
