package buffer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/linebuf/internal/engine/history"
)

// Undo reverts the most recent action.
func (d *Document) Undo() error {
	if d.closed {
		return ErrClosed
	}
	_, err := d.log.Undo(replayer{d})
	return err
}

// Redo re-applies the most recently undone action.
func (d *Document) Redo() error {
	if d.closed {
		return ErrClosed
	}
	_, err := d.log.Redo(replayer{d})
	return err
}

// UndoGroup reverts the most recent action and every adjacent action
// sharing its group id.
func (d *Document) UndoGroup() error {
	if d.closed {
		return ErrClosed
	}
	_, err := d.log.UndoGroup(replayer{d})
	return err
}

// RedoGroup re-applies the next undone action and every following action
// sharing its group id.
func (d *Document) RedoGroup() error {
	if d.closed {
		return ErrClosed
	}
	_, err := d.log.RedoGroup(replayer{d})
	return err
}

// Transaction runs fn with every edit it makes tagged as one group. If fn
// fails its edits are undone and dropped.
func (d *Document) Transaction(fn func() error) error {
	if d.closed {
		return ErrClosed
	}
	return d.log.Transaction(replayer{d}, fn)
}

// CanUndo returns true if an action can be undone.
func (d *Document) CanUndo() bool {
	return d.log.CanUndo()
}

// CanRedo returns true if an action can be redone.
func (d *Document) CanRedo() bool {
	return d.log.CanRedo()
}

// ActionGroup returns the group id stamped on new actions.
func (d *Document) ActionGroup() uint64 {
	return d.log.Group()
}

// SetActionGroup sets the group id stamped on new actions.
func (d *Document) SetActionGroup(id uint64) {
	d.log.SetGroup(id)
}

// NextActionGroup advances the group id and returns it.
func (d *Document) NextActionGroup() uint64 {
	return d.log.NextGroup()
}

// History returns a copy of the recorded actions, oldest first.
func (d *Document) History() []history.Action {
	return d.log.Actions()
}

// replayer applies actions from the log without recording them again.
type replayer struct {
	d *Document
}

// ReplayInsert implements history.Replayer.
func (r replayer) ReplayInsert(a *history.Action) error {
	l, err := r.d.actionLine(a.StartLine, a.StartByte)
	if err != nil {
		return err
	}
	r.d.replaying = true
	defer func() { r.d.replaying = false }()
	r.d.insertText(l, a.StartByte, a.Text, a.Anchors)
	return nil
}

// ReplayDelete implements history.Replayer. The marks the deletion moves
// are recorded in a's anchors.
func (r replayer) ReplayDelete(a *history.Action) error {
	l, err := r.d.actionLine(a.StartLine, a.StartByte)
	if err != nil {
		return err
	}
	endLine, endIdx, ok := l.advanceBytes(a.StartByte, len(a.Text))
	if !ok || r.d.span(l, a.StartByte, endLine, endIdx) != a.Text {
		r.d.logger.Warn("action text no longer matches document",
			zap.Int("line", a.StartLine), zap.Int("byte", a.StartByte))
		return fmt.Errorf("%w: text at line %d differs", ErrStaleAction, a.StartLine)
	}
	r.d.replaying = true
	defer func() { r.d.replaying = false }()
	a.Anchors = r.d.deleteText(l, a.StartByte, endLine, endIdx).Anchors
	return nil
}

// actionLine resolves the start of a recorded action.
func (d *Document) actionLine(line, idx int) (*Line, error) {
	if line < 0 || line >= len(d.lines) {
		d.logger.Warn("action references missing line", zap.Int("line", line))
		return nil, fmt.Errorf("%w: line %d of %d", ErrStaleAction, line, len(d.lines))
	}
	l := d.lines[line]
	if idx < 0 || idx > len(l.data) {
		d.logger.Warn("action references byte past end of line",
			zap.Int("line", line), zap.Int("byte", idx), zap.Int("len", len(l.data)))
		return nil, fmt.Errorf("%w: byte %d of line %d", ErrStaleAction, idx, line)
	}
	return l, nil
}

// advanceBytes walks n bytes forward from byte idx, counting each line
// break as one. Returns false if the document ends first.
func (l *Line) advanceBytes(idx, n int) (*Line, int, bool) {
	line := l
	for {
		if avail := len(line.data) - idx; n <= avail {
			return line, idx + n, true
		}
		n -= len(line.data) - idx + 1
		next := line.Next()
		if next == nil {
			return line, len(line.data), false
		}
		line, idx = next, 0
	}
}
