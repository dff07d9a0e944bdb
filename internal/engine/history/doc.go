// Package history provides the undo/redo action log for a document.
//
// Every successful mutation of a document produces exactly one Action: an
// insert or a delete, anchored by the index and column of the line where it
// started. Actions are replayed through the Replayer interface, which the
// document implements. Apart from the anchors a replayer records for the
// positions it displaces, an action does not change once recorded.
//
// # Action Log
//
// The Log is linear. An "undone" cursor separates applied actions from
// actions that can be redone:
//
//	log := NewLog(0) // unbounded
//
//	log.Append(action)
//	log.Undo(replayer) // applies the inverse of the last applied action
//	log.Redo(replayer) // re-applies the action at the cursor
//
// Appending a new action while some actions are undone discards them. There
// is no redo branching.
//
// # Groups
//
// Each action carries a group id, stamped from the log's current group when
// it is appended. UndoGroup and RedoGroup keep going while the adjacent
// action shares the group id of the first one processed, so a collaborator
// can tag a run of edits and undo them as one:
//
//	log.NextGroup()
//	// ... edits ...
//	log.NextGroup()
//	log.UndoGroup(replayer)
//
// Transaction wraps the same pattern and rolls the run back when the
// function fails.
package history
