// Package buffer provides the document: a text buffer stored as an ordered
// sequence of lines, with marks that follow edits, an undo/redo action log,
// registers and an incremental regex style engine.
//
// Basic usage:
//
//	d := buffer.NewFromString("hello\nworld")
//
//	d.Insert(5, "!")  // "hello!\nworld"
//	d.Delete(6, 1)    // "hello!world"
//	d.Undo()          // "hello!\nworld"
//
// # Offsets
//
// Document offsets count characters (Unicode code points) from the start of
// the document, with each line break counting as one character. Columns
// count characters within a line. Every offset, column and count is clamped
// into range; out-of-range values are never an error.
//
// # Lines
//
// Each Line owns its bytes, a lazily rebuilt character table
// (see package chars), the marks anchored on it and its per-character
// styles. Bulk loads (Load, LoadReader, NewFromString) create lines that view
// one shared block, optionally a read-only memory mapping of the file; a
// line copies its bytes the first time it is modified.
//
// # Marks
//
// A Mark is a line/column position that survives edits. Text inserted at a
// mark's column pushes it forward unless the mark is lefty. Deletions pull
// marks back to the deletion point, and marks on lines that disappear move
// onto the surviving line. Marks can search forward and backward for strings
// or regular expressions, match brackets, and edit the text around them.
// Up to 26 marks can be registered under the letters a-z.
//
// # History
//
// Every insert or delete records one history.Action. Undo and Redo replay
// actions without recording them again; UndoGroup and RedoGroup treat
// adjacent actions sharing a group id as one step. Replace is a delete
// followed by an insert and records both.
//
// # Styles
//
// Rules assign a tcell.Style to text. Single rules style matches within a
// line, Multi rules run from a start match to an end match across lines,
// and Range rules style the span between two marks. After each edit only the
// edited region is rescanned, plus following lines while the Multi rule
// carried open across a line break keeps changing. Range rules are applied
// when styles are queried.
//
// # Change Notification
//
// A ChangeFunc registered with SetChangeFunc or WithChangeFunc runs after
// every mutation, including undo and redo replays. Edits made from inside
// the callback do not trigger it again.
//
// Concurrency:
//
// A Document is not safe for concurrent use. Callers serialize access.
package buffer
