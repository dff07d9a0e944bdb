package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/linebuf/internal/engine/buffer"
	"github.com/dshills/linebuf/internal/engine/history"
)

// docModule implements the global doc table.
type docModule struct {
	doc *buffer.Document
}

// newDocModule builds the doc table for d.
func newDocModule(L *lua.LState, d *buffer.Document) *lua.LTable {
	m := &docModule{doc: d}
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":       m.text,
		"line":       m.line,
		"line_count": m.lineCount,
		"char_count": m.charCount,
		"insert":     m.insert,
		"delete":     m.delete,
		"replace":    m.replace,
		"undo":       m.replay(d.Undo),
		"redo":       m.replay(d.Redo),
		"undo_group": m.replay(d.UndoGroup),
		"redo_group": m.replay(d.RedoGroup),
		"next_group": m.nextGroup,
		"find":       m.find,
		"find_re":    m.findRe,
		"reg_get":    m.regGet,
		"reg_set":    m.regSet,
		"reg_append": m.regAppend,
		"mark":       m.mark,
	})
}

// text() -> string
func (m *docModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Text()))
	return 1
}

// line(index) -> string
// The index is clamped into the document.
func (m *docModule) line(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Line(L.CheckInt(1)).Text()))
	return 1
}

// line_count() -> number
func (m *docModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.LineCount()))
	return 1
}

// char_count() -> number
func (m *docModule) charCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.CharCount()))
	return 1
}

// insert(offset, text) -> inserted
func (m *docModule) insert(L *lua.LState) int {
	n, err := m.doc.Insert(L.CheckInt(1), L.CheckString(2))
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// delete(offset, count) -> deleted
func (m *docModule) delete(L *lua.LState) int {
	n, err := m.doc.Delete(L.CheckInt(1), L.CheckInt(2))
	if err != nil {
		L.RaiseError("delete: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// replace(offset, count, text) -> inserted
func (m *docModule) replace(L *lua.LState) int {
	n, err := m.doc.Replace(L.CheckInt(1), L.CheckInt(2), L.CheckString(3))
	if err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// replay wraps an undo or redo call: () -> bool
// Returns false when there is nothing to replay.
func (m *docModule) replay(fn func() error) lua.LGFunction {
	return func(L *lua.LState) int {
		err := fn()
		if errors.Is(err, history.ErrNoOp) {
			L.Push(lua.LFalse)
			return 1
		}
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		L.Push(lua.LTrue)
		return 1
	}
}

// next_group() -> id
// Starts a new action group.
func (m *docModule) nextGroup(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.NextActionGroup()))
	return 1
}

// find(s [, from]) -> offset | nil
func (m *docModule) find(L *lua.LState) int {
	s := L.CheckString(1)
	cursor := m.doc.AddMarkAt(L.OptInt(2, 0))
	defer cursor.Destroy()

	match, err := cursor.FindNextString(s)
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(m.doc.Offset(match.Line, match.Col)))
	return 1
}

// find_re(expr [, from]) -> offset, length | nil
// Matching is case-insensitive.
func (m *docModule) findRe(L *lua.LState) int {
	expr := L.CheckString(1)
	cursor := m.doc.AddMarkAt(L.OptInt(2, 0))
	defer cursor.Destroy()

	match, err := cursor.FindNextRegexp(expr)
	if errors.Is(err, buffer.ErrInvalidPattern) {
		L.ArgError(1, err.Error())
		return 0
	}
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(m.doc.Offset(match.Line, match.Col)))
	L.Push(lua.LNumber(match.NChars))
	return 2
}

// checkLetter reads a register or mark letter argument.
func checkLetter(L *lua.LState, n int) byte {
	s := L.CheckString(n)
	if len(s) != 1 || s[0] < 'a' || s[0] > 'z' {
		L.ArgError(n, "expected a letter a-z")
		return 0
	}
	return s[0]
}

// reg_get(letter) -> string
func (m *docModule) regGet(L *lua.LState) int {
	s, _ := m.doc.Register(checkLetter(L, 1))
	L.Push(lua.LString(s))
	return 1
}

// reg_set(letter, text)
func (m *docModule) regSet(L *lua.LState) int {
	_ = m.doc.RegisterSet(checkLetter(L, 1), L.CheckString(2))
	return 0
}

// reg_append(letter, text)
func (m *docModule) regAppend(L *lua.LState) int {
	_ = m.doc.RegisterAppend(checkLetter(L, 1), L.CheckString(2))
	return 0
}

// mark(letter | nil, offset) -> mark
// A lettered mark replaces any earlier mark with the same letter.
func (m *docModule) mark(L *lua.LState) int {
	offset := L.OptInt(2, 0)
	line, col := m.doc.LineCol(offset)

	var mk *buffer.Mark
	if L.Get(1) == lua.LNil {
		mk = m.doc.AddMark(line, col)
	} else {
		var err error
		mk, err = m.doc.AddLetteredMark(checkLetter(L, 1), line, col)
		if err != nil {
			L.RaiseError("mark: %v", err)
			return 0
		}
	}
	L.Push(newMarkValue(L, mk))
	return 1
}
