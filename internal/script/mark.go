package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/linebuf/internal/engine/buffer"
)

const markTypeName = "linebuf.mark"

// registerMarkType installs the metatable shared by mark userdata.
func registerMarkType(L *lua.LState) {
	mt := L.NewTypeMetatable(markTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"offset":        markOffset,
		"line":          markLine,
		"col":           markCol,
		"move":          markMove,
		"move_by":       markMoveBy,
		"find_next":     markFindNext,
		"find_next_re":  markFindNextRe,
		"insert_before": markInsertBefore,
		"insert_after":  markInsertAfter,
		"delete_after":  markDeleteAfter,
		"lefty":         markLefty,
		"destroy":       markDestroy,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(markString))
}

// newMarkValue wraps m as userdata.
func newMarkValue(L *lua.LState, m *buffer.Mark) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = m
	L.SetMetatable(ud, L.GetTypeMetatable(markTypeName))
	return ud
}

// checkMark returns the live mark in argument 1.
func checkMark(L *lua.LState) *buffer.Mark {
	ud := L.CheckUserData(1)
	m, ok := ud.Value.(*buffer.Mark)
	if !ok {
		L.ArgError(1, "expected mark")
		return nil
	}
	if m.IsDestroyed() {
		L.ArgError(1, "mark is destroyed")
		return nil
	}
	return m
}

// m:offset() -> number
func markOffset(L *lua.LState) int {
	L.Push(lua.LNumber(checkMark(L).Offset()))
	return 1
}

// m:line() -> number
func markLine(L *lua.LState) int {
	L.Push(lua.LNumber(checkMark(L).Line().Index()))
	return 1
}

// m:col() -> number
func markCol(L *lua.LState) int {
	L.Push(lua.LNumber(checkMark(L).Col()))
	return 1
}

// m:move(offset)
func markMove(L *lua.LState) int {
	checkMark(L).MoveOffset(L.CheckInt(2))
	return 0
}

// m:move_by(delta)
func markMoveBy(L *lua.LState) int {
	checkMark(L).MoveBy(L.CheckInt(2))
	return 0
}

// m:find_next(s) -> bool
// Moves to the next occurrence of s after the mark.
func markFindNext(L *lua.LState) int {
	m := checkMark(L)
	_, err := m.MoveNextStringNudge(L.CheckString(2))
	L.Push(lua.LBool(err == nil))
	return 1
}

// m:find_next_re(expr) -> bool
// Moves to the next case-insensitive match of expr at or after the mark.
func markFindNextRe(L *lua.LState) int {
	m := checkMark(L)
	_, err := m.MoveNextRegexp(L.CheckString(2))
	L.Push(lua.LBool(err == nil))
	return 1
}

// m:insert_before(text) -> inserted
func markInsertBefore(L *lua.LState) int {
	n, err := checkMark(L).InsertBefore(L.CheckString(2))
	if err != nil {
		L.RaiseError("insert_before: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// m:insert_after(text) -> inserted
func markInsertAfter(L *lua.LState) int {
	n, err := checkMark(L).InsertAfter(L.CheckString(2))
	if err != nil {
		L.RaiseError("insert_after: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// m:delete_after(count) -> deleted
func markDeleteAfter(L *lua.LState) int {
	n, err := checkMark(L).DeleteAfter(L.CheckInt(2))
	if err != nil {
		L.RaiseError("delete_after: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// m:lefty([bool]) -> bool
func markLefty(L *lua.LState) int {
	m := checkMark(L)
	if L.GetTop() >= 2 {
		m.SetLefty(L.ToBool(2))
	}
	L.Push(lua.LBool(m.IsLefty()))
	return 1
}

// m:destroy()
func markDestroy(L *lua.LState) int {
	ud := L.CheckUserData(1)
	if m, ok := ud.Value.(*buffer.Mark); ok {
		m.Destroy()
	}
	return 0
}

func markString(L *lua.LState) int {
	ud := L.CheckUserData(1)
	m, ok := ud.Value.(*buffer.Mark)
	if !ok || m.IsDestroyed() {
		L.Push(lua.LString("mark(destroyed)"))
		return 1
	}
	L.Push(lua.LString(fmt.Sprintf("mark(%s)", m.Position())))
	return 1
}
