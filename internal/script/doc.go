// Package script runs Lua code against a document.
//
// A State binds one buffer.Document to a sandboxed gopher-lua interpreter.
// Only the base, table, string and math libraries are opened. The document
// is exposed as the global table doc:
//
//	doc.insert(0, "-- header\n")
//	local m = doc.mark("a", 0)
//	while m:find_next_re("todo") do
//	    m:delete_after(4)
//	    m:insert_before("DONE")
//	end
//	print(doc.line_count())
//
// Offsets, line indexes and columns are 0-based character positions, the
// same as in package buffer, and are clamped rather than rejected.
//
// Execution honours the context passed to Run and RunFile, so a deadline
// stops runaway scripts.
package script
