package buffer

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/dshills/linebuf/internal/engine/history"
)

// checkText fails the test if the document content differs from want or
// the cached counters disagree with it.
func checkText(t *testing.T, d *Document, want string) {
	t.Helper()
	if got := d.Text(); got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if d.ByteCount() != len(want) {
		t.Errorf("ByteCount() = %d, want %d", d.ByteCount(), len(want))
	}
	if n := len([]rune(want)); d.CharCount() != n {
		t.Errorf("CharCount() = %d, want %d", d.CharCount(), n)
	}
	for i, l := range d.Lines() {
		if l.Index() != i {
			t.Errorf("line %d has index %d", i, l.Index())
		}
	}
}

func TestNewDocument(t *testing.T) {
	d := New()
	if d.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", d.LineCount())
	}
	if !d.IsEmpty() {
		t.Error("new document should be empty")
	}
	if d.ID() == "" {
		t.Error("document should have an id")
	}
	if d.TabWidth() != DefaultTabWidth {
		t.Errorf("TabWidth() = %d, want %d", d.TabWidth(), DefaultTabWidth)
	}
	checkText(t, d, "")
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lines int
	}{
		{"empty", "", 1},
		{"single line", "hello", 1},
		{"two lines", "hello\nworld", 2},
		{"trailing newline", "hello\n", 2},
		{"only newlines", "\n\n", 3},
		{"utf8", "héllo\n世界", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFromString(tt.text)
			checkText(t, d, tt.text)
			if d.LineCount() != tt.lines {
				t.Errorf("LineCount() = %d, want %d", d.LineCount(), tt.lines)
			}
			if d.CanUndo() {
				t.Error("initial content should not be in history")
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		text   string
		want   string
		n      int
	}{
		{"start", 0, "te\nst", "te\nsthello\nworld", 5},
		{"end of first line", 5, "!", "hello!\nworld", 1},
		{"newline", 5, "\n", "hello\n\nworld", 1},
		{"past end clamps", 99, "!", "hello\nworld!", 1},
		{"negative clamps", -4, "x", "xhello\nworld", 1},
		{"empty", 3, "", "hello\nworld", 0},
		{"many lines", 8, "a\nb\nc", "hello\nwoa\nb\ncrld", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFromString("hello\nworld")
			n, err := d.Insert(tt.offset, tt.text)
			if err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
			if n != tt.n {
				t.Errorf("Insert returned %d, want %d", n, tt.n)
			}
			checkText(t, d, tt.want)
		})
	}
}

func TestInsertMultibyte(t *testing.T) {
	d := NewFromString("hello\nworld")
	n, err := d.Insert(0, "世界\n")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Insert returned %d, want 3", n)
	}
	checkText(t, d, "世界\nhello\nworld")
	if d.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", d.LineCount())
	}
}

func TestDeleteSequence(t *testing.T) {
	d := NewFromString("hello\nworld")

	steps := []struct {
		offset, n int
		deleted   int
		want      string
	}{
		{0, 1, 1, "ello\nworld"},
		{4, 1, 1, "elloworld"},
		{7, 3, 2, "ellowor"},
		{0, 7, 7, ""},
		{0, 1, 0, ""},
	}
	for i, s := range steps {
		n, err := d.Delete(s.offset, s.n)
		if err != nil {
			t.Fatalf("step %d: Delete failed: %v", i, err)
		}
		if n != s.deleted {
			t.Errorf("step %d: deleted %d, want %d", i, n, s.deleted)
		}
		checkText(t, d, s.want)
	}
	if d.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", d.LineCount())
	}
}

func TestDeleteAcrossLines(t *testing.T) {
	d := NewFromString("one\ntwo\nthree\nfour")
	n, err := d.Delete(2, 10)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 10 {
		t.Errorf("deleted %d, want 10", n)
	}
	checkText(t, d, "one\nfour")
	if d.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", d.LineCount())
	}
}

func TestReplaceSequence(t *testing.T) {
	d := NewFromString("lineA\n\nline2\nline3\n")

	steps := []struct {
		offset, n int
		text      string
		want      string
	}{
		{0, 0, "b", "blineA\n\nline2\nline3\n"},
		{3, 3, "xe0", "blixe0\n\nline2\nline3\n"},
		{10, 7, "N", "blixe0\n\nliNe3\n"},
		{5, 4, "jerk\nstuff", "blixejerk\nstuffiNe3\n"},
		{9, 99, "X", "blixejerkX"},
		{5, 0, "y\nb", "blixey\nbjerkX"},
		{0, 0, "\n", "\nblixey\nbjerkX"},
		{6, 3, "", "\nblixejerkX"},
		{0, 11, "1\n2\n3\n4\n", "1\n2\n3\n4\n"},
	}
	for i, s := range steps {
		if _, err := d.Replace(s.offset, s.n, s.text); err != nil {
			t.Fatalf("step %d: Replace failed: %v", i, err)
		}
		checkText(t, d, s.want)
	}
	if d.LineCount() != 5 {
		t.Errorf("LineCount() = %d, want 5", d.LineCount())
	}
}

func TestReplaceMatchesDeleteInsert(t *testing.T) {
	const text = "alpha\nbeta\ngamma"
	cases := []struct {
		offset, n int
		text      string
	}{
		{0, 3, "Z"},
		{4, 4, "x\ny"},
		{6, 10, ""},
		{16, 0, "end"},
	}

	for _, c := range cases {
		a := NewFromString(text)
		ma := a.AddMarkAt(c.offset + c.n)
		a.Replace(c.offset, c.n, c.text)

		b := NewFromString(text)
		mb := b.AddMarkAt(c.offset + c.n)
		b.Delete(c.offset, c.n)
		b.Insert(c.offset, c.text)

		if a.Text() != b.Text() {
			t.Errorf("Replace(%d,%d,%q) = %q, delete+insert = %q", c.offset, c.n, c.text, a.Text(), b.Text())
		}
		if ma.Position() != mb.Position() {
			t.Errorf("Replace(%d,%d,%q) mark at %v, delete+insert at %v", c.offset, c.n, c.text, ma.Position(), mb.Position())
		}
	}
}

func TestLineCol(t *testing.T) {
	d := NewFromString("hello\nworld")
	tests := []struct {
		offset    int
		line, col int
	}{
		{-3, 0, 0},
		{0, 0, 0},
		{5, 0, 5},
		{6, 1, 0},
		{8, 1, 2},
		{99, 1, 5},
	}
	for _, tt := range tests {
		l, col := d.LineCol(tt.offset)
		if l.Index() != tt.line || col != tt.col {
			t.Errorf("LineCol(%d) = (%d,%d), want (%d,%d)", tt.offset, l.Index(), col, tt.line, tt.col)
		}
		if tt.offset >= 0 && tt.offset <= 11 {
			if got := d.Offset(l, col); got != tt.offset {
				t.Errorf("Offset(%d,%d) = %d, want %d", tt.line, tt.col, got, tt.offset)
			}
		}
	}
}

func TestSubstr(t *testing.T) {
	d := NewFromString("hello\nbig\nworld")
	s, n := d.Substr(d.Line(0), 3, d.Line(2), 2)
	if s != "lo\nbig\nwo" || n != 9 {
		t.Errorf("Substr = %q/%d, want %q/9", s, n, "lo\nbig\nwo")
	}
	// reversed positions
	s, n = d.Substr(d.Line(1), 2, d.Line(1), 0)
	if s != "bi" || n != 2 {
		t.Errorf("Substr = %q/%d, want %q/2", s, n, "bi")
	}
}

func TestLineQueries(t *testing.T) {
	d := NewFromString("hé\tx\nnext")
	l := d.FirstLine()
	if l.CharCount() != 4 || l.Len() != 5 {
		t.Errorf("CharCount/Len = %d/%d, want 4/5", l.CharCount(), l.Len())
	}
	if l.Next() != d.LastLine() || d.LastLine().Prev() != l {
		t.Error("Next/Prev linkage broken")
	}
	if l.Prev() != nil || d.LastLine().Next() != nil {
		t.Error("edges should have no neighbours")
	}
	if c, ok := l.Char(1); !ok || c.Rune != 'é' {
		t.Errorf("Char(1) = %v", c)
	}
	if l.ColFromIndex(2) != 1 {
		t.Errorf("ColFromIndex(2) = %d, want 1", l.ColFromIndex(2))
	}
	if l.VWidth() != 5 {
		t.Errorf("VWidth() = %d, want 5", l.VWidth())
	}
	if err := d.SetTabWidth(8); err != nil {
		t.Fatal(err)
	}
	if l.VWidth() != 9 {
		t.Errorf("VWidth() after SetTabWidth(8) = %d, want 9", l.VWidth())
	}
	if !errors.Is(d.SetTabWidth(0), ErrInvalidTabWidth) {
		t.Error("SetTabWidth(0) should fail")
	}
	if d.Line(-1) != l || d.Line(9) != d.LastLine() {
		t.Error("Line should clamp its index")
	}
}

func TestLineRelativeEdits(t *testing.T) {
	d := NewFromString("hello\nworld")
	l := d.FirstLine()

	// column 7 is past "hello" and lands in "world"
	if _, err := l.Insert(7, "X"); err != nil {
		t.Fatal(err)
	}
	checkText(t, d, "hello\nwXorld")

	if _, err := l.Delete(5, 1); err != nil {
		t.Fatal(err)
	}
	checkText(t, d, "hellowXorld")

	if _, err := l.Replace(5, 2, "_"); err != nil {
		t.Fatal(err)
	}
	checkText(t, d, "hello_orld")
}

func TestSlabPromotion(t *testing.T) {
	d := NewFromString("one\ntwo\nthree")
	for _, l := range d.Lines() {
		if !l.IsSlabbed() {
			t.Fatalf("line %d should start slabbed", l.Index())
		}
	}

	d.Insert(4, "2")
	if d.Line(1).IsSlabbed() {
		t.Error("edited line should own its bytes")
	}
	if !d.Line(0).IsSlabbed() || !d.Line(2).IsSlabbed() {
		t.Error("untouched lines should stay slabbed")
	}
	checkText(t, d, "one\n2two\nthree")

	// appending to line 0 must not clobber line 1 in the shared block
	d.Insert(3, "!!!")
	checkText(t, d, "one!!!\n2two\nthree")
}

func TestChangeFunc(t *testing.T) {
	d := NewFromString("hello\nworld")
	var got []history.Action
	d.SetChangeFunc(func(_ *Document, a *history.Action) {
		got = append(got, *a)
	})

	d.Insert(0, "te\nst")
	if len(got) != 1 {
		t.Fatalf("callback ran %d times, want 1", len(got))
	}
	a := got[0]
	if a.Kind != history.KindInsert || a.StartLine != 0 || a.StartCol != 0 {
		t.Errorf("unexpected start %v", a)
	}
	if a.EndLine != 1 || a.EndCol != 2 {
		t.Errorf("end = (%d,%d), want (1,2)", a.EndLine, a.EndCol)
	}
	if a.ByteDelta != 5 || a.CharDelta != 5 || a.LineDelta != 1 || a.Text != "te\nst" {
		t.Errorf("unexpected deltas %v", a)
	}

	d.Delete(0, 3)
	if len(got) != 2 {
		t.Fatalf("callback ran %d times, want 2", len(got))
	}
	if a := got[1]; a.Kind != history.KindDelete || a.CharDelta != -3 || a.LineDelta != -1 || a.Text != "te\n" {
		t.Errorf("unexpected delete action %v", a)
	}

	d.SetChangeFunc(nil)
	d.Insert(0, "x")
	if len(got) != 2 {
		t.Error("callback should be removed")
	}
}

func TestChangeFuncReentrant(t *testing.T) {
	calls := 0
	d := NewFromString("abc", WithChangeFunc(func(d *Document, a *history.Action) {
		calls++
		d.Insert(d.CharCount(), "!")
	}))

	d.Insert(0, "x")
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
	checkText(t, d, "xabc!")
	if n := len(d.History()); n != 2 {
		t.Errorf("history has %d actions, want 2", n)
	}
	if h := d.History(); h[0].Text != "x" || h[1].Text != "!" {
		t.Errorf("history out of order: %v", h)
	}
}

func TestSetAndClear(t *testing.T) {
	d := NewFromString("old")
	d.Insert(0, "x")
	if err := d.Set("new\ncontent"); err != nil {
		t.Fatal(err)
	}
	checkText(t, d, "new\ncontent")
	if d.CanUndo() {
		t.Error("Set should drop history")
	}

	if err := d.Clear(); err != nil {
		t.Fatal(err)
	}
	checkText(t, d, "")
	if !d.CanUndo() {
		t.Error("Clear should be undoable")
	}
}

func TestClosedDocument(t *testing.T) {
	d := NewFromString("abc")
	m := d.AddMark(nil, 1)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Insert(0, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Insert after Close = %v, want ErrClosed", err)
	}
	if err := d.Undo(); !errors.Is(err, ErrClosed) {
		t.Errorf("Undo after Close = %v, want ErrClosed", err)
	}
	if !m.IsDestroyed() {
		t.Error("marks should be detached by Close")
	}
}

func TestInvalidUTF8Merge(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		edit   func(d *Document)
		merged string
	}{
		{
			name:   "insert lead byte before continuation bytes",
			text:   "\xb8\x96",
			edit:   func(d *Document) { d.Insert(0, "\xe4") },
			merged: "中",
		},
		{
			name:   "delete separator between split sequence",
			text:   "\xe4Z\xb8\x96",
			edit:   func(d *Document) { d.Delete(1, 1) },
			merged: "中",
		},
		{
			name:   "multi-line insert completing a sequence",
			text:   "a\xe4",
			edit:   func(d *Document) { d.Insert(2, "\xb8\x96\nb") },
			merged: "a中\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFromString(tt.text)
			m := d.AddMarkAt(d.CharCount())
			tt.edit(d)
			if d.Text() != tt.merged {
				t.Fatalf("Text() = %q, want %q", d.Text(), tt.merged)
			}
			if got, want := d.CharCount(), utf8.RuneCountInString(tt.merged); got != want {
				t.Errorf("CharCount() = %d, want %d", got, want)
			}
			if m.Col() > m.Line().CharCount() {
				t.Errorf("mark column %d past end of line of %d chars", m.Col(), m.Line().CharCount())
			}
			if !d.CanUndo() {
				return
			}

			if err := d.Undo(); err != nil {
				t.Fatalf("Undo failed: %v", err)
			}
			checkText(t, d, tt.text)
			if err := d.Redo(); err != nil {
				t.Fatalf("Redo failed: %v", err)
			}
			checkText(t, d, tt.merged)
		})
	}
}

func TestInvalidUTF8DeleteAfterMerge(t *testing.T) {
	d := NewFromString("\xb8\x96")
	d.Insert(0, "\xe4")
	if n, err := d.Delete(0, 1); err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v, want 1, nil", n, err)
	}
	checkText(t, d, "")
	for d.CanUndo() {
		if err := d.Undo(); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
	}
	checkText(t, d, "\xb8\x96")
}

func TestInsertDeleteInverse(t *testing.T) {
	docs := []string{"", "a", "hello\nworld", "\n\n", "tab\there\n中文\nend\n"}
	pieces := []string{"x", "é", "\n", "a\nb", "\t\n\n", "中文\nz", ""}

	for seed := int64(1); seed <= 100; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			start := docs[rng.Intn(len(docs))]
			text := pieces[rng.Intn(len(pieces))]
			d := NewFromString(start)
			offset := rng.Intn(d.CharCount() + 2)

			n, err := d.Insert(offset, text)
			if err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
			if n != utf8.RuneCountInString(text) {
				t.Errorf("Insert returned %d, want %d", n, utf8.RuneCountInString(text))
			}
			at := min(offset, len([]rune(start)))
			if _, err := d.Delete(at, n); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			checkText(t, d, start)
		})
	}
}
