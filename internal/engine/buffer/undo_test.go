package buffer

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/dshills/linebuf/internal/engine/history"
)

func TestUndoRedoInsertDelete(t *testing.T) {
	d := NewFromString("hello\nworld")

	d.Insert(5, " there")
	d.Delete(0, 6)
	checkText(t, d, "there\nworld")

	if err := d.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	checkText(t, d, "hello there\nworld")
	if err := d.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	checkText(t, d, "hello\nworld")

	err := d.Undo()
	if !errors.Is(err, history.ErrNothingToUndo) || !errors.Is(err, history.ErrNoOp) {
		t.Errorf("Undo with empty history = %v, want ErrNothingToUndo", err)
	}
	checkText(t, d, "hello\nworld")

	if err := d.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if err := d.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	checkText(t, d, "there\nworld")
	if err := d.Redo(); !errors.Is(err, history.ErrNothingToRedo) {
		t.Errorf("Redo at tail = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoDoesNotRecord(t *testing.T) {
	d := NewFromString("abc")
	d.Insert(3, "d")
	d.Undo()
	if n := len(d.History()); n != 1 {
		t.Errorf("history has %d actions, want 1", n)
	}
	if !d.CanRedo() || d.CanUndo() {
		t.Error("expected one redoable action")
	}
}

func TestNewEditDiscardsRedo(t *testing.T) {
	d := NewFromString("abc")
	d.Insert(3, "d")
	d.Insert(4, "e")
	d.Undo()
	d.Insert(4, "X")
	if d.CanRedo() {
		t.Error("redo should be discarded")
	}
	checkText(t, d, "abcdX")
	d.Undo()
	d.Undo()
	checkText(t, d, "abc")
}

func TestGroupedUndo(t *testing.T) {
	d := NewFromString("hi")

	d.NextActionGroup()
	d.Insert(2, "t")
	d.Insert(3, "!")
	checkText(t, d, "hit!")
	d.NextActionGroup()

	if err := d.UndoGroup(); err != nil {
		t.Fatalf("UndoGroup failed: %v", err)
	}
	checkText(t, d, "hi")

	if err := d.RedoGroup(); err != nil {
		t.Fatalf("RedoGroup failed: %v", err)
	}
	checkText(t, d, "hit!")
}

func TestReplaceUndoesAsGroup(t *testing.T) {
	d := NewFromString("hello world")
	d.NextActionGroup()
	d.Replace(6, 5, "there")
	checkText(t, d, "hello there")

	if err := d.UndoGroup(); err != nil {
		t.Fatal(err)
	}
	checkText(t, d, "hello world")
}

func TestTransactionRollback(t *testing.T) {
	d := NewFromString("base")
	boom := errors.New("boom")
	err := d.Transaction(func() error {
		d.Insert(4, "\nmore")
		d.Delete(0, 1)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction = %v, want boom", err)
	}
	checkText(t, d, "base")
	if d.CanUndo() || d.CanRedo() {
		t.Error("rolled back edits should leave no history")
	}
}

func TestUndoRedoClosure(t *testing.T) {
	d := NewFromString("lineA\n\nline2\nline3\n")
	edits := []struct {
		offset, n int
		text      string
	}{
		{0, 0, "b"},
		{3, 3, "xe0"},
		{10, 7, "N"},
		{5, 4, "jerk\nstuff"},
		{9, 99, "X"},
		{5, 0, "y\nb"},
		{0, 0, "\n"},
		{6, 3, ""},
		{0, 11, "1\n2\n3\n4\n"},
	}

	states := []string{d.Text()}
	for _, e := range edits {
		d.NextActionGroup()
		d.Replace(e.offset, e.n, e.text)
		states = append(states, d.Text())
	}

	for i := len(states) - 2; i >= 0; i-- {
		if err := d.UndoGroup(); err != nil {
			t.Fatalf("UndoGroup to state %d failed: %v", i, err)
		}
		checkText(t, d, states[i])
	}
	for i := 1; i < len(states); i++ {
		if err := d.RedoGroup(); err != nil {
			t.Fatalf("RedoGroup to state %d failed: %v", i, err)
		}
		checkText(t, d, states[i])
	}
}

func TestUndoRedoRestoresMarks(t *testing.T) {
	d := NewFromString("hello\nworld")
	right := d.AddMark(d.Line(0), 2)
	lefty := d.AddMark(d.Line(1), 3)
	lefty.SetLefty(true)

	d.Insert(0, "XY")
	d.Delete(3, 5)
	d.Insert(6, "ZZ")
	checkText(t, d, "XYhworZZld")

	wantRight, wantLefty := right.Position(), lefty.Position()
	if wantRight != (Position{0, 3}) || wantLefty != (Position{0, 6}) {
		t.Fatalf("marks after edits = %v %v, want (0:3) (0:6)", wantRight, wantLefty)
	}

	for d.CanUndo() {
		if err := d.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	checkText(t, d, "hello\nworld")
	if right.Position() != (Position{0, 2}) || lefty.Position() != (Position{1, 3}) {
		t.Errorf("marks after undo = %v %v, want (0:2) (1:3)", right.Position(), lefty.Position())
	}
	for d.CanRedo() {
		if err := d.Redo(); err != nil {
			t.Fatal(err)
		}
	}
	checkText(t, d, "XYhworZZld")

	if right.Position() != wantRight || lefty.Position() != wantLefty {
		t.Errorf("marks after redo = %v %v, want %v %v",
			right.Position(), lefty.Position(), wantRight, wantLefty)
	}
}

// markEdit is one edit applied by the mark round-trip tests.
type markEdit struct {
	offset, n int
	text      string
}

func (e markEdit) apply(d *Document) {
	switch {
	case e.n == 0:
		d.Insert(e.offset, e.text)
	case e.text == "":
		d.Delete(e.offset, e.n)
	default:
		d.Replace(e.offset, e.n, e.text)
	}
}

// positions returns the position of every mark.
func positions(marks []*Mark) []Position {
	out := make([]Position, len(marks))
	for i, m := range marks {
		out[i] = m.Position()
	}
	return out
}

// undoRedoAll undoes every action, checks the starting state, redoes every
// action and checks the final state.
func undoRedoAll(t *testing.T, d *Document, marks []*Mark, startText string, start []Position) {
	t.Helper()
	endText, end := d.Text(), positions(marks)

	for d.CanUndo() {
		if err := d.Undo(); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
	}
	checkText(t, d, startText)
	for i, p := range positions(marks) {
		if p != start[i] {
			t.Errorf("mark %d after undo = %v, want %v", i, p, start[i])
		}
	}

	for d.CanRedo() {
		if err := d.Redo(); err != nil {
			t.Fatalf("Redo failed: %v", err)
		}
	}
	checkText(t, d, endText)
	for i, p := range positions(marks) {
		if p != end[i] {
			t.Errorf("mark %d after redo = %v, want %v", i, p, end[i])
		}
	}
}

func TestUndoRedoMarkPositions(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		marks []Position
		lefty []bool
		edits []markEdit
		want  []Position
	}{
		{
			name:  "mark collapsed by delete after insert",
			text:  "ab\ncd",
			marks: []Position{{1, 1}},
			edits: []markEdit{{5, 0, "\té"}, {3, 3, ""}},
			want:  []Position{{1, 0}},
		},
		{
			name:  "marks on removed lines",
			text:  "one\ntwo\nthree",
			marks: []Position{{1, 0}, {1, 3}, {2, 2}, {2, 3}},
			edits: []markEdit{{2, 8, ""}},
			want:  []Position{{0, 2}, {0, 2}, {0, 2}, {0, 3}},
		},
		{
			name:  "mark at delete start stays before reinserted text",
			text:  "abcdef",
			marks: []Position{{0, 2}, {0, 4}},
			edits: []markEdit{{2, 2, ""}},
			want:  []Position{{0, 2}, {0, 2}},
		},
		{
			name:  "lefty mark at insert point",
			text:  "abc",
			marks: []Position{{0, 1}, {0, 1}},
			lefty: []bool{true, false},
			edits: []markEdit{{1, 0, "XY"}, {0, 2, "Q"}},
			want:  []Position{{0, 0}, {0, 2}},
		},
		{
			name:  "replace across lines",
			text:  "a1\nb2\nc3",
			marks: []Position{{0, 2}, {1, 1}, {2, 0}, {2, 2}},
			edits: []markEdit{{1, 5, "é\n"}, {0, 1, "zz"}},
			want:  []Position{{1, 0}, {1, 0}, {1, 0}, {1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFromString(tt.text)
			marks := make([]*Mark, len(tt.marks))
			for i, p := range tt.marks {
				marks[i] = d.AddMark(d.Line(p.Line), p.Col)
				if i < len(tt.lefty) {
					marks[i].SetLefty(tt.lefty[i])
				}
			}
			for _, e := range tt.edits {
				e.apply(d)
			}
			for i, p := range positions(marks) {
				if p != tt.want[i] {
					t.Errorf("mark %d after edits = %v, want %v", i, p, tt.want[i])
				}
			}
			undoRedoAll(t, d, marks, tt.text, tt.marks)
		})
	}
}

func TestUndoRedoRandomEdits(t *testing.T) {
	pieces := []string{"a", "bc", "é", "\t", "\n", "x\ny", "中文", "\n\n"}

	for seed := int64(1); seed <= 200; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			start := "ab\ncd\nefé\n\tgh"
			d := NewFromString(start)

			var marks []*Mark
			var initial []Position
			for i := 0; i < 5; i++ {
				m := d.AddMarkAt(rng.Intn(d.CharCount() + 1))
				m.SetLefty(rng.Intn(2) == 0)
				marks = append(marks, m)
				initial = append(initial, m.Position())
			}

			for i := 0; i < 12; i++ {
				offset := rng.Intn(d.CharCount() + 1)
				e := markEdit{offset: offset}
				switch rng.Intn(3) {
				case 0:
					e.text = pieces[rng.Intn(len(pieces))]
				case 1:
					e.n = 1 + rng.Intn(4)
				default:
					e.n = 1 + rng.Intn(4)
					e.text = pieces[rng.Intn(len(pieces))]
				}
				before := d.Text()
				e.apply(d)
				if d.CharCount() != utf8.RuneCountInString(d.Text()) {
					t.Fatalf("edit %+v on %q: CharCount %d, text has %d chars",
						e, before, d.CharCount(), utf8.RuneCountInString(d.Text()))
				}
			}

			undoRedoAll(t, d, marks, start, initial)
		})
	}
}

func TestUndoStaleAction(t *testing.T) {
	tests := []struct {
		name   string
		action history.Action
	}{
		{"missing line", history.Action{Kind: history.KindInsert, StartLine: 9, CharDelta: 1, Text: "q"}},
		{"byte past end", history.Action{Kind: history.KindDelete, StartLine: 0, StartByte: 5, Text: "q"}},
		{"text differs", history.Action{Kind: history.KindInsert, StartLine: 0, Text: "zz"}},
		{"text runs past end", history.Action{Kind: history.KindInsert, StartLine: 2, StartByte: 1, Text: "x\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFromString("a\nb\nc")
			d.Insert(4, "x") // line 2
			a := tt.action
			d.log.Append(&a)

			err := d.Undo()
			if !errors.Is(err, ErrStaleAction) {
				t.Errorf("Undo = %v, want ErrStaleAction", err)
			}
			if !d.CanUndo() || d.log.UndoCount() != 2 {
				t.Error("failed undo should leave the log unchanged")
			}
			checkText(t, d, "a\nb\ncx")
		})
	}
}

func TestUndoFiresChangeFunc(t *testing.T) {
	d := NewFromString("abc")
	d.Insert(0, "x")

	var kinds []history.Kind
	d.SetChangeFunc(func(_ *Document, a *history.Action) {
		kinds = append(kinds, a.Kind)
	})
	d.Undo()
	d.Redo()
	if len(kinds) != 2 || kinds[0] != history.KindDelete || kinds[1] != history.KindInsert {
		t.Errorf("callback kinds = %v, want [delete insert]", kinds)
	}
}
