package playlist

import "testing"

func TestHistory_PushUndoRedo(t *testing.T) {
	h := NewHistory(10)

	h.Push([]Track{{Title: "one"}})
	h.Push([]Track{{Title: "one"}, {Title: "two"}})

	if !h.CanUndo() {
		t.Fatal("CanUndo() should be true after two pushes")
	}

	tracks, ok := h.Undo()
	if !ok || len(tracks) != 1 || tracks[0].Title != "one" {
		t.Errorf("Undo() = (%v, %v), want first snapshot", tracks, ok)
	}

	if !h.CanRedo() {
		t.Fatal("CanRedo() should be true after undo")
	}
	tracks, ok = h.Redo()
	if !ok || len(tracks) != 2 {
		t.Errorf("Redo() = (%v, %v), want second snapshot", tracks, ok)
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(10)

	if h.CanUndo() {
		t.Error("CanUndo() on empty history should be false")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() on empty history should fail")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() on empty history should fail")
	}
}

func TestHistory_PushClearsRedo(t *testing.T) {
	h := NewHistory(10)
	h.Push([]Track{{Title: "one"}})
	h.Push([]Track{{Title: "two"}})
	h.Undo()

	h.Push([]Track{{Title: "three"}})

	if h.CanRedo() {
		t.Error("CanRedo() should be false after a push")
	}
	tracks, ok := h.Undo()
	if !ok || tracks[0].Title != "one" {
		t.Errorf("Undo() = (%v, %v), want the snapshot before the new branch", tracks, ok)
	}
}

func TestHistory_TrimsOverLimit(t *testing.T) {
	h := NewHistory(2)
	h.Push([]Track{{Title: "one"}})
	h.Push([]Track{{Title: "two"}})
	h.Push([]Track{{Title: "three"}})

	tracks, ok := h.Undo()
	if !ok || tracks[0].Title != "two" {
		t.Errorf("Undo() = (%v, %v), want two (oldest state trimmed)", tracks, ok)
	}
	if h.CanUndo() {
		t.Error("CanUndo() should be false at the trimmed floor")
	}
}

func TestHistory_SnapshotsAreCopies(t *testing.T) {
	h := NewHistory(4)
	src := []Track{{Title: "original"}}
	h.Push(src)
	src[0].Title = "mutated"
	h.Push([]Track{{Title: "second"}})

	tracks, _ := h.Undo()
	if tracks[0].Title != "original" {
		t.Errorf("snapshot title = %s, want original (Push must copy)", tracks[0].Title)
	}
}
