package editor

import "testing"

func TestNewDocumentClean(t *testing.T) {
	d := NewDocument("", "")
	if d.Dirty() {
		t.Error("new document should not be dirty")
	}
	if d.Title() != UntitledTitle {
		t.Errorf("title = %q, want %q", d.Title(), UntitledTitle)
	}
	if !d.Untitled() {
		t.Error("new document should be untitled")
	}
	if d.ID() == "" {
		t.Error("new document should have an ID")
	}
}

func TestNewDocumentWithContentClean(t *testing.T) {
	d := NewDocument("loaded text", "notes.txt")
	if d.Dirty() {
		t.Error("document with initial content should start clean")
	}
	if d.Text() != "loaded text" {
		t.Errorf("text = %q, want %q", d.Text(), "loaded text")
	}
	if d.Title() != "notes.txt" {
		t.Errorf("title = %q, want %q", d.Title(), "notes.txt")
	}
}

func TestDocumentIDsUnique(t *testing.T) {
	a := NewDocument("", "")
	b := NewDocument("", "")
	if a.ID() == b.ID() {
		t.Errorf("IDs should differ, both %q", a.ID())
	}
}

func TestSetTextMakesDirty(t *testing.T) {
	d := NewDocument("", "")
	d.SetText("some content")
	if !d.Dirty() {
		t.Error("document should be dirty after SetText with different content")
	}
	if d.DisplayTitle() != UntitledTitle+ModifiedMarker {
		t.Errorf("DisplayTitle = %q, want %q", d.DisplayTitle(), UntitledTitle+ModifiedMarker)
	}
}

func TestSetTextBackToBaselineClean(t *testing.T) {
	d := NewDocument("unchanged", "a.txt")
	d.SetText("changed")
	d.SetText("unchanged")
	if d.Dirty() {
		t.Error("document should not be dirty when text matches the baseline")
	}
	if d.DisplayTitle() != "a.txt" {
		t.Errorf("DisplayTitle = %q, want %q", d.DisplayTitle(), "a.txt")
	}
}

func TestMarkSaved(t *testing.T) {
	d := NewDocument("", "")
	d.SetText("draft")
	d.MarkSaved("/tmp/draft.txt", "draft.txt")

	if d.Dirty() {
		t.Error("document should not be dirty after MarkSaved")
	}
	if d.Path() != "/tmp/draft.txt" {
		t.Errorf("path = %q, want %q", d.Path(), "/tmp/draft.txt")
	}
	if d.Title() != "draft.txt" {
		t.Errorf("title = %q, want %q", d.Title(), "draft.txt")
	}

	d.SetText("draft 2")
	if !d.Dirty() {
		t.Error("document should be dirty after editing a saved document")
	}
}

func TestSetTextRecordsMinimalEdit(t *testing.T) {
	d := NewDocument("hello world", "")
	d.SetText("hello brave world")
	if len(d.undoStack) != 1 {
		t.Fatalf("undo stack length = %d, want 1", len(d.undoStack))
	}
	op := d.undoStack[0]
	if op.offset != 6 || op.oldText != "" || op.newText != "brave " {
		t.Errorf("edit = %+v, want insert of %q at 6", op, "brave ")
	}
}

func TestSetTextSameIsNoop(t *testing.T) {
	d := NewDocument("same", "")
	d.SetText("same")
	if d.Undo() {
		t.Error("SetText with identical text should not record an edit")
	}
}

func TestUndoRedo(t *testing.T) {
	d := NewDocument("abc", "")
	d.ApplyEdit(1, "b", "XY")
	if d.Text() != "aXYc" {
		t.Fatalf("text = %q, want %q", d.Text(), "aXYc")
	}
	if !d.Dirty() {
		t.Error("document should be dirty after ApplyEdit")
	}

	if !d.Undo() {
		t.Fatal("Undo returned false")
	}
	if d.Text() != "abc" {
		t.Errorf("after undo text = %q, want %q", d.Text(), "abc")
	}
	if d.Dirty() {
		t.Error("undo back to the baseline should leave the document clean")
	}

	if !d.Redo() {
		t.Fatal("Redo returned false")
	}
	if d.Text() != "aXYc" {
		t.Errorf("after redo text = %q, want %q", d.Text(), "aXYc")
	}
	if d.Redo() {
		t.Error("second Redo should return false")
	}
}

func TestEditClearsRedo(t *testing.T) {
	d := NewDocument("one", "")
	d.SetText("two")
	d.Undo()
	d.SetText("three")
	if d.Redo() {
		t.Error("a new edit should clear the redo stack")
	}
}

func TestUndoDoesNotMoveBaseline(t *testing.T) {
	d := NewDocument("", "")
	d.SetText("saved")
	d.MarkSaved("/x", "x")
	d.Undo()
	if !d.Dirty() {
		t.Error("undo past the save point should make the document dirty")
	}
}

func TestMarkLoaded(t *testing.T) {
	d := NewDocument("from disk", "disk.txt")
	d.MarkLoaded("/data/disk.txt")
	if d.Dirty() {
		t.Error("document should be clean after MarkLoaded")
	}
	if d.Untitled() {
		t.Error("document should have a path after MarkLoaded")
	}
}
