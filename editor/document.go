package editor

import (
	"github.com/google/uuid"
)

// UntitledTitle is the title of a document that has never been saved or
// loaded.
const UntitledTitle = "Untitled"

// ModifiedMarker is appended to a dirty document's tab title.
const ModifiedMarker = "*"

// ID identifies an open document. It stays valid across renames and edits.
type ID string

// NewID returns a fresh random document ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// editOp records a single edit for undo/redo support.
type editOp struct {
	offset  int
	oldText string
	newText string
}

// Document is one open text buffer with its identity, title and the
// fingerprint of its last saved or loaded state.
type Document struct {
	id    ID
	title string
	path  string // empty until saved, or the source path when loaded
	text  string

	current Fingerprint // fingerprint of text, kept in step with every edit
	saved   Fingerprint // baseline from the last load or save

	undoStack []editOp
	redoStack []editOp
}

// NewDocument creates a document holding content. The document starts clean.
// An empty title becomes UntitledTitle.
func NewDocument(content, title string) *Document {
	if title == "" {
		title = UntitledTitle
	}
	fp := FingerprintOf(content)
	return &Document{
		id:      NewID(),
		title:   title,
		text:    content,
		current: fp,
		saved:   fp,
	}
}

// ID returns the document's stable identifier.
func (d *Document) ID() ID {
	return d.id
}

// Title returns the tab label without the modified marker.
func (d *Document) Title() string {
	return d.title
}

// DisplayTitle returns the tab label, suffixed with ModifiedMarker when the
// document is dirty.
func (d *Document) DisplayTitle() string {
	if d.Dirty() {
		return d.title + ModifiedMarker
	}
	return d.title
}

// Path returns the storage path, or "" if the document has none yet.
func (d *Document) Path() string {
	return d.path
}

// Untitled reports whether the document has no associated storage path.
func (d *Document) Untitled() bool {
	return d.path == ""
}

// Text returns the current text content.
func (d *Document) Text() string {
	return d.text
}

// Fingerprint returns the fingerprint of the current text.
func (d *Document) Fingerprint() Fingerprint {
	return d.current
}

// Baseline returns the fingerprint of the last saved or loaded text.
func (d *Document) Baseline() Fingerprint {
	return d.saved
}

// Dirty reports whether the text differs from the last saved/loaded text.
func (d *Document) Dirty() bool {
	return d.current != d.saved
}

// MarkSaved records a successful write of the current text to path.
func (d *Document) MarkSaved(path, title string) {
	d.path = path
	if title != "" {
		d.title = title
	}
	d.saved = d.current
}

// MarkLoaded records that the current text was read from path. Loading and
// saving are the only ways to move the baseline.
func (d *Document) MarkLoaded(path string) {
	d.path = path
	d.saved = d.current
}

// SetText replaces the document text. The change is recorded on the undo
// stack as a single edit covering the span between the common prefix and
// suffix of the old and new text.
func (d *Document) SetText(text string) {
	if text == d.text {
		return
	}
	old := d.text
	prefix := commonPrefix(old, text)
	suffix := commonSuffix(old[prefix:], text[prefix:])
	d.ApplyEdit(prefix, old[prefix:len(old)-suffix], text[prefix:len(text)-suffix])
}

// ApplyEdit records the edit on the undo stack, clears the redo stack, and
// applies the edit to the text. The edit replaces the text at
// [offset, offset+len(oldText)) with newText.
func (d *Document) ApplyEdit(offset int, oldText, newText string) {
	d.undoStack = append(d.undoStack, editOp{
		offset:  offset,
		oldText: oldText,
		newText: newText,
	})
	d.redoStack = nil
	d.replaceText(d.text[:offset] + newText + d.text[offset+len(oldText):])
}

// Undo reverses the last edit. Returns false if the undo stack is empty.
func (d *Document) Undo() bool {
	if len(d.undoStack) == 0 {
		return false
	}
	op := d.undoStack[len(d.undoStack)-1]
	d.undoStack = d.undoStack[:len(d.undoStack)-1]
	d.replaceText(d.text[:op.offset] + op.oldText + d.text[op.offset+len(op.newText):])
	d.redoStack = append(d.redoStack, op)
	return true
}

// Redo reapplies the last undone edit. Returns false if the redo stack is
// empty.
func (d *Document) Redo() bool {
	if len(d.redoStack) == 0 {
		return false
	}
	op := d.redoStack[len(d.redoStack)-1]
	d.redoStack = d.redoStack[:len(d.redoStack)-1]
	d.replaceText(d.text[:op.offset] + op.newText + d.text[op.offset+len(op.oldText):])
	d.undoStack = append(d.undoStack, op)
	return true
}

func (d *Document) replaceText(text string) {
	d.text = text
	d.current = FingerprintOf(text)
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
