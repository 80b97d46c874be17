package editor

import "fmt"

// Registry owns the open documents in tab order and tracks which one is
// active. While the registry is open it always holds at least one document
// once the first one is created; closing the last tab replaces it with a
// fresh blank document.
//
// A Registry is not safe for concurrent use. It is owned by the event loop.
type Registry struct {
	docs   []*Document
	active int // index of active document, or -1 if none
	closed bool
}

// NewRegistry creates a Registry holding one blank document.
func NewRegistry() *Registry {
	r := &Registry{active: -1}
	r.Open()
	return r
}

// Count returns the number of open documents.
func (r *Registry) Count() int {
	return len(r.docs)
}

// Open appends a new blank document, activates it and returns its ID.
func (r *Registry) Open() ID {
	return r.OpenWithContent("", UntitledTitle)
}

// OpenWithContent appends a document holding content, activates it and
// returns its ID. The document starts clean.
func (r *Registry) OpenWithContent(content, title string) ID {
	doc := NewDocument(content, title)
	r.docs = append(r.docs, doc)
	r.active = len(r.docs) - 1
	return doc.ID()
}

// Get returns the document with id.
func (r *Registry) Get(id ID) (*Document, error) {
	i, err := r.index("get", id)
	if err != nil {
		return nil, err
	}
	return r.docs[i], nil
}

// Index returns the tab position of id, or -1 if it is not open.
func (r *Registry) Index(id ID) int {
	for i, doc := range r.docs {
		if doc.ID() == id {
			return i
		}
	}
	return -1
}

// FindByPath returns the open document stored at path, or nil.
func (r *Registry) FindByPath(path string) *Document {
	if path == "" {
		return nil
	}
	for _, doc := range r.docs {
		if doc.Path() == path {
			return doc
		}
	}
	return nil
}

// Activate makes id the active document.
func (r *Registry) Activate(id ID) error {
	i, err := r.index("activate", id)
	if err != nil {
		return err
	}
	r.active = i
	return nil
}

// Active returns the active document.
func (r *Registry) Active() (*Document, error) {
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if r.active < 0 || r.active >= len(r.docs) {
		return nil, ErrNoActiveDocument
	}
	return r.docs[r.active], nil
}

// All returns the open documents in tab order. The slice is a copy; the
// documents are shared.
func (r *Registry) All() []*Document {
	return append([]*Document(nil), r.docs...)
}

// AnyDirty reports whether any open document has unsaved changes.
func (r *Registry) AnyDirty() bool {
	for _, doc := range r.docs {
		if doc.Dirty() {
			return true
		}
	}
	return false
}

// Close removes the document with id. Callers must already have confirmed
// discarding unsaved changes. After removal the active index is adjusted:
//   - If the closed tab was the last one, a fresh blank document replaces it
//     and becomes active.
//   - If the closed tab was before the active tab, active shifts down by one.
//   - If the closed tab was the active tab, the tab that slides into its slot
//     becomes active, clamped to the last tab.
func (r *Registry) Close(id ID) error {
	index, err := r.index("close", id)
	if err != nil {
		return err
	}

	if len(r.docs) == 1 {
		r.docs = append(r.docs, NewDocument("", UntitledTitle))
	}

	r.docs = append(r.docs[:index], r.docs[index+1:]...)

	if index < r.active {
		r.active--
	} else if r.active >= len(r.docs) {
		r.active = len(r.docs) - 1
	}
	return nil
}

// Destroy tears down every document. Every later operation fails with
// ErrRegistryClosed.
func (r *Registry) Destroy() {
	r.docs = nil
	r.active = -1
	r.closed = true
}

// Closed reports whether Destroy has been called.
func (r *Registry) Closed() bool {
	return r.closed
}

func (r *Registry) index(op string, id ID) (int, error) {
	if r.closed {
		return -1, ErrRegistryClosed
	}
	if i := r.Index(id); i >= 0 {
		return i, nil
	}
	return -1, &InvariantViolation{Op: op, Detail: fmt.Sprintf("unknown document %q", id)}
}
