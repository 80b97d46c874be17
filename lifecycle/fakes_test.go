package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/odvcencio/tabpad/editor"
	"github.com/odvcencio/tabpad/storage"
)

// fakeHost records everything the controller sends and answers
// confirmations from a script.
type fakeHost struct {
	answers  []Choice
	confirms []string
	tabs     []Tab
	views    []View
	previews map[editor.ID]string
	notices  []Notice
}

func newFakeHost(answers ...Choice) *fakeHost {
	return &fakeHost{answers: answers, previews: make(map[editor.ID]string)}
}

func (h *fakeHost) Confirm(_ context.Context, message string) Choice {
	h.confirms = append(h.confirms, message)
	if len(h.answers) == 0 {
		return Cancel
	}
	c := h.answers[0]
	h.answers = h.answers[1:]
	return c
}

func (h *fakeHost) Tabs(tabs []Tab)                { h.tabs = tabs }
func (h *fakeHost) Render(v View)                  { h.views = append(h.views, v) }
func (h *fakeHost) Preview(id editor.ID, m string) { h.previews[id] = m }
func (h *fakeHost) Notify(n Notice)                { h.notices = append(h.notices, n) }

func (h *fakeHost) lastView() View {
	if len(h.views) == 0 {
		return View{}
	}
	return h.views[len(h.views)-1]
}

func (h *fakeHost) noticed(substr string) bool {
	for _, n := range h.notices {
		if strings.Contains(n.Message, substr) {
			return true
		}
	}
	return false
}

// memStore is an in-memory storage.Store.
type memStore struct {
	files     map[string]string
	failRead  error
	failWrite error
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string]string)}
}

func (s *memStore) Resolve(path string) (string, error) {
	if strings.HasPrefix(path, "bad:") {
		return "", errors.New("unresolvable")
	}
	return path, nil
}

func (s *memStore) Read(_ context.Context, path string) (string, error) {
	if s.failRead != nil {
		return "", s.failRead
	}
	content, ok := s.files[path]
	if !ok {
		return "", storage.ErrNotFound
	}
	return content, nil
}

func (s *memStore) Write(_ context.Context, path, content string) error {
	if s.failWrite != nil {
		return s.failWrite
	}
	s.files[path] = content
	return nil
}

type fakeHighlighter struct {
	err error
}

func (f fakeHighlighter) Markup(content, hint string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "<pre data-hint=\"" + hint + "\">" + content + "</pre>", nil
}

type fakeWatcher struct {
	watched map[string]bool
}

func (w *fakeWatcher) Watch(path string) error { w.watched[path] = true; return nil }
func (w *fakeWatcher) Unwatch(path string)     { delete(w.watched, path) }
