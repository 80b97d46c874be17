package lifecycle

import (
	"context"

	"github.com/odvcencio/tabpad/editor"
)

// Choice is the user's answer to a confirmation.
type Choice int

const (
	// Cancel dismisses the dialog. It is also the answer when the host
	// cannot ask.
	Cancel Choice = iota
	// Accept discards unsaved work and proceeds.
	Accept
	// Decline keeps unsaved work and does not proceed.
	Decline
)

func (c Choice) String() string {
	switch c {
	case Accept:
		return "accept"
	case Decline:
		return "decline"
	default:
		return "cancel"
	}
}

// ParseChoice maps "accept", "decline" or "cancel" (and the dialog-style
// "yes"/"no") to a Choice. Anything else is Cancel.
func ParseChoice(s string) Choice {
	switch s {
	case "accept", "yes", "discard":
		return Accept
	case "decline", "no":
		return Decline
	default:
		return Cancel
	}
}

// Tab describes one entry of the tab bar.
type Tab struct {
	ID     editor.ID `json:"id"`
	Title  string    `json:"title"` // includes the modified marker when dirty
	Dirty  bool      `json:"dirty"`
	Active bool      `json:"active"`
	Path   string    `json:"path,omitempty"`
}

// View is the editable content of the active document plus its status line.
type View struct {
	ID      editor.ID `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Dirty   bool      `json:"dirty"`
	Words   int       `json:"words"`
}

// Level grades a Notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a user-visible message, such as a failed save.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Host is the widget host: whatever draws the tabs, the editable text and
// the preview, and asks the user questions.
type Host interface {
	// Confirm asks a yes/no/cancel question and blocks until it is answered
	// or ctx is done.
	Confirm(ctx context.Context, message string) Choice
	// Tabs redraws the tab bar.
	Tabs(tabs []Tab)
	// Render shows the editable content of a document.
	Render(view View)
	// Preview shows read-only markup for a document on a separate surface.
	Preview(id editor.ID, markup string)
	// Notify shows a message to the user.
	Notify(n Notice)
}

// Watcher is notified of the local paths of open documents.
type Watcher interface {
	Watch(path string) error
	Unwatch(path string)
}
