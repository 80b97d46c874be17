package lifecycle

import "github.com/odvcencio/tabpad/editor"

// Intent is a discrete user action delivered to the controller. The set of
// intents is closed; each has a fixed shape.
type Intent interface {
	Name() string
}

type (
	// NewDocument opens a blank tab.
	NewDocument struct{}
	// OpenDocument loads Path into a new tab, or switches to it if open.
	OpenDocument struct{ Path string }
	// CloseActive closes the active tab, confirming if it is dirty.
	CloseActive struct{}
	// CloseDocument closes the tab with ID, confirming if it is dirty.
	CloseDocument struct{ ID editor.ID }
	// SelectTab activates the tab with ID.
	SelectTab struct{ ID editor.ID }
	// KeyEdited replaces the active document's text after a keystroke.
	KeyEdited struct{ Content string }
	// Save writes the active document back to its path.
	Save struct{}
	// SaveAs writes the active document to Path and adopts that path.
	SaveAs struct{ Path string }
	// ReplaceAll replaces every occurrence of Search in the active document.
	ReplaceAll struct{ Search, Replace string }
	// Capitalize capitalizes every sentence of the active document.
	Capitalize struct{}
	// Highlight renders the active document to the preview surface.
	Highlight struct{}
	// CountWords reports the active document's word count.
	CountWords struct{}
	// Undo reverses the active document's last edit.
	Undo struct{}
	// Redo reapplies the active document's last undone edit.
	Redo struct{}
	// Quit exits the application, confirming if any document is dirty.
	Quit struct{}
	// FileChanged reports that Path changed on disk.
	FileChanged struct{ Path string }
	// Refresh redraws the host from the current state.
	Refresh struct{}
)

func (NewDocument) Name() string   { return "newDocument" }
func (OpenDocument) Name() string  { return "openDocument" }
func (CloseActive) Name() string   { return "closeActive" }
func (CloseDocument) Name() string { return "closeDocument" }
func (SelectTab) Name() string     { return "selectTab" }
func (KeyEdited) Name() string     { return "keyEdited" }
func (Save) Name() string          { return "save" }
func (SaveAs) Name() string        { return "saveAs" }
func (ReplaceAll) Name() string    { return "replaceAll" }
func (Capitalize) Name() string    { return "capitalize" }
func (Highlight) Name() string     { return "highlight" }
func (CountWords) Name() string    { return "countWords" }
func (Undo) Name() string          { return "undo" }
func (Redo) Name() string          { return "redo" }
func (Quit) Name() string          { return "quit" }
func (FileChanged) Name() string   { return "fileChanged" }
func (Refresh) Name() string       { return "refresh" }

// Result carries what an intent produced, for callers that are not the
// widget host (agents, tests).
type Result struct {
	Document editor.ID `json:"document,omitempty"`
	Replaced int       `json:"replaced,omitempty"`
	Words    int       `json:"words,omitempty"`
	Markup   string    `json:"markup,omitempty"`
	Quit     bool      `json:"quit,omitempty"`
}
