// Package commands names the editor commands a host can bind to menus,
// palettes and shortcuts. Each command produces a lifecycle intent.
package commands

import "github.com/odvcencio/tabpad/lifecycle"

// Command is one entry of the command palette.
type Command struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Shortcut string `json:"shortcut,omitempty"`
	Category string `json:"category"`

	intent lifecycle.Intent
}

// Intent returns the intent the command triggers.
func (c Command) Intent() lifecycle.Intent {
	return c.intent
}

var all = []Command{
	{ID: "file.new", Label: "New File", Shortcut: "Ctrl+N", Category: "File", intent: lifecycle.NewDocument{}},
	{ID: "file.save", Label: "Save File", Shortcut: "Ctrl+S", Category: "File", intent: lifecycle.Save{}},
	{ID: "file.close", Label: "Close Tab", Shortcut: "Ctrl+W", Category: "File", intent: lifecycle.CloseActive{}},
	{ID: "app.quit", Label: "Exit", Shortcut: "Escape", Category: "App", intent: lifecycle.Quit{}},
	{ID: "edit.undo", Label: "Undo", Shortcut: "Ctrl+Z", Category: "Edit", intent: lifecycle.Undo{}},
	{ID: "edit.redo", Label: "Redo", Shortcut: "Ctrl+Shift+Z", Category: "Edit", intent: lifecycle.Redo{}},
	{ID: "edit.capitalize", Label: "Capitalize Sentences", Category: "Edit", intent: lifecycle.Capitalize{}},
	{ID: "view.highlight", Label: "Syntax Highlight Preview", Shortcut: "Ctrl+H", Category: "View", intent: lifecycle.Highlight{}},
	{ID: "view.wordcount", Label: "Word Count", Category: "View", intent: lifecycle.CountWords{}},
}

// All returns the full command list for the palette.
func All() []Command {
	return append([]Command(nil), all...)
}

// Lookup returns the command with id.
func Lookup(id string) (Command, bool) {
	for _, c := range all {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}
