package mcptools

import (
	"context"

	"github.com/odvcencio/tabpad/editor"
	"github.com/odvcencio/tabpad/lifecycle"
	"github.com/odvcencio/tabpad/session"
)

// LoopAccess reaches the controller through the event loop, so tool calls
// never race with the user's own edits.
type LoopAccess struct {
	Loop       *session.Loop
	Controller *lifecycle.Controller
	Root       string
}

var _ EditorAccess = (*LoopAccess)(nil)

func (a *LoopAccess) Post(ctx context.Context, intent lifecycle.Intent) (lifecycle.Result, error) {
	return a.Loop.Post(ctx, intent)
}

func (a *LoopAccess) Documents(ctx context.Context) ([]lifecycle.Tab, error) {
	var tabs []lifecycle.Tab
	err := a.Loop.Call(ctx, func() {
		tabs = a.Controller.Tabs()
	})
	return tabs, err
}

func (a *LoopAccess) Document(ctx context.Context, id editor.ID) (lifecycle.View, error) {
	var (
		view    lifecycle.View
		viewErr error
	)
	if err := a.Loop.Call(ctx, func() {
		view, viewErr = a.Controller.View(id)
	}); err != nil {
		return lifecycle.View{}, err
	}
	return view, viewErr
}

func (a *LoopAccess) ProjectRoot() string {
	return a.Root
}
