// Package lifecycle orchestrates actions that need the whole registry:
// opening, saving, closing tabs, quitting, and running transforms on the
// active document. It asks the widget host to confirm before discarding
// unsaved work.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tliron/commonlog"

	"github.com/odvcencio/tabpad/editor"
	"github.com/odvcencio/tabpad/storage"
	"github.com/odvcencio/tabpad/transform"
)

var log = commonlog.GetLogger("tabpad.lifecycle")

const (
	closeMessage = "You have unsaved changes in %s. Discard them and close the tab?"
	quitMessage  = "Warning! You have unsaved changes. Are you sure you want to quit?"
	ownedMessage = "%s is open in another tab. Replace it and close that tab?"
)

// ErrNoPath reports a save of a document that has never been given a path.
var ErrNoPath = errors.New("document has no path; use save as")

// Options configures a Controller.
type Options struct {
	Store       storage.Store
	Highlighter transform.Highlighter
	Watcher     Watcher // optional

	// ConfirmTimeout bounds how long a confirmation may stay unanswered; an
	// unanswered confirmation counts as Cancel. Zero means no bound.
	ConfirmTimeout time.Duration
}

// Controller owns the registry on behalf of the event loop. It is not safe
// for concurrent use; session.Loop serializes access.
type Controller struct {
	reg            *editor.Registry
	host           Host
	store          storage.Store
	highlighter    transform.Highlighter
	watcher        Watcher
	confirmTimeout time.Duration

	// Set while a confirmation for that action is outstanding.
	closePending bool
	quitPending  bool
}

// New creates a Controller over reg that reports to host.
func New(reg *editor.Registry, host Host, opts Options) *Controller {
	return &Controller{
		reg:            reg,
		host:           host,
		store:          opts.Store,
		highlighter:    opts.Highlighter,
		watcher:        opts.Watcher,
		confirmTimeout: opts.ConfirmTimeout,
	}
}

// Registry returns the registry the controller drives.
func (c *Controller) Registry() *editor.Registry {
	return c.reg
}

// Pending reports whether a close or quit confirmation is outstanding.
func (c *Controller) Pending() bool {
	return c.closePending || c.quitPending
}

// Dispatch runs one intent to completion.
func (c *Controller) Dispatch(ctx context.Context, intent Intent) (Result, error) {
	switch in := intent.(type) {
	case NewDocument:
		return Result{Document: c.New()}, nil
	case OpenDocument:
		id, err := c.Open(ctx, in.Path)
		return Result{Document: id}, err
	case CloseActive:
		doc, err := c.reg.Active()
		if err != nil {
			return Result{}, c.violation(err)
		}
		return Result{}, c.RequestClose(ctx, doc.ID())
	case CloseDocument:
		return Result{}, c.RequestClose(ctx, in.ID)
	case SelectTab:
		return Result{Document: in.ID}, c.Select(in.ID)
	case KeyEdited:
		return Result{}, c.Edit(in.Content)
	case Save:
		return Result{}, c.Save(ctx)
	case SaveAs:
		return Result{}, c.SaveAs(ctx, in.Path)
	case ReplaceAll:
		n, err := c.Replace(in.Search, in.Replace)
		return Result{Replaced: n}, err
	case Capitalize:
		return Result{}, c.Capitalize()
	case Highlight:
		markup, err := c.Highlight()
		return Result{Markup: markup}, err
	case CountWords:
		n, err := c.WordCount()
		return Result{Words: n}, err
	case Undo:
		return Result{}, c.Undo()
	case Redo:
		return Result{}, c.Redo()
	case Quit:
		quit, err := c.RequestQuit(ctx)
		return Result{Quit: quit}, err
	case FileChanged:
		c.ExternalChange(ctx, in.Path)
		return Result{}, nil
	case Refresh:
		c.sync()
		return Result{}, nil
	default:
		return Result{}, c.violation(&editor.InvariantViolation{
			Op:     "dispatch",
			Detail: fmt.Sprintf("unknown intent %T", intent),
		})
	}
}

// New opens a blank document and makes it active.
func (c *Controller) New() editor.ID {
	id := c.reg.Open()
	c.sync()
	return id
}

// Open loads path into a new tab. If a document with the same path is
// already open it is activated instead. A failed load creates nothing.
func (c *Controller) Open(ctx context.Context, path string) (editor.ID, error) {
	if path == "" {
		return "", editor.ErrCancelled
	}
	resolved, err := c.store.Resolve(path)
	if err != nil {
		return "", c.ioFailure("read", path, err)
	}

	if doc := c.reg.FindByPath(resolved); doc != nil {
		if err := c.reg.Activate(doc.ID()); err != nil {
			return "", c.violation(err)
		}
		c.sync()
		return doc.ID(), nil
	}

	content, err := c.store.Read(ctx, resolved)
	if err != nil {
		return "", c.ioFailure("read", resolved, err)
	}

	id := c.reg.OpenWithContent(content, filepath.Base(resolved))
	doc, err := c.reg.Get(id)
	if err != nil {
		return "", c.violation(err)
	}
	doc.MarkLoaded(resolved)
	c.watch(resolved)
	log.Infof("opened %s as %s", resolved, id)
	c.sync()
	return id, nil
}

// Select makes id the active document.
func (c *Controller) Select(id editor.ID) error {
	if err := c.reg.Activate(id); err != nil {
		return c.violation(err)
	}
	c.sync()
	return nil
}

// Edit replaces the active document's text with content.
func (c *Controller) Edit(content string) error {
	doc, err := c.reg.Active()
	if err != nil {
		return c.violation(err)
	}
	doc.SetText(content)
	c.sync()
	return nil
}

// Save writes the active document to its path.
func (c *Controller) Save(ctx context.Context) error {
	doc, err := c.reg.Active()
	if err != nil {
		return c.violation(err)
	}
	if doc.Untitled() {
		c.notify(LevelInfo, "Cannot save an untitled document; use Save As")
		return ErrNoPath
	}
	return c.write(ctx, doc, doc.Path())
}

// SaveAs writes the active document to path and adopts it as the
// document's path and title. An empty path means the user dismissed the
// dialog.
func (c *Controller) SaveAs(ctx context.Context, path string) error {
	if path == "" {
		return editor.ErrCancelled
	}
	doc, err := c.reg.Active()
	if err != nil {
		return c.violation(err)
	}
	resolved, err := c.store.Resolve(path)
	if err != nil {
		return c.ioFailure("write", path, err)
	}

	// A path belongs to at most one tab.
	other := c.reg.FindByPath(resolved)
	if other == doc {
		other = nil
	}
	if other != nil {
		if choice := c.confirm(ctx, fmt.Sprintf(ownedMessage, other.Title())); choice != Accept {
			log.Debugf("save as %s over %s %s", doc.ID(), other.ID(), choice)
			return editor.ErrCancelled
		}
	}
	if err := c.write(ctx, doc, resolved); err != nil {
		return err
	}
	if other != nil {
		if err := c.reg.Close(other.ID()); err != nil {
			return c.violation(err)
		}
		c.unwatch(resolved)
		log.Infof("closed %s, replaced by %s", other.ID(), doc.ID())
		c.sync()
	}
	return nil
}

func (c *Controller) write(ctx context.Context, doc *editor.Document, path string) error {
	if err := c.store.Write(ctx, path, doc.Text()); err != nil {
		return c.ioFailure("write", path, err)
	}
	old := doc.Path()
	doc.MarkSaved(path, filepath.Base(path))
	if old != path {
		c.unwatch(old)
		c.watch(path)
	}
	log.Infof("saved %s to %s", doc.ID(), path)
	c.notify(LevelInfo, fmt.Sprintf("Saved %s", doc.Title()))
	c.sync()
	return nil
}

// RequestClose closes the document with id. A dirty document is closed
// only if the user accepts discarding its changes; otherwise nothing
// changes and ErrCancelled is returned.
func (c *Controller) RequestClose(ctx context.Context, id editor.ID) error {
	doc, err := c.reg.Get(id)
	if err != nil {
		return c.violation(err)
	}
	if c.closePending {
		return editor.ErrCancelled
	}
	if doc.Dirty() {
		c.closePending = true
		choice := c.confirm(ctx, fmt.Sprintf(closeMessage, doc.Title()))
		c.closePending = false
		if choice != Accept {
			log.Debugf("close of %s %s", id, choice)
			return editor.ErrCancelled
		}
	}

	path := doc.Path()
	if err := c.reg.Close(id); err != nil {
		return c.violation(err)
	}
	c.unwatch(path)
	log.Infof("closed %s", id)
	c.sync()
	return nil
}

// RequestQuit tears down every document and reports true, unless some
// document is dirty and the user declines the single aggregate
// confirmation, in which case nothing changes and ErrCancelled is returned.
func (c *Controller) RequestQuit(ctx context.Context) (bool, error) {
	if c.quitPending {
		return false, editor.ErrCancelled
	}
	if c.reg.AnyDirty() {
		c.quitPending = true
		choice := c.confirm(ctx, quitMessage)
		c.quitPending = false
		if choice != Accept {
			log.Debugf("quit %s", choice)
			return false, editor.ErrCancelled
		}
	}
	for _, doc := range c.reg.All() {
		c.unwatch(doc.Path())
	}
	c.reg.Destroy()
	log.Info("quit")
	return true, nil
}

// Replace replaces every occurrence of search in the active document and
// returns the number of replacements.
func (c *Controller) Replace(search, replace string) (int, error) {
	doc, err := c.reg.Active()
	if err != nil {
		return 0, c.violation(err)
	}
	text, n := transform.SearchAndReplace(doc.Text(), search, replace)
	if n > 0 {
		doc.SetText(text)
	}
	c.notify(LevelInfo, fmt.Sprintf("Replaced %d occurrence(s)", n))
	c.sync()
	return n, nil
}

// Capitalize capitalizes the sentences of the active document.
func (c *Controller) Capitalize() error {
	doc, err := c.reg.Active()
	if err != nil {
		return c.violation(err)
	}
	doc.SetText(transform.AutoCapitalize(doc.Text()))
	c.sync()
	return nil
}

// Highlight renders the active document to the host's preview surface and
// returns the markup. The document text is not modified.
func (c *Controller) Highlight() (string, error) {
	doc, err := c.reg.Active()
	if err != nil {
		return "", c.violation(err)
	}
	hint := doc.Path()
	if hint == "" {
		hint = doc.Title()
	}
	markup, err := transform.HighlightMarkup(c.highlighter, doc.Text(), hint)
	if err != nil {
		log.Warningf("highlight %s: %v", doc.ID(), err)
		c.notify(LevelInfo, "No highlighting available")
		return "", err
	}
	c.host.Preview(doc.ID(), markup)
	return markup, nil
}

// WordCount returns the active document's word count.
func (c *Controller) WordCount() (int, error) {
	doc, err := c.reg.Active()
	if err != nil {
		return 0, c.violation(err)
	}
	return transform.WordCount(doc.Text()), nil
}

// Undo reverses the active document's last edit.
func (c *Controller) Undo() error {
	doc, err := c.reg.Active()
	if err != nil {
		return c.violation(err)
	}
	if doc.Undo() {
		c.sync()
	}
	return nil
}

// Redo reapplies the active document's last undone edit.
func (c *Controller) Redo() error {
	doc, err := c.reg.Active()
	if err != nil {
		return c.violation(err)
	}
	if doc.Redo() {
		c.sync()
	}
	return nil
}

// ExternalChange tells the user when an open file was changed by another
// program. Writes that match the document's saved or current text are the
// editor's own and are ignored.
func (c *Controller) ExternalChange(ctx context.Context, path string) {
	doc := c.reg.FindByPath(path)
	if doc == nil {
		return
	}
	content, err := c.store.Read(ctx, path)
	if err != nil {
		log.Debugf("reread %s: %v", path, err)
		return
	}
	fp := editor.FingerprintOf(content)
	if fp == doc.Baseline() || fp == doc.Fingerprint() {
		return
	}
	c.notify(LevelInfo, fmt.Sprintf("%s changed on disk", doc.Title()))
}

func (c *Controller) confirm(ctx context.Context, message string) Choice {
	if c.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.confirmTimeout)
		defer cancel()
	}
	return c.host.Confirm(ctx, message)
}

// Tabs describes the tab bar in order.
func (c *Controller) Tabs() []Tab {
	active, _ := c.reg.Active()
	docs := c.reg.All()
	tabs := make([]Tab, len(docs))
	for i, doc := range docs {
		tabs[i] = Tab{
			ID:     doc.ID(),
			Title:  doc.DisplayTitle(),
			Dirty:  doc.Dirty(),
			Active: doc == active,
			Path:   doc.Path(),
		}
	}
	return tabs
}

// View describes the document with id, or the active document when id is
// empty.
func (c *Controller) View(id editor.ID) (View, error) {
	var (
		doc *editor.Document
		err error
	)
	if id == "" {
		doc, err = c.reg.Active()
	} else {
		doc, err = c.reg.Get(id)
	}
	if err != nil {
		return View{}, err
	}
	return View{
		ID:      doc.ID(),
		Title:   doc.DisplayTitle(),
		Content: doc.Text(),
		Dirty:   doc.Dirty(),
		Words:   transform.WordCount(doc.Text()),
	}, nil
}

// sync redraws the tab bar and the active document.
func (c *Controller) sync() {
	view, err := c.View("")
	if err != nil {
		return
	}
	c.host.Tabs(c.Tabs())
	c.host.Render(view)
}

func (c *Controller) notify(level Level, message string) {
	c.host.Notify(Notice{Level: level, Message: message})
}

func (c *Controller) ioFailure(op, path string, err error) error {
	ioErr := &editor.IOError{Op: op, Path: path, Err: err}
	log.Errorf("%v", ioErr)
	switch {
	case op == "read" && errors.Is(err, storage.ErrNotFound):
		c.notify(LevelError, fmt.Sprintf("File not opened: %s does not exist", path))
	case op == "read":
		c.notify(LevelError, fmt.Sprintf("File not opened: %v", err))
	default:
		c.notify(LevelError, fmt.Sprintf("Save failed: %v", err))
	}
	return ioErr
}

func (c *Controller) violation(err error) error {
	log.Errorf("%v", err)
	return err
}

func (c *Controller) watch(path string) {
	if c.watcher == nil || path == "" {
		return
	}
	if err := c.watcher.Watch(path); err != nil {
		log.Warningf("watch %s: %v", path, err)
	}
}

// unwatch stops watching path unless another open document still uses it.
func (c *Controller) unwatch(path string) {
	if c.watcher == nil || path == "" || c.reg.FindByPath(path) != nil {
		return
	}
	c.watcher.Unwatch(path)
}
