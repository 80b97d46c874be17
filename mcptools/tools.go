// Package mcptools exposes the editor's intents as MCP tools so an agent can
// drive the same documents the user sees.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/odvcencio/tabpad/commands"
	"github.com/odvcencio/tabpad/editor"
	"github.com/odvcencio/tabpad/lifecycle"
	"github.com/odvcencio/tabpad/storage"
)

// EditorAccess provides the interface for MCP tools to interact with the editor.
type EditorAccess interface {
	// Post runs an intent on the event loop.
	Post(ctx context.Context, intent lifecycle.Intent) (lifecycle.Result, error)

	// State
	Documents(ctx context.Context) ([]lifecycle.Tab, error)
	Document(ctx context.Context, id editor.ID) (lifecycle.View, error)
	ProjectRoot() string
}

// ToolDef describes an MCP tool.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Handler     func(ctx context.Context, params json.RawMessage) (any, error)
}

// ResourceDef describes an MCP resource.
type ResourceDef struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
	Handler     func(ctx context.Context, uri string) (string, error)
}

// Registry holds all MCP tools and resources for the editor.
type Registry struct {
	editor    EditorAccess
	tools     []ToolDef
	resources []ResourceDef
}

// NewRegistry creates a new MCP registry with all editor tools and resources.
func NewRegistry(editor EditorAccess) *Registry {
	r := &Registry{editor: editor}
	r.registerTools()
	r.registerResources()
	return r
}

// Tools returns all registered MCP tools.
func (r *Registry) Tools() []ToolDef {
	return r.tools
}

// Resources returns all registered MCP resources.
func (r *Registry) Resources() []ResourceDef {
	return r.resources
}

// HandleTool dispatches a tool call by name.
func (r *Registry) HandleTool(ctx context.Context, name string, params json.RawMessage) (any, error) {
	for _, t := range r.tools {
		if t.Name == name {
			return t.Handler(ctx, params)
		}
	}
	return nil, fmt.Errorf("unknown tool: %s", name)
}

// HandleResource dispatches a resource read by URI.
func (r *Registry) HandleResource(ctx context.Context, uri string) (string, error) {
	for _, res := range r.resources {
		if matchResourceURI(res.URI, uri) {
			return res.Handler(ctx, uri)
		}
	}
	return "", fmt.Errorf("unknown resource: %s", uri)
}

// matchResourceURI checks whether a concrete URI matches a resource URI template.
// Templates use {param} placeholders that match one or more path segments.
func matchResourceURI(template, uri string) bool {
	idx := strings.Index(template, "{")
	if idx < 0 {
		return template == uri
	}
	return strings.HasPrefix(uri, template[:idx])
}

// resolvePath makes a relative local path absolute against the project root.
// Object paths pass through untouched.
func (r *Registry) resolvePath(path string) string {
	if storage.IsObjectPath(path) || filepath.IsAbs(path) {
		return path
	}
	root := r.editor.ProjectRoot()
	if root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// decode unmarshals tool params. Tools without arguments may be called with
// no params at all.
func decode(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func (r *Registry) registerTools() {
	r.tools = []ToolDef{
		r.toolListDocuments(),
		r.toolReadDocument(),
		r.toolOpenFile(),
		r.toolNewDocument(),
		r.toolReplaceAll(),
		r.toolCapitalize(),
		r.toolWordCount(),
		r.toolHighlight(),
		r.toolSaveAs(),
		r.toolSelectTab(),
		r.toolRunCommand(),
	}
}

func (r *Registry) registerResources() {
	r.resources = []ResourceDef{
		r.resourceDocument(),
	}
}

var noParams = json.RawMessage(`{"type": "object", "properties": {}}`)

// --- Tool definitions ---

func (r *Registry) toolListDocuments() ToolDef {
	return ToolDef{
		Name:        "tabpad_list_documents",
		Description: "Lists the open documents in tab order with their IDs, titles, paths and whether they have unsaved changes.",
		InputSchema: noParams,
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			tabs, err := r.editor.Documents(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"documents": tabs,
				"count":     len(tabs),
			}, nil
		},
	}
}

func (r *Registry) toolReadDocument() ToolDef {
	return ToolDef{
		Name:        "tabpad_read_document",
		Description: "Reads the text of an open document. If no id is provided, reads the active document.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {
					"type": "string",
					"description": "Document ID from tabpad_list_documents. If empty, reads the active document."
				}
			}
		}`),
		Handler: func(ctx context.Context, params json.RawMessage) (any, error) {
			var p struct {
				ID string `json:"id"`
			}
			if err := decode(params, &p); err != nil {
				return nil, err
			}
			view, err := r.editor.Document(ctx, editor.ID(p.ID))
			if err != nil {
				return nil, fmt.Errorf("failed to read document: %w", err)
			}
			return view, nil
		},
	}
}

func (r *Registry) toolOpenFile() ToolDef {
	return ToolDef{
		Name:        "tabpad_open_file",
		Description: "Opens a file in a new tab. If the file is already open, its tab becomes active.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "Path to the file to open. Relative paths are resolved against the project root; s3://bucket/key paths are read from object storage."
				}
			},
			"required": ["path"]
		}`),
		Handler: func(ctx context.Context, params json.RawMessage) (any, error) {
			var p struct {
				Path string `json:"path"`
			}
			if err := decode(params, &p); err != nil {
				return nil, err
			}
			if p.Path == "" {
				return nil, fmt.Errorf("path is required")
			}
			resolved := r.resolvePath(p.Path)
			res, err := r.editor.Post(ctx, lifecycle.OpenDocument{Path: resolved})
			if err != nil {
				return nil, fmt.Errorf("failed to open file: %w", err)
			}
			return map[string]any{
				"id":     res.Document,
				"path":   resolved,
				"status": "opened",
			}, nil
		},
	}
}

func (r *Registry) toolNewDocument() ToolDef {
	return ToolDef{
		Name:        "tabpad_new_document",
		Description: "Opens a new blank Untitled document and makes it active.",
		InputSchema: noParams,
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			res, err := r.editor.Post(ctx, lifecycle.NewDocument{})
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": res.Document, "status": "created"}, nil
		},
	}
}

func (r *Registry) toolReplaceAll() ToolDef {
	return ToolDef{
		Name:        "tabpad_replace_all",
		Description: "Replaces every occurrence of a literal string in the active document. Matching is case-sensitive and does not overlap.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"search": {
					"type": "string",
					"description": "Literal text to find. An empty string replaces nothing."
				},
				"replace": {
					"type": "string",
					"description": "Replacement text. May be empty."
				}
			},
			"required": ["search", "replace"]
		}`),
		Handler: func(ctx context.Context, params json.RawMessage) (any, error) {
			var p struct {
				Search  string `json:"search"`
				Replace string `json:"replace"`
			}
			if err := decode(params, &p); err != nil {
				return nil, err
			}
			res, err := r.editor.Post(ctx, lifecycle.ReplaceAll{Search: p.Search, Replace: p.Replace})
			if err != nil {
				return nil, fmt.Errorf("failed to replace: %w", err)
			}
			return map[string]any{"replaced": res.Replaced}, nil
		},
	}
}

func (r *Registry) toolCapitalize() ToolDef {
	return ToolDef{
		Name:        "tabpad_capitalize",
		Description: "Capitalizes the first letter of every sentence in the active document.",
		InputSchema: noParams,
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			if _, err := r.editor.Post(ctx, lifecycle.Capitalize{}); err != nil {
				return nil, err
			}
			return map[string]any{"status": "capitalized"}, nil
		},
	}
}

func (r *Registry) toolWordCount() ToolDef {
	return ToolDef{
		Name:        "tabpad_word_count",
		Description: "Counts the whitespace-separated words in the active document.",
		InputSchema: noParams,
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			res, err := r.editor.Post(ctx, lifecycle.CountWords{})
			if err != nil {
				return nil, err
			}
			return map[string]any{"words": res.Words}, nil
		},
	}
}

func (r *Registry) toolHighlight() ToolDef {
	return ToolDef{
		Name:        "tabpad_highlight",
		Description: "Renders the active document as syntax-highlighted HTML. The document text is not modified.",
		InputSchema: noParams,
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			res, err := r.editor.Post(ctx, lifecycle.Highlight{})
			if err != nil {
				return nil, fmt.Errorf("failed to highlight: %w", err)
			}
			return map[string]any{"markup": res.Markup}, nil
		},
	}
}

func (r *Registry) toolSaveAs() ToolDef {
	return ToolDef{
		Name:        "tabpad_save_as",
		Description: "Writes the active document to a path and retitles its tab to the file name. Omit path to save to the document's current path.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "Destination path. If empty, saves to the document's existing path."
				}
			}
		}`),
		Handler: func(ctx context.Context, params json.RawMessage) (any, error) {
			var p struct {
				Path string `json:"path"`
			}
			if err := decode(params, &p); err != nil {
				return nil, err
			}
			var intent lifecycle.Intent = lifecycle.Save{}
			path := ""
			if p.Path != "" {
				path = r.resolvePath(p.Path)
				intent = lifecycle.SaveAs{Path: path}
			}
			if _, err := r.editor.Post(ctx, intent); err != nil {
				return nil, fmt.Errorf("failed to save: %w", err)
			}
			return map[string]any{"path": path, "status": "saved"}, nil
		},
	}
}

func (r *Registry) toolSelectTab() ToolDef {
	return ToolDef{
		Name:        "tabpad_select_tab",
		Description: "Makes the document with the given ID the active tab.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {
					"type": "string",
					"description": "Document ID from tabpad_list_documents."
				}
			},
			"required": ["id"]
		}`),
		Handler: func(ctx context.Context, params json.RawMessage) (any, error) {
			var p struct {
				ID string `json:"id"`
			}
			if err := decode(params, &p); err != nil {
				return nil, err
			}
			if p.ID == "" {
				return nil, fmt.Errorf("id is required")
			}
			if _, err := r.editor.Post(ctx, lifecycle.SelectTab{ID: editor.ID(p.ID)}); err != nil {
				return nil, fmt.Errorf("failed to select tab: %w", err)
			}
			return map[string]any{"id": p.ID, "status": "selected"}, nil
		},
	}
}

func (r *Registry) toolRunCommand() ToolDef {
	return ToolDef{
		Name:        "tabpad_run_command",
		Description: "Executes a named editor command (e.g., 'file.save', 'edit.undo', 'view.highlight').",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"command": {
					"type": "string",
					"description": "The command ID to execute."
				}
			},
			"required": ["command"]
		}`),
		Handler: func(ctx context.Context, params json.RawMessage) (any, error) {
			var p struct {
				Command string `json:"command"`
			}
			if err := decode(params, &p); err != nil {
				return nil, err
			}
			if p.Command == "" {
				return nil, fmt.Errorf("command is required")
			}
			cmd, ok := commands.Lookup(p.Command)
			if !ok {
				return nil, fmt.Errorf("unknown command: %s", p.Command)
			}
			res, err := r.editor.Post(ctx, cmd.Intent())
			if err != nil {
				return nil, fmt.Errorf("failed to run command %q: %w", p.Command, err)
			}
			return map[string]any{
				"command": p.Command,
				"status":  "executed",
				"result":  res,
			}, nil
		},
	}
}

// --- Resource definitions ---

const documentURIPrefix = "tabpad://document/"

func (r *Registry) resourceDocument() ResourceDef {
	return ResourceDef{
		URI:         documentURIPrefix + "{id}",
		Name:        "Document Text",
		Description: "Returns the current text of an open document, including unsaved edits.",
		MimeType:    "text/plain",
		Handler: func(ctx context.Context, uri string) (string, error) {
			id := strings.TrimPrefix(uri, documentURIPrefix)
			if id == "" {
				return "", fmt.Errorf("document id is required in URI")
			}
			view, err := r.editor.Document(ctx, editor.ID(id))
			if err != nil {
				return "", fmt.Errorf("failed to read document: %w", err)
			}
			return view.Content, nil
		},
	}
}
