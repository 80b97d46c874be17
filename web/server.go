// Package web is a widget host served to the browser over a websocket. The
// page draws the tabs, the editable text and the preview; every user action
// comes back as a JSON-RPC call that becomes a lifecycle intent.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"

	"github.com/odvcencio/tabpad/commands"
	"github.com/odvcencio/tabpad/editor"
	"github.com/odvcencio/tabpad/lifecycle"
	"github.com/odvcencio/tabpad/storage"
)

//go:embed static/*
var staticFS embed.FS

var log = commonlog.GetLogger("tabpad.web")

// Poster delivers intents to the editor's event loop.
type Poster interface {
	Post(ctx context.Context, intent lifecycle.Intent) (lifecycle.Result, error)
}

// LanguageFunc names the grammar used for a path, for the client's display.
type LanguageFunc func(path string) string

// Server provides the web frontend HTTP + WebSocket server and implements
// lifecycle.Host for it.
type Server struct {
	poster   Poster
	root     string
	language LanguageFunc
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients []*wsClient
	tabs    []lifecycle.Tab // last tab bar, replayed to new clients
	view    *lifecycle.View // last render, replayed to new clients

	pendingMu sync.Mutex
	pending   map[string]chan lifecycle.Choice
	seq       atomic.Uint64
}

type wsClient struct {
	conn     *websocket.Conn
	mu       sync.Mutex
	requests chan rpcMessage
}

func (c *wsClient) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// rpcMessage is anything a client sends: a request (Method set) or the
// answer to a confirmation (ID and Result set).
type rpcMessage struct {
	ID     any             `json:"id"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeCancelled      = 1
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
	codeIO             = -32000
)

// NewServer creates a web server. Attach must be called before serving.
func NewServer(root string, language LanguageFunc) *Server {
	return &Server{
		root:     root,
		language: language,
		upgrader: websocket.Upgrader{
			CheckOrigin: sameOrigin,
		},
		pending: make(map[string]chan lifecycle.Choice),
	}
}

// Attach connects the server to the event loop.
func (s *Server) Attach(p Poster) {
	s.poster = p
}

// sameOrigin accepts upgrades from pages served by this server and from
// non-browser clients, which send no Origin.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/ws" {
		s.handleWebSocket(w, r)
		return
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		http.Error(w, "static files unavailable", http.StatusInternalServerError)
		return
	}
	http.FileServer(http.FS(sub)).ServeHTTP(w, r)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warningf("websocket upgrade: %v", err)
		return
	}
	client := &wsClient{conn: conn, requests: make(chan rpcMessage, 64)}
	s.mu.Lock()
	s.clients = append(s.clients, client)
	tabs, view := s.tabs, s.view
	s.mu.Unlock()
	log.Infof("client connected from %s", r.RemoteAddr)

	if tabs != nil {
		_ = client.write(notification("tabs", tabs))
	}
	if view != nil {
		_ = client.write(notification("render", view))
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		conn.Close()
		s.mu.Lock()
		for i, c := range s.clients {
			if c == client {
				s.clients = append(s.clients[:i], s.clients[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		log.Infof("client %s disconnected", r.RemoteAddr)
	}()

	// Requests run in order on their own goroutine so that this reader can
	// keep receiving confirmation answers while a request waits for one.
	go func() {
		for req := range client.requests {
			resp := s.handleRPC(ctx, req)
			if err := client.write(resp); err != nil {
				log.Debugf("write response: %v", err)
			}
		}
	}()
	defer close(client.requests)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var m rpcMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			continue
		}
		if m.Method == "" {
			s.answer(m)
			continue
		}
		select {
		case client.requests <- m:
		case <-ctx.Done():
			return
		}
	}
}

// answer delivers a client's reply to an outstanding confirmation.
func (s *Server) answer(m rpcMessage) {
	id, ok := m.ID.(string)
	if !ok {
		return
	}
	var choice string
	if err := json.Unmarshal(m.Result, &choice); err != nil {
		var obj struct {
			Choice string `json:"choice"`
		}
		if err := json.Unmarshal(m.Result, &obj); err != nil {
			return
		}
		choice = obj.Choice
	}
	s.pendingMu.Lock()
	ch, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.pendingMu.Unlock()
	if ok {
		ch <- lifecycle.ParseChoice(choice)
	}
}

func (s *Server) handleRPC(ctx context.Context, req rpcMessage) rpcResponse {
	switch req.Method {
	case "listFiles":
		return rpcResponse{ID: req.ID, Result: map[string]any{"files": storage.ListFiles(s.root)}}
	case "listCommands":
		return rpcResponse{ID: req.ID, Result: map[string]any{"commands": commands.All()}}
	case "listDocuments":
		s.mu.Lock()
		tabs := s.tabs
		s.mu.Unlock()
		return rpcResponse{ID: req.ID, Result: map[string]any{"documents": tabs}}
	case "getLanguage":
		var p struct {
			Path string `json:"path"`
		}
		if err := unmarshalParams(req.Params, &p); err != nil {
			return invalidParams(req, err)
		}
		lang := ""
		if s.language != nil {
			lang = s.language(p.Path)
		}
		return rpcResponse{ID: req.ID, Result: map[string]string{"language": lang}}
	}

	intent, err := intentFor(req)
	if err != nil {
		var rerr *rpcError
		if errors.As(err, &rerr) {
			return rpcResponse{ID: req.ID, Error: rerr}
		}
		return invalidParams(req, err)
	}
	if s.poster == nil {
		return rpcResponse{ID: req.ID, Error: &rpcError{Code: codeInternal, Message: "editor not attached"}}
	}
	res, err := s.poster.Post(ctx, intent)
	if err != nil {
		return rpcResponse{ID: req.ID, Error: errorFor(err)}
	}
	return rpcResponse{ID: req.ID, Result: res}
}

// intentFor maps a request to the intent it names.
func intentFor(req rpcMessage) (lifecycle.Intent, error) {
	var p struct {
		ID      string `json:"id"`
		Path    string `json:"path"`
		Content string `json:"content"`
		Search  string `json:"search"`
		Replace string `json:"replace"`
	}
	if err := unmarshalParams(req.Params, &p); err != nil {
		return nil, err
	}
	switch req.Method {
	case "newDocument":
		return lifecycle.NewDocument{}, nil
	case "openDocument":
		return lifecycle.OpenDocument{Path: p.Path}, nil
	case "closeActive":
		return lifecycle.CloseActive{}, nil
	case "closeDocument":
		return lifecycle.CloseDocument{ID: editor.ID(p.ID)}, nil
	case "selectTab":
		return lifecycle.SelectTab{ID: editor.ID(p.ID)}, nil
	case "keyEdited":
		return lifecycle.KeyEdited{Content: p.Content}, nil
	case "save":
		return lifecycle.Save{}, nil
	case "saveAs":
		return lifecycle.SaveAs{Path: p.Path}, nil
	case "replaceAll":
		return lifecycle.ReplaceAll{Search: p.Search, Replace: p.Replace}, nil
	case "capitalize":
		return lifecycle.Capitalize{}, nil
	case "highlight":
		return lifecycle.Highlight{}, nil
	case "countWords":
		return lifecycle.CountWords{}, nil
	case "undo":
		return lifecycle.Undo{}, nil
	case "redo":
		return lifecycle.Redo{}, nil
	case "quit":
		return lifecycle.Quit{}, nil
	case "refresh":
		return lifecycle.Refresh{}, nil
	case "runCommand":
		cmd, ok := commands.Lookup(p.ID)
		if !ok {
			return nil, &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown command: %s", p.ID)}
		}
		return cmd.Intent(), nil
	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (e *rpcError) Error() string {
	return e.Message
}

func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func invalidParams(req rpcMessage, err error) rpcResponse {
	return rpcResponse{ID: req.ID, Error: &rpcError{Code: codeInvalidParams, Message: err.Error()}}
}

func errorFor(err error) *rpcError {
	var ioErr *editor.IOError
	switch {
	case errors.Is(err, editor.ErrCancelled):
		return &rpcError{Code: codeCancelled, Message: err.Error()}
	case errors.As(err, &ioErr):
		return &rpcError{Code: codeIO, Message: err.Error()}
	default:
		return &rpcError{Code: codeInternal, Message: err.Error()}
	}
}

func notification(method string, params any) map[string]any {
	return map[string]any{"method": method, "params": params}
}

// Broadcast sends a notification to all connected WebSocket clients.
func (s *Server) Broadcast(method string, params any) {
	msg := notification(method, params)
	s.mu.Lock()
	clients := append([]*wsClient(nil), s.clients...)
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.write(msg); err != nil {
			log.Debugf("broadcast %s: %v", method, err)
		}
	}
}

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Confirm asks every connected client; the first answer wins. With no
// client connected the answer is Cancel.
func (s *Server) Confirm(ctx context.Context, message string) lifecycle.Choice {
	if s.clientCount() == 0 {
		return lifecycle.Cancel
	}
	id := "confirm-" + strconv.FormatUint(s.seq.Add(1), 10)
	ch := make(chan lifecycle.Choice, 1)
	s.pendingMu.Lock()
	s.pending[id] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, id)
		s.pendingMu.Unlock()
	}()

	req := map[string]any{
		"id":     id,
		"method": "confirm",
		"params": map[string]string{"message": message},
	}
	s.mu.Lock()
	clients := append([]*wsClient(nil), s.clients...)
	s.mu.Unlock()
	for _, c := range clients {
		_ = c.write(req)
	}

	select {
	case choice := <-ch:
		return choice
	case <-ctx.Done():
		log.Infof("confirmation %s unanswered: %v", id, ctx.Err())
		return lifecycle.Cancel
	}
}

// Tabs records and broadcasts the tab bar.
func (s *Server) Tabs(tabs []lifecycle.Tab) {
	s.mu.Lock()
	s.tabs = tabs
	s.mu.Unlock()
	s.Broadcast("tabs", tabs)
}

// Render records and broadcasts the active document.
func (s *Server) Render(view lifecycle.View) {
	s.mu.Lock()
	s.view = &view
	s.mu.Unlock()
	s.Broadcast("render", view)
}

// Preview broadcasts read-only markup for a document.
func (s *Server) Preview(id editor.ID, markup string) {
	s.Broadcast("preview", map[string]any{"id": id, "markup": markup})
}

// Notify broadcasts a user-visible notice.
func (s *Server) Notify(n lifecycle.Notice) {
	s.Broadcast("notice", n)
}

// Shutdown tells clients the editor has exited and closes their
// connections.
func (s *Server) Shutdown() {
	s.Broadcast("exit", nil)
	s.mu.Lock()
	clients := append([]*wsClient(nil), s.clients...)
	s.mu.Unlock()
	for _, c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		c.mu.Unlock()
		c.conn.Close()
	}
}
