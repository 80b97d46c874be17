package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/odvcencio/tabpad/config"
	"github.com/odvcencio/tabpad/editor"
	"github.com/odvcencio/tabpad/highlight"
	"github.com/odvcencio/tabpad/lifecycle"
	"github.com/odvcencio/tabpad/mcptools"
	"github.com/odvcencio/tabpad/session"
	"github.com/odvcencio/tabpad/storage"
	"github.com/odvcencio/tabpad/web"
)

var log = commonlog.GetLogger("tabpad")

// tabpadApp wires the registry, controller and hosts together.
type tabpadApp struct {
	cfg       config.Config
	root      string
	highlight *highlight.Service
	watcher   *storage.Watcher // nil when watching is off
	web       *web.Server      // nil when headless
	host      lifecycle.Host
	ctrl      *lifecycle.Controller
	loop      *session.Loop
}

func newApp(cfg config.Config, args []string) (*tabpadApp, error) {
	a := &tabpadApp{cfg: cfg, root: projectRoot(cfg.Web.Root, args)}

	router := &storage.Router{Local: &storage.FileStore{Perm: cfg.FileMode()}}
	if cfg.Storage.S3.Enabled {
		s3, err := storage.NewS3Store(storage.S3Options{
			Region:   cfg.Storage.S3.Region,
			Endpoint: cfg.Storage.S3.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		router.Object = s3
	}

	a.highlight = highlight.New(highlight.Options{
		Style:       cfg.Highlight.Style,
		LineNumbers: cfg.Highlight.LineNumbers,
		TabWidth:    cfg.Highlight.TabWidth,
		Markdown:    cfg.Highlight.Markdown,
	})

	opts := lifecycle.Options{
		Store:          router,
		Highlighter:    a.highlight,
		ConfirmTimeout: cfg.ConfirmTimeout,
	}
	if cfg.Storage.Watch {
		w, err := storage.NewWatcher()
		if err != nil {
			log.Warningf("file watching disabled: %v", err)
		} else {
			a.watcher = w
			opts.Watcher = w
		}
	}

	if cfg.Web.Addr != "" {
		a.web = web.NewServer(a.root, a.highlight.Language)
		a.host = a.web
	} else {
		a.host = logHost{}
	}

	a.ctrl = lifecycle.New(editor.NewRegistry(), a.host, opts)
	a.loop = session.NewLoop(a.ctrl)
	if a.web != nil {
		a.web.Attach(a.loop)
	}
	return a, nil
}

// run serves every configured surface until the user quits or ctx is done.
func (a *tabpadApp) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() { loopErr <- a.loop.Run(ctx) }()

	if _, err := a.loop.Post(ctx, lifecycle.Refresh{}); err != nil {
		return err
	}
	for _, path := range args {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			continue
		}
		if _, err := a.loop.Post(ctx, lifecycle.OpenDocument{Path: path}); err != nil {
			log.Warningf("open %s: %v", path, err)
		}
	}

	if a.watcher != nil {
		defer a.watcher.Close()
		go a.watcher.Run(ctx, func(path string) {
			if _, err := a.loop.Post(ctx, lifecycle.FileChanged{Path: path}); err != nil && !errors.Is(err, session.ErrStopped) {
				log.Debugf("file change %s: %v", path, err)
			}
		})
	}

	if a.web != nil {
		server := &http.Server{Addr: a.cfg.Web.Addr, Handler: a.web}
		go func() {
			log.Noticef("web UI: http://localhost%s", a.cfg.Web.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("web server: %v", err)
				cancel()
			}
		}()
		defer func() {
			a.web.Shutdown()
			server.Close()
		}()
	}

	if a.cfg.MCP.Enabled {
		access := &mcptools.LoopAccess{Loop: a.loop, Controller: a.ctrl, Root: a.root}
		srv := mcptools.NewServer(mcptools.NewRegistry(access), version)
		go func() {
			if err := mcptools.ServeStdio(ctx, srv, os.Stdin, os.Stdout); err != nil {
				log.Errorf("mcp: %v", err)
			}
		}()
	}

	err := <-loopErr
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// projectRoot picks the directory served to file lists and used to resolve
// relative tool paths: the configured root, else the first directory
// argument, else the directory of the first file argument, else the working
// directory.
func projectRoot(configured string, args []string) string {
	if configured != "" {
		if abs, err := filepath.Abs(configured); err == nil {
			return abs
		}
		return configured
	}
	for _, p := range args {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return abs
		}
		return filepath.Dir(abs)
	}
	root, _ := os.Getwd()
	return root
}

// logHost is the host used when no UI is attached. It cannot ask questions,
// so every confirmation is cancelled and unsaved work is kept.
type logHost struct{}

func (logHost) Confirm(_ context.Context, message string) lifecycle.Choice {
	log.Noticef("no UI to confirm %q; cancelling", message)
	return lifecycle.Cancel
}

func (logHost) Tabs(tabs []lifecycle.Tab) {
	log.Debugf("%d tabs", len(tabs))
}

func (logHost) Render(view lifecycle.View) {
	log.Debugf("showing %s (%d words)", view.Title, view.Words)
}

func (logHost) Preview(id editor.ID, markup string) {
	log.Debugf("preview for %s: %d bytes", id, len(markup))
}

func (logHost) Notify(n lifecycle.Notice) {
	if n.Level == lifecycle.LevelError {
		log.Error(n.Message)
		return
	}
	log.Info(n.Message)
}
