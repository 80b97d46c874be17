package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/odvcencio/tabpad/config"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	webAddr := flag.String("web", "", "web UI address (e.g. 127.0.0.1:8080); overrides the config, \"off\" runs headless")
	mcp := flag.Bool("mcp", false, "serve MCP tools over stdio")
	style := flag.String("style", "", "chroma style for the highlight preview")
	verbose := flag.Int("v", -1, "log verbosity (0 = errors only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabpad: %v\n", err)
		os.Exit(1)
	}
	switch *webAddr {
	case "":
	case "off":
		cfg.Web.Addr = ""
	default:
		cfg.Web.Addr = *webAddr
	}
	if *mcp {
		cfg.MCP.Enabled = true
	}
	if *style != "" {
		cfg.Highlight.Style = *style
	}
	if *verbose >= 0 {
		cfg.Log.Verbosity = *verbose
	}

	if cfg.Log.File != "" {
		commonlog.Configure(cfg.Log.Verbosity, &cfg.Log.File)
	} else {
		commonlog.Configure(cfg.Log.Verbosity, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabpad: %v\n", err)
		os.Exit(1)
	}
	if err := app.run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "tabpad: %v\n", err)
		os.Exit(1)
	}
}
