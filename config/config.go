// Package config loads tabpad settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. TABPAD_STYLE.
const EnvPrefix = "TABPAD_"

// Config holds every tabpad setting.
type Config struct {
	Highlight HighlightConfig `yaml:"highlight"`
	Web       WebConfig       `yaml:"web"`
	MCP       MCPConfig       `yaml:"mcp"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`

	// ConfirmTimeout bounds how long an unanswered confirmation blocks the
	// editor before it counts as cancelled.
	ConfirmTimeout time.Duration `yaml:"confirm_timeout"`
}

// HighlightConfig controls the preview markup.
type HighlightConfig struct {
	Style       string `yaml:"style"`
	LineNumbers bool   `yaml:"line_numbers"`
	TabWidth    int    `yaml:"tab_width"`
	Markdown    bool   `yaml:"markdown"`
}

// WebConfig configures the browser host. An empty Addr runs headless.
type WebConfig struct {
	Addr string `yaml:"addr"`
	Root string `yaml:"root"`
}

// MCPConfig turns on the MCP tool server on stdio.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig sets commonlog verbosity and an optional log file.
type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

// StorageConfig covers file permissions, change watching and S3.
type StorageConfig struct {
	FileMode uint32   `yaml:"file_mode"`
	Watch    bool     `yaml:"watch"`
	S3       S3Config `yaml:"s3"`
}

// S3Config enables s3://bucket/key paths.
type S3Config struct {
	Enabled  bool   `yaml:"enabled"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Highlight: HighlightConfig{
			Style:    "monokai",
			TabWidth: 4,
			Markdown: true,
		},
		Web: WebConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Verbosity: 1,
		},
		Storage: StorageConfig{
			FileMode: 0644,
			Watch:    true,
		},
		ConfirmTimeout: 5 * time.Minute,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tabpad/config.yaml or its
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tabpad", "config.yaml")
}

// Load reads path over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	env := func(name string, apply func(v string) error) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		if err := apply(v); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		}
	}

	env("STYLE", func(v string) error { c.Highlight.Style = v; return nil })
	env("LINE_NUMBERS", func(v string) (err error) { c.Highlight.LineNumbers, err = cast.ToBoolE(v); return })
	env("TAB_WIDTH", func(v string) (err error) { c.Highlight.TabWidth, err = cast.ToIntE(v); return })
	env("MARKDOWN", func(v string) (err error) { c.Highlight.Markdown, err = cast.ToBoolE(v); return })
	env("WEB_ADDR", func(v string) error { c.Web.Addr = v; return nil })
	env("WEB_ROOT", func(v string) error { c.Web.Root = v; return nil })
	env("MCP", func(v string) (err error) { c.MCP.Enabled, err = cast.ToBoolE(v); return })
	env("LOG_VERBOSITY", func(v string) (err error) { c.Log.Verbosity, err = cast.ToIntE(v); return })
	env("LOG_FILE", func(v string) error { c.Log.File = v; return nil })
	env("FILE_MODE", func(v string) (err error) { c.Storage.FileMode, err = cast.ToUint32E(v); return })
	env("WATCH", func(v string) (err error) { c.Storage.Watch, err = cast.ToBoolE(v); return })
	env("S3", func(v string) (err error) { c.Storage.S3.Enabled, err = cast.ToBoolE(v); return })
	env("S3_REGION", func(v string) error { c.Storage.S3.Region = v; return nil })
	env("S3_ENDPOINT", func(v string) error { c.Storage.S3.Endpoint = v; return nil })
	env("CONFIRM_TIMEOUT", func(v string) (err error) { c.ConfirmTimeout, err = cast.ToDurationE(v); return })

	return errors.Join(errs...)
}

// FileMode returns the permission bits for newly written files.
func (c Config) FileMode() os.FileMode {
	if c.Storage.FileMode == 0 {
		return 0644
	}
	return os.FileMode(c.Storage.FileMode).Perm()
}
