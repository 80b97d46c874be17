package config

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	for _, k := range []string{"STYLE", "WEB_ADDR", "CONFIRM_TIMEOUT"} {
		t.Setenv(EnvPrefix+k, "")
		os.Unsetenv(EnvPrefix + k)
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Highlight.Style != def.Highlight.Style || cfg.Web.Addr != def.Web.Addr || cfg.ConfirmTimeout != def.ConfirmTimeout {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestDefaultWebAddrIsLoopback(t *testing.T) {
	host, _, err := net.SplitHostPort(Default().Web.Addr)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		t.Errorf("default web addr %q is not loopback", Default().Web.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
highlight:
  style: github
  line_numbers: true
web:
  addr: "127.0.0.1:9000"
storage:
  file_mode: 0o600
  s3:
    enabled: true
    region: eu-west-1
confirm_timeout: 30s
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Highlight.Style != "github" || !cfg.Highlight.LineNumbers {
		t.Errorf("highlight = %+v", cfg.Highlight)
	}
	if cfg.Highlight.TabWidth != 4 {
		t.Errorf("unset fields should keep defaults, tab width = %d", cfg.Highlight.TabWidth)
	}
	if cfg.Web.Addr != "127.0.0.1:9000" {
		t.Errorf("web addr = %q", cfg.Web.Addr)
	}
	if cfg.FileMode() != 0600 {
		t.Errorf("file mode = %o, want 600", cfg.FileMode())
	}
	if !cfg.Storage.S3.Enabled || cfg.Storage.S3.Region != "eu-west-1" {
		t.Errorf("s3 = %+v", cfg.Storage.S3)
	}
	if cfg.ConfirmTimeout != 30*time.Second {
		t.Errorf("confirm timeout = %v", cfg.ConfirmTimeout)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("highlight: [unclosed"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TABPAD_STYLE":           "dracula",
		"TABPAD_LINE_NUMBERS":    "true",
		"TABPAD_TAB_WIDTH":       "8",
		"TABPAD_MCP":             "1",
		"TABPAD_LOG_VERBOSITY":   "2",
		"TABPAD_FILE_MODE":       "0600",
		"TABPAD_CONFIRM_TIMEOUT": "10s",
	}
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Highlight.Style != "dracula" || !cfg.Highlight.LineNumbers || cfg.Highlight.TabWidth != 8 {
		t.Errorf("highlight = %+v", cfg.Highlight)
	}
	if !cfg.MCP.Enabled || cfg.Log.Verbosity != 2 {
		t.Errorf("mcp = %+v, log = %+v", cfg.MCP, cfg.Log)
	}
	if cfg.FileMode() != 0600 {
		t.Errorf("file mode = %o, want 600", cfg.FileMode())
	}
	if cfg.ConfirmTimeout != 10*time.Second {
		t.Errorf("confirm timeout = %v", cfg.ConfirmTimeout)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "TABPAD_TAB_WIDTH" {
			return "wide", true
		}
		return "", false
	})
	if err == nil {
		t.Error("applyEnv should reject a non-numeric tab width")
	}
}

func TestApplyEnvNone(t *testing.T) {
	cfg := Default()
	if err := cfg.applyEnv(noEnv); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg != Default() {
		t.Error("no environment should leave the defaults")
	}
}
