package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISTILY_CONFIG_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "local" {
		t.Fatalf("backend = %q, want local", cfg.Backend)
	}
	if cfg.DataDir != dir {
		t.Fatalf("data_dir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.Web.Addr != "127.0.0.1:8484" {
		t.Fatalf("web.addr = %q", cfg.Web.Addr)
	}
}

func TestLoadReadsFileAndEnvWins(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISTILY_CONFIG_DIR", dir)

	yaml := "backend: remote\nremote:\n  endpoint: ws://file-host:8000/rpc\n  username: file-user\nai:\n  model: gpt-4o\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LISTILY_REMOTE_ENDPOINT", "ws://env-host:8000/rpc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "remote" {
		t.Fatalf("backend = %q, want remote", cfg.Backend)
	}
	if cfg.Remote.Endpoint != "ws://env-host:8000/rpc" {
		t.Fatalf("endpoint = %q, env should win over file", cfg.Remote.Endpoint)
	}
	if cfg.Remote.Username != "file-user" {
		t.Fatalf("username = %q", cfg.Remote.Username)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Fatalf("ai.model = %q", cfg.AI.Model)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISTILY_CONFIG_DIR", dir)
	t.Setenv("LISTILY_BACKEND", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadRemoteNeedsEndpoint(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISTILY_CONFIG_DIR", dir)
	t.Setenv("LISTILY_BACKEND", "remote")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when remote.endpoint is unset")
	}
}
