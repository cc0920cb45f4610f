package config

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", home)
	return home
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("writerctl", pflag.ContinueOnError)
	Flags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	home := withHome(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" || cfg.Session.Backend != BackendFile {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if want := filepath.Join(home, ".writerhub", "session.json"); cfg.Session.Path != want {
		t.Fatalf("expected session path %s, got %s", want, cfg.Session.Path)
	}
	if cfg.Redis.Key != "writerhub:session" {
		t.Fatalf("unexpected redis key %q", cfg.Redis.Key)
	}
}

func TestLoad_Precedence(t *testing.T) {
	home := withHome(t)
	dir := filepath.Join(home, ".writerhub")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	yaml := "server_url: http://from-file\nsession:\n  backend: redis\n  path: ~/custom.json\nredis:\n  addr: cache:6379\n  db: 2\n"
	if err := os.WriteFile(filepath.Join(dir, "writerctl.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WRITERCTL_SERVER_URL", "http://from-env")

	cfg, err := Load(newFlags(t, "--session-backend=file"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://from-env" {
		t.Fatalf("env must override file, got %s", cfg.ServerURL)
	}
	if cfg.Session.Backend != BackendFile {
		t.Fatalf("flag must override file, got %s", cfg.Session.Backend)
	}
	if cfg.Session.Path != filepath.Join(home, "custom.json") {
		t.Fatalf("expected ~ expansion, got %s", cfg.Session.Path)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Fatalf("file values not applied: %+v", cfg.Redis)
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	withHome(t)
	if _, err := Load(newFlags(t, "--config=/nonexistent/writerctl.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	withHome(t)
	if _, err := Load(newFlags(t, "--session-backend=bolt")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
