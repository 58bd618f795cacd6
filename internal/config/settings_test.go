package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.URL != defaultServerURL {
		t.Fatalf("url = %q", cfg.Server.URL)
	}
	if cfg.Server.LoginURL != defaultServerURL+"/login" {
		t.Fatalf("login url = %q", cfg.Server.LoginURL)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[server]\nurl = \"https://example.com\"\ntoken = \"tok\"\n\n[logging]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.URL != "https://example.com" || cfg.Server.Token != "tok" {
		t.Fatalf("server config = %+v", cfg.Server)
	}
	if cfg.Server.LoginURL != "https://example.com/login" {
		t.Fatalf("login url = %q", cfg.Server.LoginURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nurl = \"https://file.example.com\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PARLEY_SERVER_URL", "https://env.example.com")
	t.Setenv("PARLEY_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.URL != "https://env.example.com" {
		t.Fatalf("url = %q", cfg.Server.URL)
	}
	if cfg.Server.Token != "env-token" {
		t.Fatalf("token = %q", cfg.Server.Token)
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nnope"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
