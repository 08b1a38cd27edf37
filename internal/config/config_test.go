// Package config tests validate config loading behavior.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadAppliesDefaults confirms defaults are applied on load.
func TestLoadAppliesDefaults(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "backpackpi.yaml")
	body := "auth:\n  session_secret: s3cret\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Port != 3000 {
		t.Fatalf("expected default http.port 3000, got %d", c.HTTP.Port)
	}
	if c.HTTP.Bind != "0.0.0.0" {
		t.Fatalf("expected default http.bind, got %q", c.HTTP.Bind)
	}
	if c.Log.Level != "info" {
		t.Fatalf("expected default log.level, got %q", c.Log.Level)
	}
	if c.Auth.SudoUser != "pi" {
		t.Fatalf("expected default sudo_user, got %q", c.Auth.SudoUser)
	}
	if c.DB.Path == "" || c.Files.Root == "" {
		t.Fatalf("expected path defaults, got %q %q", c.DB.Path, c.Files.Root)
	}
}

// TestLoadWithoutFile loads from environment alone.
func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("BACKPACKPI_SESSION_SECRET", "envsecret")
	t.Setenv("BACKPACKPI_FILE_ROOT", "/srv/files")
	t.Setenv("BACKPACKPI_PORT", "8088")
	t.Setenv("BACKPACKPI_DEV_AUTH", "true")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Auth.SessionSecret != "envsecret" {
		t.Fatalf("session secret not taken from env")
	}
	if c.Files.Root != "/srv/files" {
		t.Fatalf("file root not taken from env: %q", c.Files.Root)
	}
	if c.HTTP.Port != 8088 {
		t.Fatalf("port not taken from env: %d", c.HTTP.Port)
	}
	if !c.Auth.DevFallback.Enabled {
		t.Fatalf("dev fallback should be enabled")
	}
}

// TestEnvOverridesFile prefers environment values over file values.
func TestEnvOverridesFile(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "backpackpi.yaml")
	body := "auth:\n  session_secret: filesecret\nhttp:\n  port: 4000\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BACKPACKPI_SESSION_SECRET", "envsecret")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Auth.SessionSecret != "envsecret" {
		t.Fatalf("env should win: %q", c.Auth.SessionSecret)
	}
	if c.HTTP.Port != 4000 {
		t.Fatalf("file port should survive: %d", c.HTTP.Port)
	}
}

// TestLoadRequiresSecret rejects configs without a session secret.
func TestLoadRequiresSecret(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for missing session secret")
	}
}

// TestLoadRejectsBadPort rejects out-of-range ports.
func TestLoadRejectsBadPort(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "backpackpi.yaml")
	body := "auth:\n  session_secret: s\nhttp:\n  port: 70000\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for invalid port")
	}
}
