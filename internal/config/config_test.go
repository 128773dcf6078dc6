package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ksctl.Path != "ksctl" {
		t.Errorf("Ksctl.Path = %q, want %q", cfg.Ksctl.Path, "ksctl")
	}
	if cfg.Ksctl.Timeout != 60*time.Second {
		t.Errorf("Ksctl.Timeout = %v, want %v", cfg.Ksctl.Timeout, 60*time.Second)
	}
	if cfg.Audit.Backend != "bolt" {
		t.Errorf("Audit.Backend = %q, want %q", cfg.Audit.Backend, "bolt")
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = true, want false by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CIPHERTRUST_URL", "https://cm.example.com")
	t.Setenv("CIPHERTRUST_DOMAIN", "root")
	t.Setenv("KSCTL_TIMEOUT", "90s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CipherTrust.URL != "https://cm.example.com" {
		t.Errorf("CipherTrust.URL = %q", cfg.CipherTrust.URL)
	}
	if cfg.CipherTrust.Domain != "root" {
		t.Errorf("CipherTrust.Domain = %q", cfg.CipherTrust.Domain)
	}
	if cfg.Ksctl.Timeout != 90*time.Second {
		t.Errorf("Ksctl.Timeout = %v, want 90s", cfg.Ksctl.Timeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "ciphertrust:\n  url: https://cm.internal\n  user: admin\nksctl:\n  path: /usr/local/bin/ksctl\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	if cfg.CipherTrust.URL != "https://cm.internal" {
		t.Errorf("CipherTrust.URL = %q", cfg.CipherTrust.URL)
	}
	if cfg.Ksctl.Path != "/usr/local/bin/ksctl" {
		t.Errorf("Ksctl.Path = %q", cfg.Ksctl.Path)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing explicit config file should fail")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Ksctl: KsctlConfig{Path: "ksctl", Timeout: time.Minute},
			Audit: AuditConfig{Backend: "bolt"},
			Log:   LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing ksctl path",
			mutate:  func(c *Config) { c.Ksctl.Path = "" },
			wantErr: "ksctl path",
		},
		{
			name:    "bad audit backend",
			mutate:  func(c *Config) { c.Audit.Backend = "sqlite" },
			wantErr: "audit backend",
		},
		{
			name:    "postgres without URL",
			mutate:  func(c *Config) { c.Audit.Backend = "postgres" },
			wantErr: "database URL",
		},
		{
			name: "rate limit without redis",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Requests = 10
			},
			wantErr: "redis URL",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
