package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileBackend(t *testing.T) {
	path := writeConfig(t, "apiBaseURL: http://localhost:8000\ncredentialsPath: /tmp/creds.json\nlogLevel: debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base url: %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, "credentialsPath: /tmp/creds.json\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected missing apiBaseURL to fail")
	}
}

func TestLoadRedisBackendRequiresAddr(t *testing.T) {
	path := writeConfig(t, "apiBaseURL: http://localhost:8000\ncredentialsBackend: redis\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected missing redisAddr to fail")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "apiBaseURL: http://localhost:8000\ncredentialsBackend: vault\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "apiBaseURL: http://localhost:8000\ncredentialsPath: /tmp/creds.json\n")
	t.Setenv("SCREENER_API_BASE_URL", "http://api.example.com")
	t.Setenv("SCREENER_HTTP_TIMEOUT", "5s")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://api.example.com" {
		t.Fatalf("env override ignored: %q", cfg.APIBaseURL)
	}
	timeout, err := ParseHTTPTimeout(cfg.HTTPTimeout)
	if err != nil {
		t.Fatalf("parse timeout: %v", err)
	}
	if timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", timeout)
	}
}

func TestParseHTTPTimeoutDefault(t *testing.T) {
	timeout, err := ParseHTTPTimeout("")
	if err != nil {
		t.Fatalf("parse timeout: %v", err)
	}
	if timeout != 30*time.Second {
		t.Fatalf("unexpected default: %v", timeout)
	}
}
