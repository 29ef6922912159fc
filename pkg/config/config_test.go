package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected base url %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout.Duration != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout.Duration)
	}
	if cfg.Endpoints != DefaultEndpoints() {
		t.Errorf("unexpected endpoints: %+v", cfg.Endpoints)
	}
}

func TestLoadConfigFillsMissingValues(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
base_url = "https://letters.example.org"
timeout = "5s"
requests_per_second = 2.5

[endpoints]
search = "/letter_search/"
places = "/search_places/"

[cookies]
sessionid = "abc"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Timeout.Duration != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Timeout.Duration)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Errorf("expected 2.5 rps, got %v", cfg.RequestsPerSecond)
	}
	if cfg.Endpoints.Search != "/letter_search/" || cfg.Endpoints.Places != "/search_places/" {
		t.Errorf("endpoint overrides lost: %+v", cfg.Endpoints)
	}
	if cfg.Endpoints.Stats != "/get_stats/" {
		t.Errorf("expected default stats endpoint, got %q", cfg.Endpoints.Stats)
	}
	if cfg.Pages.Letters != "/letters/" {
		t.Errorf("expected default letters page, got %q", cfg.Pages.Letters)
	}
	if cfg.Cookies["sessionid"] != "abc" {
		t.Errorf("expected sessionid cookie, got %v", cfg.Cookies)
	}
	if cfg.StateDir == "" {
		t.Error("expected default state dir")
	}
}

func TestLoadConfigRejectsBadBaseURL(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
	}{
		{"no scheme", `base_url = "letters.example.org"`},
		{"ftp scheme", `base_url = "ftp://letters.example.org"`},
		{"negative rate", "base_url = \"http://x\"\nrequests_per_second = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSaveTemplateConfigRoundTrip(t *testing.T) {
	stateDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := &Config{StateDir: stateDir}
	if err := cfg.SaveTemplateConfig(path); err != nil {
		t.Fatalf("SaveTemplateConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.StateDir != stateDir {
		t.Errorf("expected state dir %q, got %q", stateDir, loaded.StateDir)
	}
	if loaded.HistoryDBPath() != filepath.Join(stateDir, "history.db") {
		t.Errorf("unexpected history path %q", loaded.HistoryDBPath())
	}
}
