package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnvOverrides keeps ambient environment variables from leaking into
// assertions about file-backed values.
func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "TMDB_API_KEY", "PORT"} {
		t.Setenv(key, "")
	}
}

func TestLoadCreatesDefaults(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "cache", "settings.json")
	m := NewManager(path)

	settings, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Server.Port != 3000 {
		t.Errorf("Port = %d, want 3000", settings.Server.Port)
	}
	if settings.Model.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", settings.Model.Model)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("settings file was not created: %v", err)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "settings.json")
	m := NewManager(path)

	want := DefaultSettings()
	want.Server.Port = 8080
	want.Model.APIKey = "file-key"
	want.Catalog.TMDBAPIKey = "tmdb-key"
	if err := m.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Server.Port != 8080 || got.Model.APIKey != "file-key" || got.Catalog.TMDBAPIKey != "tmdb-key" {
		t.Errorf("Load() = %+v, want the saved settings back", got)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_BASE_URL", "https://gateway.test/v1")
	t.Setenv("OPENAI_MODEL", "o3")
	t.Setenv("TMDB_API_KEY", "env-tmdb")
	t.Setenv("PORT", "9090")

	m := NewManager(filepath.Join(t.TempDir(), "settings.json"))
	settings, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Model.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", settings.Model.APIKey)
	}
	if settings.Model.BaseURL != "https://gateway.test/v1" {
		t.Errorf("BaseURL = %q", settings.Model.BaseURL)
	}
	if settings.Model.Model != "o3" {
		t.Errorf("Model = %q, want o3", settings.Model.Model)
	}
	if settings.Catalog.TMDBAPIKey != "env-tmdb" {
		t.Errorf("TMDBAPIKey = %q, want env-tmdb", settings.Catalog.TMDBAPIKey)
	}
	if settings.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", settings.Server.Port)
	}
}

func TestInvalidPortEnvIgnored(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("PORT", "not-a-port")

	m := NewManager(filepath.Join(t.TempDir(), "settings.json"))
	settings, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Server.Port != 3000 {
		t.Errorf("Port = %d, want the default when PORT is malformed", settings.Server.Port)
	}
}

func TestLoadWithoutPathFails(t *testing.T) {
	if _, err := NewManager("").Load(); err == nil {
		t.Error("Load() error = nil, want failure without a config path")
	}
}
