package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server  ServerSettings  `json:"server"`
	Model   ModelSettings   `json:"model"`
	Catalog CatalogSettings `json:"catalog"`
	Log     LogConfig       `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ModelSettings configures the OpenAI-compatible model endpoint.
type ModelSettings struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

type CatalogSettings struct {
	TMDBAPIKey string `json:"tmdbApiKey"`
}

// LogConfig controls optional file logging with rotation.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 3000},
		Model:  ModelSettings{Model: "gpt-4o-mini"},
		Log:    LogConfig{MaxSize: 10, MaxAge: 28, MaxBackups: 3},
	}
}

// Manager loads and persists the settings file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// Load reads the settings file from disk, creating it with defaults when
// missing, then applies environment overrides.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		applyEnvOverrides(&defaults)
		return defaults, nil
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	applyEnvOverrides(&s)
	return s, nil
}

// Save writes the settings file, creating parent directories as needed.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if dir := filepath.Dir(m.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// applyEnvOverrides lets deployments inject credentials and the port without
// editing the settings file. Environment always wins over the file.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		s.Model.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		s.Model.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		s.Model.Model = v
	}
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		s.Catalog.TMDBAPIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			s.Server.Port = port
		}
	}
}
