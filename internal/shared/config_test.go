package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://api.spotify.com/v1/" {
			t.Errorf("expected default base URL, got %s", config.API.BaseURL)
		}

		if config.API.PageSize != 8 {
			t.Errorf("expected page size 8, got %d", config.API.PageSize)
		}

		if config.API.User != "1176897543" {
			t.Errorf("expected default user 1176897543, got %s", config.API.User)
		}

		if !config.Output.Chart || !config.Output.CSV {
			t.Error("expected chart and csv output enabled by default")
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Output.Dir != DefaultConfig().Output.Dir {
			t.Errorf("created config output dir doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
page_size = 20
user = "someone"

[output]
dir = "/tmp/profiles"
chart = false
database = "export.db"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.PageSize != 20 {
			t.Errorf("expected page size 20, got %d", config.API.PageSize)
		}
		if config.API.User != "someone" {
			t.Errorf("expected user someone, got %s", config.API.User)
		}
		if config.API.TokenURL != DefaultConfig().API.TokenURL {
			t.Errorf("expected token URL to keep its default, got %s", config.API.TokenURL)
		}
		if config.Output.Chart {
			t.Error("expected chart output disabled")
		}
		if config.Output.Database != "export.db" {
			t.Errorf("expected database export.db, got %s", config.Output.Database)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("LoadConfig rejects invalid page size", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api]\npage_size = 500\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
