package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// It is passed explicitly to the API client and the presentation layer at construction.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	API         APIConfig         `toml:"api"`
	Output      OutputConfig      `toml:"output"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	SecretsFile  string `toml:"secrets_file"`
}

// APIConfig contains Web API endpoints and request settings.
type APIConfig struct {
	BaseURL   string  `toml:"base_url"`
	TokenURL  string  `toml:"token_url"`
	RateLimit float64 `toml:"rate_limit"`
	PageSize  int     `toml:"page_size"`
	User      string  `toml:"user"`
}

// OutputConfig controls which export files a run produces.
type OutputConfig struct {
	Dir      string `toml:"dir"`
	Chart    bool   `toml:"chart"`
	CSV      bool   `toml:"csv"`
	Database string `toml:"database"`
}

// DatabaseConfig contains database connection settings for the SQLite export.
type DatabaseConfig struct {
	MaxOpenConns int `toml:"max_open_conns"`
	MaxIdleConns int `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks the request settings.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" || c.API.TokenURL == "" {
		return fmt.Errorf("%w: api.base_url and api.token_url are required", ErrInvalidConfig)
	}
	if c.API.PageSize <= 0 || c.API.PageSize > 50 {
		return fmt.Errorf("%w: api.page_size must be within 1..50, got %d", ErrInvalidConfig, c.API.PageSize)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
