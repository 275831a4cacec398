package shared

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvClientID     = "SPOTIFY_ID"
	EnvClientSecret = "SPOTIFY_SECRET"

	placeholderPrefix = "your_spotify_"
)

// DotEnvPath is the file consulted for [EnvClientID] and [EnvClientSecret] when they are not exported.
var DotEnvPath = ".env"

// ResolveCredentials returns the client identifier/secret pair used for the client credentials token exchange.
//
// Sources, first match wins: config values, the configured secrets file, the process environment, then [DotEnvPath].
func ResolveCredentials(cfg *Config) (string, string, error) {
	sp := cfg.Credentials.Spotify
	if usable(sp.ClientID) && usable(sp.ClientSecret) {
		return sp.ClientID, sp.ClientSecret, nil
	}

	if sp.SecretsFile != "" {
		id, secret, err := ReadSecretsFile(sp.SecretsFile)
		if err != nil {
			return "", "", err
		}
		return id, secret, nil
	}

	id, secret := os.Getenv(EnvClientID), os.Getenv(EnvClientSecret)
	if id != "" && secret != "" {
		return id, secret, nil
	}

	env, err := godotenv.Read(DotEnvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", "", fmt.Errorf("%w: failed to read %s: %v", ErrInvalidCredentials, DotEnvPath, err)
	}
	if id == "" {
		id = env[EnvClientID]
	}
	if secret == "" {
		secret = env[EnvClientSecret]
	}
	if id == "" || secret == "" {
		return "", "", fmt.Errorf("%w: set credentials.spotify in config.toml or %s/%s", ErrMissingCredentials, EnvClientID, EnvClientSecret)
	}

	return id, secret, nil
}

// ReadSecretsFile parses a file of "client_id <value>" and "client_secret <value>" lines.
func ReadSecretsFile(path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to open secrets file: %v", ErrMissingCredentials, err)
	}
	defer f.Close()

	var id, secret string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch strings.TrimSuffix(strings.ToLower(fields[0]), ":") {
		case "client_id":
			id = fields[1]
		case "client_secret":
			secret = fields[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("failed to read secrets file: %w", err)
	}

	if id == "" || secret == "" {
		return "", "", fmt.Errorf("%w: secrets file %s needs client_id and client_secret", ErrInvalidCredentials, path)
	}
	return id, secret, nil
}

func usable(v string) bool {
	return v != "" && !strings.HasPrefix(v, placeholderPrefix)
}
