package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Platform PlatformConfig `toml:"platform"`
	Migrate  MigrateConfig  `toml:"migrate"`
	Database DatabaseConfig `toml:"database"`
}

// StoreConfig contains WebDAV file store connection settings.
type StoreConfig struct {
	BaseURL  string `toml:"base_url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// PlatformConfig contains media platform API settings.
//
// Either a static Token or a client-credentials pair (ClientID/ClientSecret
// plus TokenURL) may be provided; the client-credentials pair wins.
type PlatformConfig struct {
	BaseURL      string  `toml:"base_url"`
	TokenURL     string  `toml:"token_url"`
	ClientID     string  `toml:"client_id"`
	ClientSecret string  `toml:"client_secret"`
	Token        string  `toml:"token"`
	RateLimit    float64 `toml:"rate_limit"`
}

// MigrateConfig contains migration run settings.
type MigrateConfig struct {
	Concurrency  int            `toml:"concurrency"`
	Extensions   []string       `toml:"extensions"`
	Hash         string         `toml:"hash"`
	GraceSeconds float64        `toml:"grace_seconds"`
	Folders      []FolderConfig `toml:"folders"`
}

// FolderConfig maps one remote folder to a media type and an optional playlist.
type FolderConfig struct {
	Path        string `toml:"path"`
	MediaTypeID string `toml:"media_type_id"`
	PlaylistID  string `toml:"playlist_id"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
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

// Validate checks the parts of the configuration a migration run depends on.
func (c *Config) Validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("%w: store.base_url is required", ErrInvalidConfig)
	}
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("%w: platform.base_url is required", ErrInvalidConfig)
	}
	if c.Migrate.Concurrency <= 0 {
		return fmt.Errorf("%w: migrate.concurrency must be a positive integer", ErrInvalidConfig)
	}
	if len(c.Migrate.Folders) == 0 {
		return fmt.Errorf("%w: at least one [[migrate.folders]] entry is required", ErrInvalidConfig)
	}
	for _, folder := range c.Migrate.Folders {
		if folder.Path == "" {
			return fmt.Errorf("%w: migrate.folders entry missing path", ErrInvalidConfig)
		}
		if folder.MediaTypeID == "" {
			return fmt.Errorf("%w: folder %s missing media_type_id", ErrInvalidConfig, folder.Path)
		}
	}
	switch strings.ToLower(c.Migrate.Hash) {
	case "", "sha256", "sha1", "md5":
	default:
		return fmt.Errorf("%w: unsupported hash algorithm %q", ErrInvalidConfig, c.Migrate.Hash)
	}
	return nil
}
