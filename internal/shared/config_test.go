package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	config := DefaultConfig()
	config.Store.BaseURL = "https://dav.example.com"
	config.Platform.BaseURL = "http://localhost:5000"
	config.Migrate.Concurrency = 4
	config.Migrate.Folders = []FolderConfig{{Path: "/Albums", MediaTypeID: "audio"}}
	return config
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig parses the embedded example", func(t *testing.T) {
		config := DefaultConfig()
		if config.Migrate.Concurrency != 4 {
			t.Errorf("expected default concurrency 4, got %d", config.Migrate.Concurrency)
		}
		if len(config.Migrate.Extensions) == 0 {
			t.Error("expected default extensions")
		}
		if config.Migrate.Hash != "sha256" {
			t.Errorf("expected default hash sha256, got %q", config.Migrate.Hash)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("reads a TOML file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[store]
base_url = "https://dav.example.com"

[migrate]
concurrency = 2
extensions = [".mp3"]

[[migrate.folders]]
path = "/Music"
media_type_id = "audio"
playlist_id = "pl-1"
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Store.BaseURL != "https://dav.example.com" {
				t.Errorf("unexpected store URL %q", config.Store.BaseURL)
			}
			if len(config.Migrate.Folders) != 1 || config.Migrate.Folders[0].PlaylistID != "pl-1" {
				t.Errorf("unexpected folders %+v", config.Migrate.Folders)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("malformed file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			os.WriteFile(path, []byte("not [valid"), 0644)
			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("accepts a complete config", func(t *testing.T) {
			if err := validConfig().Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		cases := []struct {
			name   string
			mutate func(*Config)
		}{
			{"missing store url", func(c *Config) { c.Store.BaseURL = "" }},
			{"missing platform url", func(c *Config) { c.Platform.BaseURL = "" }},
			{"zero concurrency", func(c *Config) { c.Migrate.Concurrency = 0 }},
			{"negative concurrency", func(c *Config) { c.Migrate.Concurrency = -1 }},
			{"no folders", func(c *Config) { c.Migrate.Folders = nil }},
			{"folder without path", func(c *Config) { c.Migrate.Folders[0].Path = "" }},
			{"folder without media type", func(c *Config) { c.Migrate.Folders[0].MediaTypeID = "" }},
			{"unknown hash", func(c *Config) { c.Migrate.Hash = "crc32" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				config := validConfig()
				tc.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}

		t.Run("accepts every supported hash", func(t *testing.T) {
			for _, h := range []string{"", "sha256", "SHA1", "md5"} {
				config := validConfig()
				config.Migrate.Hash = h
				if err := config.Validate(); err != nil {
					t.Errorf("hash %q: expected no error, got %v", h, err)
				}
			}
		})
	})
}
