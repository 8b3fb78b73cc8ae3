package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "https://api.pexels.com/v1/", config.Pexels.BaseURL)
	assert.Equal(t, 30*time.Second, config.Pexels.Timeout)
	assert.Equal(t, "default", config.Pexels.Profile)
	assert.Equal(t, 3, config.Import.Concurrency)
	assert.True(t, config.Import.StampEXIF)
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PEXELS_API_KEY", "env-key")
	t.Setenv("PEXELSIMPORT_TIMEOUT", "5s")
	t.Setenv("PEXELSIMPORT_LIBRARY_DIR", "/tmp/media")
	t.Setenv("PEXELSIMPORT_CONCURRENCY", "2")
	t.Setenv("PEXELSIMPORT_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "env-key", config.Pexels.APIKey)
	assert.Equal(t, 5*time.Second, config.Pexels.Timeout)
	assert.Equal(t, "/tmp/media", config.Import.LibraryDir)
	assert.Equal(t, 2, config.Import.Concurrency)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("PEXELSIMPORT_TIMEOUT", "soon")
		assert.Error(t, DefaultConfig().LoadFromEnv())
	})

	t.Run("concurrency", func(t *testing.T) {
		t.Setenv("PEXELSIMPORT_CONCURRENCY", "many")
		assert.Error(t, DefaultConfig().LoadFromEnv())
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		content := `pexels:
  api_key: "yaml-key"
  timeout: 10s
import:
  library_dir: "/srv/media"
  concurrency: 4
logging:
  level: "info"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		config := DefaultConfig()
		require.NoError(t, config.LoadFromFile(path))

		assert.Equal(t, "yaml-key", config.Pexels.APIKey)
		assert.Equal(t, 10*time.Second, config.Pexels.Timeout)
		assert.Equal(t, "/srv/media", config.Import.LibraryDir)
		assert.Equal(t, 4, config.Import.Concurrency)
		// untouched values keep their defaults
		assert.Equal(t, DefaultBaseURL, config.Pexels.BaseURL)
	})

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		content := `[pexels]
api_key = "toml-key"
profile = "work"

[import]
library_dir = "/srv/toml-media"
thumbnail_size = 0
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		config := DefaultConfig()
		require.NoError(t, config.LoadFromFile(path))

		assert.Equal(t, "toml-key", config.Pexels.APIKey)
		assert.Equal(t, "work", config.Pexels.Profile)
		assert.Equal(t, "/srv/toml-media", config.Import.LibraryDir)
		assert.Equal(t, 0, config.Import.ThumbnailSize)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pexels: [unterminated"), 0644))
		assert.Error(t, DefaultConfig().LoadFromFile(path))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, DefaultConfig().LoadFromFile(filepath.Join(dir, "nope.yaml")))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "defaults are valid",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "base url without trailing slash",
			modify:    func(c *Config) { c.Pexels.BaseURL = "https://api.pexels.com/v1" },
			wantError: true,
		},
		{
			name:      "zero timeout",
			modify:    func(c *Config) { c.Pexels.Timeout = 0 },
			wantError: true,
		},
		{
			name:      "timeout at the limit",
			modify:    func(c *Config) { c.Pexels.Timeout = DefaultTimeout },
			wantError: false,
		},
		{
			name:      "timeout above the limit",
			modify:    func(c *Config) { c.Pexels.Timeout = 2 * time.Minute },
			wantError: true,
		},
		{
			name:      "empty library dir",
			modify:    func(c *Config) { c.Import.LibraryDir = "" },
			wantError: true,
		},
		{
			name:      "concurrency too high",
			modify:    func(c *Config) { c.Import.Concurrency = 11 },
			wantError: true,
		},
		{
			name:      "invalid log level",
			modify:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRejectsLongEnvTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PEXELSIMPORT_TIMEOUT", "5m")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pexels timeout cannot exceed 30s")
}

func TestMergeNoColorFlag(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{"no-color": false})
	assert.False(t, config.Logging.NoColor)

	config.MergeCommandLineFlags(map[string]interface{}{"no-color": true})
	assert.True(t, config.Logging.NoColor)
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"api-key":     "flag-key",
		"library-dir": "/flags/media",
		"concurrency": 6,
		"log-level":   "error",
		"profile":     "",
	})

	assert.Equal(t, "flag-key", config.Pexels.APIKey)
	assert.Equal(t, "/flags/media", config.Import.LibraryDir)
	assert.Equal(t, 6, config.Import.Concurrency)
	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, DefaultProfile, config.Pexels.Profile)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Pexels.APIKey = "saved-key"
	config.Import.Concurrency = 5
	require.NoError(t, config.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "saved-key", loaded.Pexels.APIKey)
	assert.Equal(t, 5, loaded.Import.Concurrency)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("import:\n  library_dir: /from/file\n  concurrency: 2\n"), 0644))

	t.Setenv("PEXELSIMPORT_LIBRARY_DIR", "/from/env")

	config, err := Load(path, map[string]interface{}{"concurrency": 7})
	require.NoError(t, err)

	assert.Equal(t, "/from/env", config.Import.LibraryDir)
	assert.Equal(t, 7, config.Import.Concurrency)
}
