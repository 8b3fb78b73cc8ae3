package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for pexelsimport
type Config struct {
	// Pexels API access
	Pexels PexelsConfig `yaml:"pexels" toml:"pexels" json:"pexels"`

	// Media library the photos are imported into
	Import ImportConfig `yaml:"import" toml:"import" json:"import"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" toml:"logging" json:"logging"`
}

// PexelsConfig holds Pexels API settings
type PexelsConfig struct {
	APIKey  string        `yaml:"api_key" toml:"api_key" json:"api_key"`
	BaseURL string        `yaml:"base_url" toml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout" json:"timeout"`
	// Profile names the stored API key to use when APIKey is empty
	Profile string `yaml:"profile" toml:"profile" json:"profile"`
}

// ImportConfig holds media library settings
type ImportConfig struct {
	LibraryDir    string `yaml:"library_dir" toml:"library_dir" json:"library_dir"`
	Concurrency   int    `yaml:"concurrency" toml:"concurrency" json:"concurrency"`
	ThumbnailSize int    `yaml:"thumbnail_size" toml:"thumbnail_size" json:"thumbnail_size"`
	SmartCrop     bool   `yaml:"smart_crop" toml:"smart_crop" json:"smart_crop"`
	StampEXIF     bool   `yaml:"stamp_exif" toml:"stamp_exif" json:"stamp_exif"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level" json:"level"`
	File  string `yaml:"file" toml:"file" json:"file"`
	// NoColor disables ANSI colors on the console; they are also off when stderr is not a terminal
	NoColor bool `yaml:"no_color" toml:"no_color" json:"no_color"`
}

const (
	// DefaultBaseURL is the Pexels API v1 root; endpoint paths are appended to it
	DefaultBaseURL = "https://api.pexels.com/v1/"

	// DefaultTimeout bounds every API call and is also the largest timeout accepted
	DefaultTimeout = 30 * time.Second

	// DefaultProfile is the stored-key profile used when none is configured
	DefaultProfile = "default"
)

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Pexels: PexelsConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
			Profile: DefaultProfile,
		},
		Import: ImportConfig{
			LibraryDir:    "./media",
			Concurrency:   3,
			ThumbnailSize: 150,
			SmartCrop:     true,
			StampEXIF:     true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if apiKey := os.Getenv("PEXELS_API_KEY"); apiKey != "" {
		c.Pexels.APIKey = apiKey
	}
	if baseURL := os.Getenv("PEXELSIMPORT_BASE_URL"); baseURL != "" {
		c.Pexels.BaseURL = baseURL
	}
	if timeout := os.Getenv("PEXELSIMPORT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid PEXELSIMPORT_TIMEOUT: %w", err)
		}
		c.Pexels.Timeout = d
	}
	if profile := os.Getenv("PEXELSIMPORT_PROFILE"); profile != "" {
		c.Pexels.Profile = profile
	}

	if dir := os.Getenv("PEXELSIMPORT_LIBRARY_DIR"); dir != "" {
		c.Import.LibraryDir = dir
	}
	if concurrency := os.Getenv("PEXELSIMPORT_CONCURRENCY"); concurrency != "" {
		val, err := strconv.Atoi(concurrency)
		if err != nil {
			return fmt.Errorf("invalid PEXELSIMPORT_CONCURRENCY: %w", err)
		}
		c.Import.Concurrency = val
	}

	if logLevel := os.Getenv("PEXELSIMPORT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or TOML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".pexelsimport.yaml",
		".pexelsimport.yml",
		".pexelsimport.toml",
		filepath.Join(home, ".config", "pexelsimport", "config.yaml"),
		filepath.Join(home, ".config", "pexelsimport", "config.yml"),
		filepath.Join(home, ".config", "pexelsimport", "config.toml"),
		filepath.Join(home, ".pexelsimport.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// The API key is not checked here; it may still come from a credential store.
func (c *Config) Validate() error {
	var errs []error

	if c.Pexels.BaseURL == "" {
		errs = append(errs, errors.New("pexels base URL is required"))
	} else if !strings.HasSuffix(c.Pexels.BaseURL, "/") {
		errs = append(errs, errors.New("pexels base URL must end with '/'"))
	}
	if c.Pexels.Timeout <= 0 {
		errs = append(errs, errors.New("pexels timeout must be positive"))
	}
	if c.Pexels.Timeout > DefaultTimeout {
		errs = append(errs, fmt.Errorf("pexels timeout cannot exceed %s", DefaultTimeout))
	}

	if c.Import.LibraryDir == "" {
		errs = append(errs, errors.New("library directory is required"))
	}
	if c.Import.Concurrency <= 0 {
		errs = append(errs, errors.New("import concurrency must be positive"))
	}
	if c.Import.Concurrency > 10 {
		errs = append(errs, errors.New("import concurrency should not exceed 10"))
	}
	if c.Import.ThumbnailSize < 0 {
		errs = append(errs, errors.New("thumbnail size cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiKey, ok := flags["api-key"].(string); ok && apiKey != "" {
		c.Pexels.APIKey = apiKey
	}
	if profile, ok := flags["profile"].(string); ok && profile != "" {
		c.Pexels.Profile = profile
	}
	if dir, ok := flags["library-dir"].(string); ok && dir != "" {
		c.Import.LibraryDir = dir
	}
	if concurrency, ok := flags["concurrency"].(int); ok && concurrency > 0 {
		c.Import.Concurrency = concurrency
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Logging.NoColor = true
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pexelsimport.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
