package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultTarget is the person every photo edge and successful path is defined against.
	DefaultTarget = "Alexandre Nihous"

	// DefaultFeedConcurrency is the default number of feed documents fetched in parallel.
	DefaultFeedConcurrency = 8

	// DefaultFeedTimeout bounds each feed fetch-and-parse task.
	DefaultFeedTimeout = 15 * time.Second

	// DefaultFeedMaxBodyBytes caps one feed document.
	DefaultFeedMaxBodyBytes = 10 << 20

	// DefaultImageMaxBytes caps one evidence image.
	DefaultImageMaxBytes = 20 << 20
)

// Config holds all configuration for sixdegrees.
type Config struct {
	Target  TargetConfig  `mapstructure:"target"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Feeds   FeedsConfig   `mapstructure:"feeds"`
	Images  ImagesConfig  `mapstructure:"images"`
	Logging LoggingConfig `mapstructure:"logging"`
	API     APIConfig     `mapstructure:"api"`
}

// TargetConfig names the designated target person.
type TargetConfig struct {
	Name string `mapstructure:"name"`
}

// DatasetConfig locates the filmography document.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// FeedsConfig controls social feed ingestion.
type FeedsConfig struct {
	ListPath     string        `mapstructure:"list_path"`
	URLs         []string      `mapstructure:"urls"`
	Concurrency  int           `mapstructure:"concurrency"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// ImagesConfig controls evidence image downloads.
type ImagesConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// String returns a safe representation of APIConfig with the token masked.
func (c APIConfig) String() string {
	return fmt.Sprintf("APIConfig{ListenAddr:%s, AuthToken:%s}", c.ListenAddr, maskToken(c.AuthToken))
}

// maskToken shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskToken(token string) string {
	const visible = 4
	if token == "" {
		return ""
	}
	if len(token) <= visible*2 {
		return "***"
	}
	return token[:visible] + "****" + token[len(token)-visible:]
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("target.name", DefaultTarget)

	v.SetDefault("dataset.path", filepath.Join("data", "moviedata.json"))

	v.SetDefault("feeds.list_path", filepath.Join("data", "imageLinks.txt"))
	v.SetDefault("feeds.urls", []string{})
	v.SetDefault("feeds.concurrency", DefaultFeedConcurrency)
	v.SetDefault("feeds.timeout", DefaultFeedTimeout)
	v.SetDefault("feeds.max_body_bytes", DefaultFeedMaxBodyBytes)

	v.SetDefault("images.timeout", 15*time.Second)
	v.SetDefault("images.max_bytes", DefaultImageMaxBytes)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".sixdegrees"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("SIXDEGREES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK; use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target.Name) == "" {
		return fmt.Errorf("target.name must not be empty")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path must not be empty")
	}
	if c.Feeds.Concurrency <= 0 {
		return fmt.Errorf("feeds.concurrency must be greater than 0")
	}
	if c.Feeds.Timeout <= 0 {
		return fmt.Errorf("feeds.timeout must be greater than 0")
	}
	if c.Feeds.MaxBodyBytes <= 0 {
		return fmt.Errorf("feeds.max_body_bytes must be greater than 0")
	}
	if c.Images.Timeout <= 0 {
		return fmt.Errorf("images.timeout must be greater than 0")
	}
	if c.Images.MaxBytes <= 0 {
		return fmt.Errorf("images.max_bytes must be greater than 0")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
