package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Extraction ExtractionConfig
	Catalog    CatalogConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
}

// ExtractionConfig holds the AI extraction provider configuration
type ExtractionConfig struct {
	Provider string        `mapstructure:"provider"` // "gemini" or "none"
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// CatalogConfig holds catalog store configuration
type CatalogConfig struct {
	OrphanPolicy string `mapstructure:"orphan_policy"` // "retain", "cascade" or "block"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP      int `mapstructure:"per_ip"`
	Burst      int `mapstructure:"burst"`
	Extraction int `mapstructure:"extraction"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/meshcompare/")

	// Environment variable settings
	v.SetEnvPrefix("MESHCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory. Variables already set
// in the environment win; a missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.max_upload_mb", 20)

	// Extraction defaults
	v.SetDefault("extraction.provider", "none")
	v.SetDefault("extraction.api_key", "")
	v.SetDefault("extraction.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("extraction.model", "gemini-2.5-flash")
	v.SetDefault("extraction.timeout", "60s")

	// Catalog defaults
	v.SetDefault("catalog.orphan_policy", "retain")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.extraction", 15)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/meshcompare.log")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Extraction.Provider {
	case "none":
	case "gemini":
		if config.Extraction.APIKey == "" {
			return fmt.Errorf("extraction API key is required for provider 'gemini' (set MESHCOMPARE_EXTRACTION_API_KEY)")
		}
	default:
		return fmt.Errorf("extraction provider must be 'gemini' or 'none', got: %s", config.Extraction.Provider)
	}

	if config.Extraction.Timeout <= 0 {
		return fmt.Errorf("extraction timeout must be positive, got: %s", config.Extraction.Timeout)
	}

	switch strings.ToLower(config.Catalog.OrphanPolicy) {
	case "", "retain", "cascade", "block":
	default:
		return fmt.Errorf("orphan policy must be 'retain', 'cascade' or 'block', got: %s", config.Catalog.OrphanPolicy)
	}

	if config.Server.MaxUploadMB < 0 {
		return fmt.Errorf("max upload size must not be negative, got: %d", config.Server.MaxUploadMB)
	}

	return nil
}
