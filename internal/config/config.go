// Package config loads runtime configuration from the environment.
//
// Values come from process environment variables. main loads an optional
// .env file through godotenv before calling Load, so both sources work.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/ocr-viewer/internal/logger"
)

// Config holds every tunable of the application.
type Config struct {
	// Recognition
	Languages      string
	TessdataPrefix string
	Granularity    string
	Preprocess     bool
	PoolSize       int

	// Background task runner
	MaxWorkers int
	Supersede  bool
	OutputPath string

	// Annotation style
	BoxColor string
	BoxWidth int

	// Settings document
	SettingsPath string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	config := &Config{
		Languages:      getEnv("OCR_LANGUAGES", "eng+chi_sim"),
		TessdataPrefix: getEnv("TESSDATA_PREFIX", ""),
		Granularity:    strings.ToLower(getEnv("OCR_GRANULARITY", "word")),
		Preprocess:     getEnvBool("OCR_PREPROCESS", false),
		PoolSize:       getEnvInt("OCR_POOL_SIZE", 2),
		MaxWorkers:     getEnvInt("OCR_MAX_WORKERS", 4),
		Supersede:      getEnvBool("OCR_SUPERSEDE", true),
		OutputPath:     getEnv("OCR_OUTPUT_PATH", "output_with_boxes.jpg"),
		BoxColor:       getEnv("OCR_BOX_COLOR", "#ff0000"),
		BoxWidth:       getEnvInt("OCR_BOX_WIDTH", 2),
		SettingsPath:   getEnv("OCR_SETTINGS_PATH", "settings.json"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:      getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Languages == "" {
		return fmt.Errorf("OCR_LANGUAGES must not be empty")
	}
	if c.Granularity != "word" && c.Granularity != "line" {
		return fmt.Errorf("OCR_GRANULARITY must be word or line, got %q", c.Granularity)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("OCR_POOL_SIZE must be at least 1, got %d", c.PoolSize)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("OCR_MAX_WORKERS must be at least 1, got %d", c.MaxWorkers)
	}
	if c.BoxWidth < 1 {
		return fmt.Errorf("OCR_BOX_WIDTH must be at least 1, got %d", c.BoxWidth)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OCR_OUTPUT_PATH must not be empty")
	}
	if c.SettingsPath == "" {
		return fmt.Errorf("OCR_SETTINGS_PATH must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		// validate rejects it
		return -1
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
