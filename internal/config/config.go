package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// Path Configuration:
// - INPUT_DIR: directory holding the raw subtitle pairs (default: Input_vtt)
// - OUTPUT_DIR: directory receiving processed files (default: Output_vtt)
//
// Pair Configuration:
// - REFERENCE_SUFFIX: filename language marker of the timing reference track (default: _en)
// - TARGET_SUFFIX: filename language marker of the re-stamped track (default: _kr)
// - OUTPUT_SUFFIX: marker appended to processed files (default: _FINAL)
//
// Cleaning Configuration:
// - RULES_FILE: TOML file with bracket pairs, noise characters and typo map
//   (optional; built-in defaults used when empty)
//
// Batch Configuration:
// - BATCH_CONCURRENCY: parallel pair workers in batch mode (default: 1)
// - CRON_EXPR: rescan schedule for watch mode (default: "@hourly")
//
// Store Configuration:
// - DB_PATH: SQLite run-history database (default: data/subsync.db)
//
// Log Configuration:
// - LOG_LEVEL: DEBUG, INFO, WARN, ERROR (default: INFO)
// - LOG_FILE: log to this file instead of stdout (optional)

type Config struct {
	Paths PathsConfig `json:"paths"`
	Pair  PairConfig  `json:"pair"`
	Clean CleanConfig `json:"clean"`
	Batch BatchConfig `json:"batch"`
	Store StoreConfig `json:"store"`
	Log   LogConfig   `json:"log"`
}

// PathsConfig holds the input and output directories
type PathsConfig struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
}

// PairConfig holds the filename conventions that pair the two language tracks
type PairConfig struct {
	ReferenceSuffix string `json:"reference_suffix"`
	TargetSuffix    string `json:"target_suffix"`
	OutputSuffix    string `json:"output_suffix"`
}

// CleanConfig holds the cleaning rules source
type CleanConfig struct {
	RulesFile string `json:"rules_file"`
}

// BatchConfig holds batch and watch mode settings
type BatchConfig struct {
	Concurrency int    `json:"concurrency"`
	CronExpr    string `json:"cron_expr"`
}

// StoreConfig holds the run-history database location
type StoreConfig struct {
	DBPath string `json:"db_path"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Paths: PathsConfig{
			InputDir:  getEnvString("INPUT_DIR", "Input_vtt"),
			OutputDir: getEnvString("OUTPUT_DIR", "Output_vtt"),
		},
		Pair: PairConfig{
			ReferenceSuffix: getEnvString("REFERENCE_SUFFIX", "_en"),
			TargetSuffix:    getEnvString("TARGET_SUFFIX", "_kr"),
			OutputSuffix:    getEnvString("OUTPUT_SUFFIX", "_FINAL"),
		},
		Clean: CleanConfig{
			RulesFile: getEnvString("RULES_FILE", ""),
		},
		Batch: BatchConfig{
			Concurrency: getEnvInt("BATCH_CONCURRENCY", 1),
			CronExpr:    getEnvString("CRON_EXPR", "@hourly"),
		},
		Store: StoreConfig{
			DBPath: getEnvString("DB_PATH", "data/subsync.db"),
		},
		Log: LogConfig{
			Level: getEnvString("LOG_LEVEL", "INFO"),
			File:  getEnvString("LOG_FILE", ""),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Paths.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if c.Pair.ReferenceSuffix == "" || c.Pair.TargetSuffix == "" {
		return fmt.Errorf("REFERENCE_SUFFIX and TARGET_SUFFIX are required")
	}
	if c.Pair.ReferenceSuffix == c.Pair.TargetSuffix {
		return fmt.Errorf("REFERENCE_SUFFIX and TARGET_SUFFIX must differ")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
