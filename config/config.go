// Package config provides configuration for the ReadLeaf core from environment variables and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the core configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Photos  PhotosConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds library database configuration.
type StorageConfig struct {
	// DataPath is the directory holding the persisted library.
	DataPath string
}

// PhotosConfig holds cover photo storage configuration.
type PhotosConfig struct {
	// BasePath is the directory photos are stored under; defaults to {data}/photos.
	BasePath string
	// MaxEdge is the longest edge covers are downscaled to before storing.
	MaxEdge int
}

// Load builds configuration with precedence:
// 1. Environment variables.
// 2. .env file in the working directory (if present).
// 3. Default values.
//
// The core is embedded, so command-line flags belong to the host application.
func Load() (*Config, error) {
	// Load .env if it exists (silently ignore if not found).
	_ = loadEnvFile(".env")

	cfg := &Config{
		App: AppConfig{
			Environment: envValue("READLEAF_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: envValue("READLEAF_LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath: envValue("READLEAF_DATA_PATH", ""),
		},
		Photos: PhotosConfig{
			BasePath: envValue("READLEAF_PHOTOS_PATH", ""),
			MaxEdge:  envIntValue("READLEAF_PHOTO_MAX_EDGE", 1024),
		},
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid path configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Photos.MaxEdge < 1 {
		return fmt.Errorf("photo max edge must be positive, got %d", c.Photos.MaxEdge)
	}

	return nil
}

// expandPaths resolves the data and photo directories to clean absolute paths.
// DataPath defaults to ~/ReadLeaf/data, photos to {data}/photos.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dataPath, err := expandPath(c.Storage.DataPath, filepath.Join(homeDir, "ReadLeaf", "data"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = dataPath

	photosPath, err := expandPath(c.Photos.BasePath, filepath.Join(dataPath, "photos"))
	if err != nil {
		return err
	}
	c.Photos.BasePath = photosPath

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, the default is used as-is.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// envValue returns the environment value or the default when unset.
func envValue(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// envIntValue returns an int from the environment or the default.
func envIntValue(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(v, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments). Existing environment
// variables are never overridden.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
