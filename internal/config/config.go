// Package config handles configuration loading and validation for strfhint.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidFormat   ConfigErrorType = "INVALID_FORMAT"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidFormat:
		return fmt.Sprintf("invalid configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

const (
	DefaultWorkers    = 4
	MaxWorkers        = 64
	DefaultDebounceMs = 300
)

// DefaultPreviewTime is the reference instant used by the code examples.
const DefaultPreviewTime = "2013-09-08T07:06:05Z"

// WatchConfig holds the watch-mode settings.
type WatchConfig struct {
	DebounceMs     int      `json:"debounceMs" yaml:"debounceMs"`
	IgnorePatterns []string `json:"ignorePatterns,omitempty" yaml:"ignorePatterns,omitempty"`
}

// Config holds all settings for strfhint.
type Config struct {
	Ignorable   []string     `json:"ignorable,omitempty" yaml:"ignorable,omitempty"`
	Workers     int          `json:"workers" yaml:"workers"`
	Preview     bool         `json:"preview" yaml:"preview"`
	PreviewTime string       `json:"previewTime,omitempty" yaml:"previewTime,omitempty"`
	Explain     bool         `json:"explain" yaml:"explain"`
	Watch       *WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.PreviewTime == "" {
		c.PreviewTime = DefaultPreviewTime
	}
	if c.Watch == nil {
		c.Watch = &WatchConfig{DebounceMs: DefaultDebounceMs}
	}
	// DebounceMs 0 is a valid explicit choice once a watch section exists.
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("workers must be between 1 and %d, got %d", MaxWorkers, c.Workers),
		}
	}

	if _, err := time.Parse(time.RFC3339, c.PreviewTime); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("previewTime must be an RFC 3339 timestamp: %s", err.Error()),
		}
	}

	for i, token := range c.Ignorable {
		if strings.TrimSpace(token) == "" {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("ignorable[%d] cannot be empty", i),
			}
		}
	}

	if c.Watch != nil {
		if c.Watch.DebounceMs < 0 {
			return &ConfigError{
				Type:    ValidationError,
				Message: "watch.debounceMs cannot be negative",
			}
		}
		for i, pattern := range c.Watch.IgnorePatterns {
			if _, err := filepath.Match(pattern, ""); err != nil {
				return &ConfigError{
					Type:    ValidationError,
					Message: fmt.Sprintf("watch.ignorePatterns[%d] is not a valid glob: %s", i, pattern),
				}
			}
		}
	}

	return nil
}

// ReferenceTime returns the parsed preview time.
// Validate must have succeeded first.
func (c *Config) ReferenceTime() time.Time {
	t, _ := time.Parse(time.RFC3339, c.PreviewTime)
	return t
}

// Load reads, parses and validates a configuration file. The decoder is
// chosen by extension: .yaml and .yml use YAML, anything else JSON.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var config Config
	if err := unmarshal(filePath, data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidFormat,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func unmarshal(filePath string, data []byte, v *Config) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// Save serializes a configuration to filePath using the format implied by
// its extension.
func Save(config *Config, filePath string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return &ConfigError{
			Type:    InvalidFormat,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("failed to write configuration file: %s", err.Error()),
		}
	}

	return nil
}
