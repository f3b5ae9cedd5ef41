// Package config loads and saves the converter settings as JSON.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/user-none/vgmnotes/apu"
	"github.com/user-none/vgmnotes/textout"
)

const (
	appDirName     = "vgmnotes"
	configFileName = "config.json"
)

// ErrInvalidConfig is returned when a loaded configuration can't be used
var ErrInvalidConfig = errors.New("invalid configuration")

// GetConfigPath returns the default location of config.json
func GetConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// LoadConfig loads the configuration from path.
// If the file doesn't exist, it returns default configuration.
// If the file is corrupted, it returns an error.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return DefaultConfig(), nil
	}

	config := &Config{}
	if err := ReadJSON(fs, path, config); err != nil {
		return nil, err
	}

	// Apply any migration for older config versions
	config = migrateConfig(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves the configuration to path atomically
func SaveConfig(fs afero.Fs, path string, config *Config) error {
	return AtomicWriteJSON(fs, path, config)
}

// CreateConfigIfMissing creates a default config.json if it doesn't exist
func CreateConfigIfMissing(fs afero.Fs, path string) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return err
	}
	if !exists {
		return SaveConfig(fs, path, DefaultConfig())
	}
	return nil
}

// migrateConfig handles any necessary migrations from older config versions
func migrateConfig(config *Config) *Config {
	// Currently at version 1, no migrations needed
	if config.Version == 0 {
		config.Version = 1
	}

	// Ensure defaults for any missing fields
	defaults := DefaultConfig()
	if config.Variant == "" {
		config.Variant = defaults.Variant
	}
	if config.Output.LineWidth == 0 {
		config.Output.LineWidth = defaults.Output.LineWidth
	}
	if config.Output.Prefix == "" {
		config.Output.Prefix = defaults.Output.Prefix
	}
	if len(config.Output.Labels) == 0 {
		config.Output.Labels = defaults.Output.Labels
	}
	if config.Output.Extension == "" {
		config.Output.Extension = defaults.Output.Extension
	}
	if config.Batch.Workers == 0 {
		config.Batch.Workers = defaults.Batch.Workers
	}
	if config.Batch.CacheEntries == 0 {
		config.Batch.CacheEntries = defaults.Batch.CacheEntries
	}

	return config
}

// Validate checks that the configuration describes a usable conversion
func (c *Config) Validate() error {
	if _, err := apu.PolicyByName(c.Variant); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(c.Output.Labels) != apu.NumChannels {
		return fmt.Errorf("%w: need %d labels, got %d", ErrInvalidConfig, apu.NumChannels, len(c.Output.Labels))
	}
	if c.Batch.Workers < 0 || c.Batch.CacheEntries < 0 {
		return fmt.Errorf("%w: negative batch settings", ErrInvalidConfig)
	}
	return nil
}

// Policy returns the clocking policy named by Variant
func (c *Config) Policy() (apu.ClockingPolicy, error) {
	return apu.PolicyByName(c.Variant)
}

// TextOptions returns the listing layout. title is only used when
// IncludeTitle is set.
func (c *Config) TextOptions(title string) textout.Options {
	opts := textout.DefaultOptions()
	opts.LineWidth = c.Output.LineWidth
	opts.Prefix = c.Output.Prefix
	copy(opts.Labels[:], c.Output.Labels)
	if c.Output.IncludeTitle {
		opts.Title = title
	}
	return opts
}
