package check

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no configuration path is given.
const DefaultConfigFile = ".orql.yaml"

// DefaultExtensions lists the file extensions checked by default.
var DefaultExtensions = []string{".orql"}

// Config represents the project configuration.
type Config struct {
	Name       string      `yaml:"name"`
	Cache      CacheConfig `yaml:"cache"`
	Extensions []string    `yaml:"extensions"`
}

// CacheConfig bounds the parse cache. A capacity of 0 means unbounded.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// DefaultConfig returns the configuration written by `orql init`.
func DefaultConfig() Config {
	return Config{
		Name:       "orql",
		Cache:      CacheConfig{Capacity: 1024},
		Extensions: append([]string(nil), DefaultExtensions...),
	}
}

// LoadConfig reads the YAML configuration at path. A missing file yields the
// defaults. Fields absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Validate reports configuration values that cannot be used.
func (c Config) Validate() error {
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must not be negative, got %d", c.Cache.Capacity)
	}
	for _, ext := range c.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
	}
	return nil
}

// WriteConfig writes config to path as YAML, failing if the file exists.
func WriteConfig(path string, config Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
