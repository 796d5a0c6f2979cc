// Package config loads the simulator's YAML configuration file.
//
// The file is optional: a missing file yields the built-in defaults
// (loopback address, port 9000). Command-line flags override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the simulator's listen address.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 9000
)

// File represents the simulator configuration file.
type File struct {
	Host     string `yaml:"host,omitempty"`      // Listen address
	Port     int    `yaml:"port,omitempty"`      // Listen port
	LogLevel string `yaml:"log_level,omitempty"` // debug, info, warn, error (empty = silent)
	Announce bool   `yaml:"announce,omitempty"`  // Advertise via mDNS
}

// Default returns the built-in configuration.
func Default() *File {
	return &File{
		Host: DefaultHost,
		Port: DefaultPort,
	}
}

// Load reads the configuration file at path. A missing file is not an
// error; the defaults are returned. Fields absent from the file keep their
// default values.
func Load(path string) (*File, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
