package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config to the -config path, or to the user's config
// directory when none was given, and returns the path written.
func (c *Config) Save() (string, error) {
	path := ConfigPath()
	if path == "" {
		path = filepath.Join(ConfigDir(), "mapview.yaml")
	}
	return path, c.SaveTo(path)
}

// SaveTo writes the config to a specific path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
