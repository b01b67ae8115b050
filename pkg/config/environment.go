package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment is a named sweep backend
type Environment struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`

	// APIKey is the name of the environment variable holding the key
	APIKey string `yaml:"api_key,omitempty"`
}

// Config holds the environment configurations
type Config struct {
	Environments []Environment `yaml:"environments"`
	Selected     string        `yaml:"selected,omitempty"`
}

// Dir returns the per-user configuration directory, ~/.param-sweep.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".param-sweep"), nil
}

// EnvironmentsPath returns the default environments file location
func EnvironmentsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "environments.yaml"), nil
}

// LoadEnvironments loads environment configurations from the default location
func LoadEnvironments() (*Config, error) {
	path, err := EnvironmentsPath()
	if err != nil {
		return nil, err
	}
	return LoadEnvironmentsFromFile(path)
}

// LoadEnvironmentsFromFile loads environment configurations from a specific file
func LoadEnvironmentsFromFile(path string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveEnvironments saves the environment configuration to the default location
func SaveEnvironments(config *Config) error {
	path, err := EnvironmentsPath()
	if err != nil {
		return err
	}
	return SaveEnvironmentsToFile(path, config)
}

// SaveEnvironmentsToFile saves the environment configuration to path
func SaveEnvironmentsToFile(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Find returns the environment with the given name, ignoring case
func (c *Config) Find(name string) (*Environment, bool) {
	for i := range c.Environments {
		if strings.EqualFold(c.Environments[i].Name, name) {
			return &c.Environments[i], true
		}
	}
	return nil, false
}

// Add appends env. Names must be unique and URLs must be http(s).
func (c *Config) Add(env Environment) error {
	if strings.TrimSpace(env.Name) == "" {
		return fmt.Errorf("environment name is required")
	}
	if _, exists := c.Find(env.Name); exists {
		return fmt.Errorf("environment %s already exists", env.Name)
	}
	if _, err := NormalizeURL(env.URL); err != nil {
		return err
	}
	c.Environments = append(c.Environments, env)
	return nil
}

// Remove deletes the named environment and clears the selection if it
// pointed at it.
func (c *Config) Remove(name string) bool {
	for i := range c.Environments {
		if strings.EqualFold(c.Environments[i].Name, name) {
			c.Environments = append(c.Environments[:i], c.Environments[i+1:]...)
			if strings.EqualFold(c.Selected, name) {
				c.Selected = ""
			}
			return true
		}
	}
	return false
}

// getDefaultConfig returns a default configuration
func getDefaultConfig() *Config {
	return &Config{
		Environments: []Environment{
			{
				Name: "Local",
				URL:  LocalURL(DefaultBackendPort),
			},
		},
		Selected: "Local",
	}
}
