package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultChannelKey is the repository key holding the default channel name.
const DefaultChannelKey = "logging.default"

type Config struct {
	Theme   string        `yaml:"theme"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Default  string                   `yaml:"default"`
	Level    string                   `yaml:"level"`
	File     FileConfig               `yaml:"file"`
	Channels map[string]ChannelConfig `yaml:"channels"`
}

type FileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ChannelConfig describes a named channel. Only the "stack" driver has
// behavior of its own: it fans out to Channels.
type ChannelConfig struct {
	Driver   string   `yaml:"driver"`
	Channels []string `yaml:"channels"`
}

func DefaultConfig() Config {
	return Config{
		Theme: "mocha",
		Logging: LoggingConfig{
			Default: "app",
			Level:   "debug",
		},
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFromDir loads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}
	if cfg.Logging.Default == "" {
		cfg.Logging.Default = "app"
	}

	return cfg, nil
}

// Stacks returns the configured stack channels keyed by name.
func (c *Config) Stacks() map[string][]string {
	stacks := make(map[string][]string)
	for name, ch := range c.Logging.Channels {
		if ch.Driver == "stack" {
			stacks[name] = ch.Channels
		}
	}
	return stacks
}

// ResolveLogPath returns the configured log file path, or a file under dir.
func (c *Config) ResolveLogPath(dir string) string {
	if c.Logging.File.Path != "" {
		return expandHome(c.Logging.File.Path)
	}
	return filepath.Join(dir, "logfake.log")
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DefaultDir returns the directory holding config.yaml.
func DefaultDir() string {
	return filepath.Dir(getConfigPath())
}

func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "logfake", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "logfake", "config.yaml")
	}

	return filepath.Join(home, ".config", "logfake", "config.yaml")
}
