package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./walkthrough.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Walkthrough")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Walkthrough")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "walkthrough")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "walkthrough")
	}
}

// loadFromFile merges a YAML file over the existing values. Relative paths
// set by the file are taken relative to the file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	before := *cfg
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if cfg.Space.Path != before.Space.Path {
		cfg.Space.Path = resolvePath(dir, cfg.Space.Path)
	}
	if cfg.Logging.LogFile != before.Logging.LogFile {
		cfg.Logging.LogFile = resolvePath(dir, cfg.Logging.LogFile)
	}
	// A bare command name is looked up on PATH.
	if d := cfg.Engine.DecoderPath; d != before.Engine.DecoderPath && strings.ContainsRune(d, filepath.Separator) {
		cfg.Engine.DecoderPath = resolvePath(dir, d)
	}
	return cfg.validate()
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// validate rejects settings the viewer cannot start with and clamps the
// ones that have an obvious range.
func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Engine.Near <= 0 || c.Engine.Far <= c.Engine.Near {
		return fmt.Errorf("clip planes near=%v far=%v: need 0 < near < far", c.Engine.Near, c.Engine.Far)
	}
	if c.Space.Path == "" {
		return errors.New("space.path is empty")
	}
	c.Audio.Volume = min(max(c.Audio.Volume, 0), 1)
	return nil
}
