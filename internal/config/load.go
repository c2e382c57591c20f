package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the playground cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Scene.Name == "" {
		errs = append(errs, errors.New("scene: name is empty"))
	}
	if c.Scene.CubemapSize <= 0 {
		errs = append(errs, fmt.Errorf("scene: cubemap_size %d must be positive", c.Scene.CubemapSize))
	}
	if c.Scene.IrradianceSize < 0 {
		errs = append(errs, fmt.Errorf("scene: irradiance_size %d is negative", c.Scene.IrradianceSize))
	}
	if len(c.Data.AssetDirs) == 0 {
		errs = append(errs, errors.New("data: no asset_dirs"))
	}
	return errors.Join(errs...)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
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
		return filepath.Join(home, "Library", "Application Support", "GLPlayground")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "GLPlayground")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "gl-playground")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gl-playground")
	}
}

// loadFromFile merges a YAML file into cfg. Relative asset directories
// in the file are taken relative to the file itself.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	var file struct {
		Data DataConfig `yaml:"data"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	if len(file.Data.AssetDirs) == 0 {
		return nil
	}

	base := filepath.Dir(path)
	for i, dir := range cfg.Data.AssetDirs {
		if !filepath.IsAbs(dir) {
			cfg.Data.AssetDirs[i] = filepath.Join(base, dir)
		}
	}
	return nil
}
