package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/latticeview/internal/engine/snapshot"
	"github.com/Faultbox/latticeview/internal/logger"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "LATTICEVIEW_CONFIG"

// Load resolves the configuration as defaults < file < flags and
// validates the result. The file is the -config flag, then $LATTICEVIEW_CONFIG,
// then the first standard location that exists. f may be nil.
func Load(f *Flags) (*Config, error) {
	cfg := Default()

	path := f.ConfigPath()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg, f)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would make rendering impossible.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Supersample < 1 {
		return fmt.Errorf("supersample must be >= 1, got %d", c.Canvas.Supersample)
	}
	if c.View.Margin < 0 {
		return fmt.Errorf("margin must be >= 0, got %g", c.View.Margin)
	}
	if _, err := snapshot.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output format: %w", err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := logger.CheckFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// findConfigFile returns ./latticeview.yaml or ConfigDir()/config.yaml,
// whichever exists first.
func findConfigFile() string {
	candidates := []string{
		"./latticeview.yaml",
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
		return filepath.Join(home, "Library", "Application Support", "latticeview")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "latticeview")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "latticeview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "latticeview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
