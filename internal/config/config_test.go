package config

import (
	"flag"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/latticeview/internal/viewer"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test canvas defaults
	if cfg.Canvas.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Canvas.Width)
	}
	if cfg.Canvas.Height != 600 {
		t.Errorf("expected height 600, got %d", cfg.Canvas.Height)
	}
	if cfg.Canvas.Background.NRGBA() != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected white background, got %v", cfg.Canvas.Background)
	}

	// Test view defaults
	if cfg.View.Center != "COC" {
		t.Errorf("expected center COC, got %s", cfg.View.Center)
	}
	if !cfg.View.Fit {
		t.Error("expected fit to be enabled by default")
	}
	if cfg.View.Margin != 0.5 {
		t.Errorf("expected margin 0.5, got %f", cfg.View.Margin)
	}

	// Test output defaults
	if cfg.Output.Format != "png" {
		t.Errorf("expected format png, got %s", cfg.Output.Format)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
canvas:
  width: 1920
  height: 1080
  background: "#000000"
  supersample: 3

view:
  align: "up:c,right:b"
  center: COP
  fit: false
  margin: 1.25

style:
  atom:
    scale: 0.7
  cell:
    show: false

output:
  format: webp
  dir: shots

logging:
  level: "debug"
  log_file: "latticeview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Canvas.Width != 1920 || cfg.Canvas.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Background.NRGBA() != (color.NRGBA{A: 255}) {
		t.Errorf("expected black background, got %v", cfg.Canvas.Background)
	}
	if cfg.Canvas.Supersample != 3 {
		t.Errorf("expected supersample 3, got %d", cfg.Canvas.Supersample)
	}
	if cfg.View.Align != "up:c,right:b" {
		t.Errorf("expected align up:c,right:b, got %s", cfg.View.Align)
	}
	if cfg.View.Fit {
		t.Error("expected fit to be false")
	}
	if cfg.View.Margin != 1.25 {
		t.Errorf("expected margin 1.25, got %f", cfg.View.Margin)
	}
	if cfg.Output.Format != "webp" || cfg.Output.Dir != "shots" {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	// prefix untouched by the file
	if cfg.Output.Prefix != "latticeview" {
		t.Errorf("expected default prefix, got %s", cfg.Output.Prefix)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}

	styles := cfg.Styles()
	if styles.Atom.Scale != 0.7 {
		t.Errorf("expected atom scale 0.7, got %f", styles.Atom.Scale)
	}
	if styles.Cell.Show {
		t.Error("expected cell hidden")
	}
	if styles.Bond != viewer.DefaultStyles().Bond {
		t.Error("bond style should keep defaults")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
canvas:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileBadColor(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("canvas:\n  background: \"#zzz\"\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for invalid colour")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("latticeview.yaml", []byte("canvas:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find latticeview.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "width and height flags",
			args: []string{"-width", "2560", "-height", "1440"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Canvas.Width != 2560 || cfg.Canvas.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
				}
			},
		},
		{
			name: "zero margin",
			args: []string{"-margin", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.View.Margin != 0 {
					t.Errorf("expected margin 0, got %f", cfg.View.Margin)
				}
			},
		},
		{
			name: "no flags keeps defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.View.Margin != 0.5 || cfg.Canvas.Supersample != 2 {
					t.Errorf("defaults changed: %+v %+v", cfg.View, cfg.Canvas)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			applyFlags(cfg, f)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
canvas:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-width", "1920"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Canvas.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Canvas.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Canvas.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Canvas.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: gif\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Load(f); err == nil {
		t.Error("expected validation error for gif output")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Canvas.Width = 1024
	scale := 0.25
	cfg.Style.Atom.Scale = &scale

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Canvas.Width != 1024 {
		t.Errorf("expected width 1024 after reload, got %d", loaded.Canvas.Width)
	}
	if loaded.Canvas.Background != cfg.Canvas.Background {
		t.Errorf("background changed on reload: %v", loaded.Canvas.Background)
	}
	if loaded.Style.Atom.Scale == nil || *loaded.Style.Atom.Scale != 0.25 {
		t.Errorf("style override lost on reload")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.yaml after save, found %d entries", len(entries))
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		level, format string
		ok            bool
	}{
		{"info", "console", true},
		{"debug", "json", true},
		{"", "", true},
		{"chatty", "console", false},
		{"info", "xml", false},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Logging.Level = tt.level
		cfg.Logging.Format = tt.format
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("level=%q format=%q: expected ok=%v, got %v", tt.level, tt.format, tt.ok, err)
		}
	}
}

func TestLoggingOptions(t *testing.T) {
	l := LoggingConfig{Level: "debug", Format: "json", LogFile: "/tmp/x.log"}
	opts := l.Options()
	if opts.Level != "debug" || opts.Format != "json" || opts.File != "/tmp/x.log" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Console != os.Stderr {
		t.Error("expected console output on stderr")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("view:\n  margin: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.Margin != 2 {
		t.Errorf("expected margin 2 from $%s, got %f", EnvConfig, cfg.View.Margin)
	}
}
