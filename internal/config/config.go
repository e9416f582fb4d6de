// Package config handles latticeview configuration loading and management.
package config

import (
	"image/color"

	"github.com/Faultbox/latticeview/internal/logger"
	"github.com/Faultbox/latticeview/internal/viewer"
)

// Config holds all latticeview settings.
type Config struct {
	Canvas  CanvasConfig   `yaml:"canvas"`
	View    ViewConfig     `yaml:"view"`
	Style   viewer.Options `yaml:"style"`
	Output  OutputConfig   `yaml:"output"`
	Logging LoggingConfig  `yaml:"logging"`
}

// CanvasConfig holds render target settings.
type CanvasConfig struct {
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	Background  viewer.Color `yaml:"background"`
	Supersample int          `yaml:"supersample"`
}

// ViewConfig holds the view commands applied when none are given on the
// command line.
type ViewConfig struct {
	Align  string  `yaml:"align"`  // e.g. "up:c,right:b"
	Center string  `yaml:"center"` // COP, COC or index list
	Fit    bool    `yaml:"fit"`
	Margin float64 `yaml:"margin"`
}

// OutputConfig holds snapshot settings.
type OutputConfig struct {
	Format string `yaml:"format"` // png or webp
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	LogFile string `yaml:"log_file"`
}

// Options converts the section into logger options writing to stderr.
func (l LoggingConfig) Options() logger.Options {
	opts := logger.DefaultOptions()
	opts.Level = l.Level
	opts.Format = l.Format
	opts.File = l.LogFile
	return opts
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:       800,
			Height:      600,
			Background:  viewer.Color(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
			Supersample: 2,
		},
		View: ViewConfig{
			Center: "COC",
			Fit:    true,
			Margin: 0.5,
		},
		Output: OutputConfig{
			Format: "png",
			Dir:    ".",
			Prefix: "latticeview",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Styles resolves the style overrides against the built-in defaults.
func (c *Config) Styles() viewer.Styles {
	return viewer.MergeDefaults(c.Style, viewer.DefaultStyles())
}
