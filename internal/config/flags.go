package config

import "flag"

// Flags are the command-line overrides shared by the subcommands.
type Flags struct {
	config      *string
	debug       *bool
	width       *int
	height      *int
	supersample *int
	margin      *float64
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:      fs.String("config", "", "Path to config file"),
		debug:       fs.Bool("debug", false, "Enable debug logging"),
		width:       fs.Int("width", 0, "Canvas width"),
		height:      fs.Int("height", 0, "Canvas height"),
		supersample: fs.Int("supersample", 0, "Supersampling factor"),
		margin:      fs.Float64("margin", -1, "Fit margin in world units"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.width > 0 {
		cfg.Canvas.Width = *f.width
	}
	if *f.height > 0 {
		cfg.Canvas.Height = *f.height
	}
	if *f.supersample > 0 {
		cfg.Canvas.Supersample = *f.supersample
	}
	if *f.margin >= 0 {
		cfg.View.Margin = *f.margin
	}
}
