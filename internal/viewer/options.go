package viewer

import (
	"fmt"
	"image/color"
	"maps"
	"strconv"
	"strings"

	"github.com/Faultbox/latticeview/pkg/elements"
)

// Color is an RGBA colour written as "#rgb", "#rrggbb" or "#rrggbbaa".
type Color color.NRGBA

// ParseColor parses a hex colour.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if c.A == 0xff {
		return []byte(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), nil
	}
	return []byte(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// NRGBA converts to the image/color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA(c)
}

// Options are user style overrides. A nil field keeps the default.
type Options struct {
	Atom            AtomOptions            `yaml:"atom,omitempty"`
	Bond            BondOptions            `yaml:"bond,omitempty"`
	Cell            CellOptions            `yaml:"cell,omitempty"`
	LatticeConstant LatticeConstantOptions `yaml:"lattice_constant,omitempty"`
	Zone            ZoneOptions            `yaml:"zone,omitempty"`
}

// AtomOptions overrides AtomStyle. Colors is keyed by element symbol.
type AtomOptions struct {
	Scale      *float64         `yaml:"scale,omitempty"`
	Labels     *bool            `yaml:"labels,omitempty"`
	LabelColor *Color           `yaml:"label_color,omitempty"`
	Colors     map[string]Color `yaml:"colors,omitempty"`
}

// BondOptions overrides BondStyle.
type BondOptions struct {
	Show      *bool    `yaml:"show,omitempty"`
	Auto      *bool    `yaml:"auto,omitempty"`
	Tolerance *float64 `yaml:"tolerance,omitempty"`
	Color     *Color   `yaml:"color,omitempty"`
	Width     *float64 `yaml:"width,omitempty"`
}

// CellOptions overrides CellStyle.
type CellOptions struct {
	Show  *bool    `yaml:"show,omitempty"`
	Color *Color   `yaml:"color,omitempty"`
	Width *float64 `yaml:"width,omitempty"`
}

// LatticeConstantOptions overrides LatticeConstantStyle.
type LatticeConstantOptions struct {
	Show      *bool    `yaml:"show,omitempty"`
	Color     *Color   `yaml:"color,omitempty"`
	Width     *float64 `yaml:"width,omitempty"`
	Precision *int     `yaml:"precision,omitempty"`
}

// ZoneOptions overrides ZoneStyle.
type ZoneOptions struct {
	EdgeColor   *Color   `yaml:"edge_color,omitempty"`
	EdgeWidth   *float64 `yaml:"edge_width,omitempty"`
	PointColor  *Color   `yaml:"point_color,omitempty"`
	PointRadius *float64 `yaml:"point_radius,omitempty"`
	Labels      *bool    `yaml:"labels,omitempty"`
	Vectors     *bool    `yaml:"vectors,omitempty"`
	VectorColor *Color   `yaml:"vector_color,omitempty"`
}

// Styles is the fully resolved style set.
type Styles struct {
	Atom            AtomStyle
	Bond            BondStyle
	Cell            CellStyle
	LatticeConstant LatticeConstantStyle
	Zone            ZoneStyle
}

// AtomStyle controls atom spheres. Radius is Scale times the covalent radius.
type AtomStyle struct {
	Scale      float64
	Labels     bool
	LabelColor color.NRGBA
	Colors     map[int]color.NRGBA
}

// ColorOf returns the colour of a species, falling back to the element table.
func (s AtomStyle) ColorOf(z int) color.NRGBA {
	if c, ok := s.Colors[z]; ok {
		return c
	}
	return elements.Color(z)
}

// Radius returns the drawn radius of a species.
func (s AtomStyle) Radius(z int) float64 {
	return s.Scale * elements.CovalentRadius(z)
}

// BondStyle controls bonds. With Auto set, documents without explicit bonds
// get a bond wherever two atoms are closer than the sum of their covalent
// radii plus Tolerance.
type BondStyle struct {
	Show      bool
	Auto      bool
	Tolerance float64
	Color     color.NRGBA
	Width     float64
}

// CellStyle controls the unit cell edges.
type CellStyle struct {
	Show  bool
	Color color.NRGBA
	Width float64
}

// LatticeConstantStyle controls the labelled a, b, c vectors.
type LatticeConstantStyle struct {
	Show      bool
	Color     color.NRGBA
	Width     float64
	Precision int
}

// ZoneStyle controls Brillouin zone drawing.
type ZoneStyle struct {
	EdgeColor   color.NRGBA
	EdgeWidth   float64
	PointColor  color.NRGBA
	PointRadius float64
	Labels      bool
	Vectors     bool
	VectorColor color.NRGBA
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	black := color.NRGBA{A: 0xff}
	return Styles{
		Atom: AtomStyle{
			Scale:      0.5,
			LabelColor: black,
		},
		Bond: BondStyle{
			Show:      true,
			Auto:      true,
			Tolerance: 0.45,
			Color:     color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
			Width:     3,
		},
		Cell: CellStyle{
			Show:  true,
			Color: black,
			Width: 1.5,
		},
		LatticeConstant: LatticeConstantStyle{
			Show:      true,
			Color:     color.NRGBA{R: 0xc0, G: 0x20, B: 0x20, A: 0xff},
			Width:     2,
			Precision: 3,
		},
		Zone: ZoneStyle{
			EdgeColor:   black,
			EdgeWidth:   1.5,
			PointColor:  color.NRGBA{R: 0x20, G: 0x60, B: 0xd0, A: 0xff},
			PointRadius: 0.05,
			Labels:      true,
			Vectors:     true,
			VectorColor: color.NRGBA{R: 0xc0, G: 0x20, B: 0x20, A: 0xff},
		},
	}
}

// MergeDefaults resolves user overrides against defaults. Each non-nil
// user leaf replaces the default leaf; atom colours merge per species.
// Neither argument is modified.
func MergeDefaults(user Options, defaults Styles) Styles {
	out := defaults

	out.Atom.Colors = maps.Clone(defaults.Atom.Colors)
	setFloat(&out.Atom.Scale, user.Atom.Scale)
	setBool(&out.Atom.Labels, user.Atom.Labels)
	setColor(&out.Atom.LabelColor, user.Atom.LabelColor)
	for sym, c := range user.Atom.Colors {
		z, ok := elements.AtomicNumber(sym)
		if !ok {
			continue
		}
		if out.Atom.Colors == nil {
			out.Atom.Colors = make(map[int]color.NRGBA)
		}
		out.Atom.Colors[z] = c.NRGBA()
	}

	setBool(&out.Bond.Show, user.Bond.Show)
	setBool(&out.Bond.Auto, user.Bond.Auto)
	setFloat(&out.Bond.Tolerance, user.Bond.Tolerance)
	setColor(&out.Bond.Color, user.Bond.Color)
	setFloat(&out.Bond.Width, user.Bond.Width)

	setBool(&out.Cell.Show, user.Cell.Show)
	setColor(&out.Cell.Color, user.Cell.Color)
	setFloat(&out.Cell.Width, user.Cell.Width)

	setBool(&out.LatticeConstant.Show, user.LatticeConstant.Show)
	setColor(&out.LatticeConstant.Color, user.LatticeConstant.Color)
	setFloat(&out.LatticeConstant.Width, user.LatticeConstant.Width)
	if p := user.LatticeConstant.Precision; p != nil {
		out.LatticeConstant.Precision = *p
	}

	setColor(&out.Zone.EdgeColor, user.Zone.EdgeColor)
	setFloat(&out.Zone.EdgeWidth, user.Zone.EdgeWidth)
	setColor(&out.Zone.PointColor, user.Zone.PointColor)
	setFloat(&out.Zone.PointRadius, user.Zone.PointRadius)
	setBool(&out.Zone.Labels, user.Zone.Labels)
	setBool(&out.Zone.Vectors, user.Zone.Vectors)
	setColor(&out.Zone.VectorColor, user.Zone.VectorColor)

	return out
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setColor(dst *color.NRGBA, v *Color) {
	if v != nil {
		*dst = v.NRGBA()
	}
}
