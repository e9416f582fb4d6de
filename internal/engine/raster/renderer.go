// Package raster is a software rendering backend: it draws scene spheres,
// lines and labels into an image with painter's-algorithm depth ordering
// and supersampled antialiasing.
package raster

import (
	"cmp"
	"image"
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/latticeview/internal/engine/lighting"
	"github.com/Faultbox/latticeview/internal/engine/scene"
	"github.com/Faultbox/latticeview/internal/logger"
)

// shadeLayers is the number of concentric disks used to fake sphere shading.
const shadeLayers = 6

// Renderer implements scene.Renderer.
type Renderer struct {
	// Supersample renders at this multiple of the canvas size and scales
	// down; 1 disables it.
	Supersample int

	log *zap.Logger
}

var _ scene.Renderer = (*Renderer)(nil)

// New creates a renderer.
func New(supersample int) *Renderer {
	if supersample < 1 {
		supersample = 1
	}
	return &Renderer{
		Supersample: supersample,
		log:         logger.Named("raster"),
	}
}

type itemKind int

const (
	itemSphere itemKind = iota
	itemLine
)

// item is a primitive projected to (supersampled) pixel space.
type item struct {
	kind   itemKind
	depth  float64
	a, b   mgl64.Vec2
	radius float64
	width  float64
	color  color.NRGBA
}

type label struct {
	pos   mgl64.Vec2
	text  string
	color color.NRGBA
}

// Render draws the scene and returns an RGBA image of the canvas size.
func (r *Renderer) Render(s *scene.Scene) (image.Image, error) {
	start := time.Now()
	cfg := s.Config()
	ss := max(r.Supersample, 1)
	w, h := cfg.Width*ss, cfg.Height*ss

	items, labels := r.project(s, float64(ss))

	// Painter's algorithm: farthest first.
	slices.SortStableFunc(items, func(a, b item) int {
		return cmp.Compare(b.depth, a.depth)
	})

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(cfg.Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(w, h)
	for _, it := range items {
		switch it.kind {
		case itemSphere:
			drawSphere(z, canvas, it, s.Light)
		case itemLine:
			drawLine(z, canvas, it.a, it.b, it.width, it.color)
		}
	}

	out := canvas
	if ss > 1 {
		out = image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
		draw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	}
	for _, l := range labels {
		drawLabel(out, l.pos, l.text, l.color)
	}

	r.log.Debug("frame rendered",
		zap.Int("items", len(items)),
		zap.Int("labels", len(labels)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// project maps every root primitive to pixel space. Labels stay at canvas
// scale since they are drawn after downsampling.
func (r *Renderer) project(s *scene.Scene, ss float64) ([]item, []label) {
	cam := s.Camera
	ppu := cam.PixelsPerUnit() * ss

	var items []item
	var labels []label
	for _, root := range s.Roots() {
		for _, sp := range root.Spheres {
			p := root.ToWorld(sp.Center)
			items = append(items, item{
				kind:   itemSphere,
				depth:  cam.Depth(p),
				a:      cam.ProjectToScreen(p).Mul(ss),
				radius: sp.Radius * ppu,
				color:  sp.Color,
			})
		}
		for _, ln := range root.Lines {
			pa, pb := root.ToWorld(ln.A), root.ToWorld(ln.B)
			items = append(items, item{
				kind:  itemLine,
				depth: (cam.Depth(pa) + cam.Depth(pb)) / 2,
				a:     cam.ProjectToScreen(pa).Mul(ss),
				b:     cam.ProjectToScreen(pb).Mul(ss),
				width: ln.Width * ss,
				color: ln.Color,
			})
		}
		for _, lb := range root.Labels {
			labels = append(labels, label{
				pos:   cam.ProjectToScreen(root.ToWorld(lb.Pos)),
				text:  lb.Text,
				color: lb.Color,
			})
		}
	}
	return items, labels
}

func finite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// drawSphere fakes a lit sphere with concentric disks that shrink towards
// the lit side. Layer k shows the surface band whose normal leans 1-k/n
// away from the viewer.
func drawSphere(z *vector.Rasterizer, dst *image.RGBA, it item, light lighting.Directional) {
	cx, cy, r := it.a[0], it.a[1], it.radius
	if r <= 0 || !finite(cx, cy, r) {
		return
	}
	b := dst.Bounds()
	if cx+r < 0 || cy+r < 0 || cx-r > float64(b.Dx()) || cy-r > float64(b.Dy()) {
		return
	}

	toLight := mgl64.Vec2{light.Direction[0], light.Direction[1]}
	if toLight.Len() > 0 {
		toLight = toLight.Normalize()
	}

	for k := 0; k < shadeLayers; k++ {
		f := 1 - float64(k)/shadeLayers
		normal := mgl64.Vec3{toLight[0] * (1 - f), toLight[1] * (1 - f), math.Sqrt(1 - (1-f)*(1-f))}
		if k == 0 {
			normal = mgl64.Vec3{-toLight[0], -toLight[1], 0.3}
		}
		shade := light.Shade(normal)

		rk := r * f
		// screen y grows downward
		ox := toLight[0] * (r - rk) * 0.5
		oy := -toLight[1] * (r - rk) * 0.5
		fillCircle(z, dst, cx+ox, cy+oy, rk, scale(it.color, shade))
	}
}

func scale(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
		A: c.A,
	}
}

func fillCircle(z *vector.Rasterizer, dst *image.RGBA, cx, cy, r float64, c color.NRGBA) {
	if r <= 0 {
		return
	}
	segs := int(math.Min(96, math.Max(12, r)))
	b := dst.Bounds()
	z.Reset(b.Dx(), b.Dy())
	z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < segs; i++ {
		a := 2 * math.Pi * float64(i) / float64(segs)
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// drawLine fills the quad of the given pixel width around a-b.
func drawLine(z *vector.Rasterizer, dst *image.RGBA, a, b mgl64.Vec2, width float64, c color.NRGBA) {
	if !finite(a[0], a[1], b[0], b[1]) {
		return
	}
	d := b.Sub(a)
	if d.Len() == 0 || width <= 0 {
		return
	}
	n := mgl64.Vec2{-d[1], d[0]}.Normalize().Mul(width / 2)

	bounds := dst.Bounds()
	z.Reset(bounds.Dx(), bounds.Dy())
	z.MoveTo(float32(a[0]+n[0]), float32(a[1]+n[1]))
	z.LineTo(float32(b[0]+n[0]), float32(b[1]+n[1]))
	z.LineTo(float32(b[0]-n[0]), float32(b[1]-n[1]))
	z.LineTo(float32(a[0]-n[0]), float32(a[1]-n[1]))
	z.ClosePath()
	z.Draw(dst, bounds, image.NewUniform(c), image.Point{})
}
