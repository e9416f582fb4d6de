// Package scene provides the scene graph handed to a rendering backend:
// named roots carrying spheres, lines and labels, an orthographic camera
// and a directional light.
package scene

import (
	"errors"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/camera"
	"github.com/Faultbox/latticeview/internal/engine/lighting"
)

// ErrNoRenderer is returned by Render when no renderer is attached.
var ErrNoRenderer = errors.New("scene has no renderer")

// Backend is everything the viewer needs from a rendering backend.
type Backend interface {
	CreateSceneRoot(name string) *Root
	SetOrientation(root *Root, q mgl64.Quat)
	SetPosition(root *Root, p mgl64.Vec3)
	ProjectToScreen(p mgl64.Vec3) mgl64.Vec2
	SetZoom(zoom float64)
	Render() error
}

// Renderer draws a scene into an image.
type Renderer interface {
	Render(s *Scene) (image.Image, error)
}

// Config contains scene configuration options.
type Config struct {
	Width      int
	Height     int
	Background color.NRGBA
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Scene owns the roots, camera and light of one view. It implements Backend.
type Scene struct {
	config Config

	roots  []*Root
	Camera *camera.Ortho
	Light  lighting.Directional

	renderer Renderer
	last     image.Image
}

var _ Backend = (*Scene)(nil)

// New creates an empty scene. A nil renderer makes Render fail with
// ErrNoRenderer; all other operations work headless.
func New(cfg Config, r Renderer) *Scene {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		d := DefaultConfig()
		cfg.Width, cfg.Height = d.Width, d.Height
	}
	return &Scene{
		config:   cfg,
		Camera:   camera.NewOrtho(float64(cfg.Width), float64(cfg.Height)),
		Light:    lighting.Headlight(),
		renderer: r,
	}
}

// Config returns the scene configuration.
func (s *Scene) Config() Config {
	return s.config
}

// CreateSceneRoot adds a new root. Roots are drawn in creation order.
func (s *Scene) CreateSceneRoot(name string) *Root {
	r := NewRoot(name)
	s.roots = append(s.roots, r)
	return r
}

// Root looks up a root by name.
func (s *Scene) Root(name string) *Root {
	for _, r := range s.roots {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Roots returns all roots.
func (s *Scene) Roots() []*Root {
	return s.roots
}

// Clear removes all roots.
func (s *Scene) Clear() {
	s.roots = nil
	s.last = nil
}

// SetOrientation sets a root's rotation.
func (s *Scene) SetOrientation(root *Root, q mgl64.Quat) {
	root.orientation = q.Normalize()
}

// SetPosition sets a root's translation.
func (s *Scene) SetPosition(root *Root, p mgl64.Vec3) {
	root.position = p
}

// ProjectToScreen projects a world point to canvas pixels.
func (s *Scene) ProjectToScreen(p mgl64.Vec3) mgl64.Vec2 {
	return s.Camera.ProjectToScreen(p)
}

// SetZoom sets the camera zoom.
func (s *Scene) SetZoom(zoom float64) {
	s.Camera.SetZoom(zoom)
}

// Zoom returns the camera zoom.
func (s *Scene) Zoom() float64 {
	return s.Camera.Zoom()
}

// Size returns the canvas size in pixels.
func (s *Scene) Size() (w, h float64) {
	return s.Camera.Size()
}

// Resize updates the canvas size.
func (s *Scene) Resize(width, height int) {
	s.config.Width = width
	s.config.Height = height
	s.Camera.Resize(float64(width), float64(height))
}

// Render draws the scene with the attached renderer and keeps the frame.
func (s *Scene) Render() error {
	if s.renderer == nil {
		return ErrNoRenderer
	}
	img, err := s.renderer.Render(s)
	if err != nil {
		return err
	}
	s.last = img
	return nil
}

// CaptureImage returns the most recently rendered frame, or nil.
func (s *Scene) CaptureImage() image.Image {
	return s.last
}
