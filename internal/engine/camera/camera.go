// Package camera provides the orthographic camera used to view lattices.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ortho is an orthographic camera. At zoom 1 one world unit spans one
// pixel; zoom scales the visible extent without moving the camera.
type Ortho struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	Width, Height float64
	Near, Far     float64

	zoom float64
	view mgl64.Mat4
	proj mgl64.Mat4

	// Constraints
	MinZoom float64
	MaxZoom float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// NewOrtho creates a camera on the +z axis looking at the origin.
func NewOrtho(width, height float64) *Ortho {
	c := &Ortho{
		Position:        mgl64.Vec3{0, 0, 1000},
		Target:          mgl64.Vec3{0, 0, 0},
		Up:              mgl64.Vec3{0, 1, 0},
		Width:           width,
		Height:          height,
		Near:            0.1,
		Far:             10000,
		zoom:            1,
		MinZoom:         1e-6,
		MaxZoom:         1e6,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.UpdateProjection()
	return c
}

// Zoom returns the current zoom factor.
func (c *Ortho) Zoom() float64 {
	return c.zoom
}

// SetZoom sets the zoom factor and recomputes the projection.
// Non-positive or non-finite values are ignored.
func (c *Ortho) SetZoom(zoom float64) {
	if zoom <= 0 || math.IsInf(zoom, 0) || math.IsNaN(zoom) {
		return
	}
	c.zoom = zoom
	c.UpdateProjection()
}

// Size returns the canvas size in pixels.
func (c *Ortho) Size() (w, h float64) {
	return c.Width, c.Height
}

// Resize changes the canvas size and recomputes the projection.
func (c *Ortho) Resize(width, height float64) {
	c.Width = width
	c.Height = height
	c.UpdateProjection()
}

// UpdateProjection recomputes the view and projection matrices from the
// current position, orientation and zoom.
func (c *Ortho) UpdateProjection() {
	halfW := c.Width / 2 / c.zoom
	halfH := c.Height / 2 / c.zoom
	c.proj = mgl64.Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
	c.view = mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Ortho) ViewMatrix() mgl64.Mat4 {
	return c.view
}

// ProjectionMatrix returns the camera-to-clip matrix.
func (c *Ortho) ProjectionMatrix() mgl64.Mat4 {
	return c.proj
}

// ProjectToNDC projects a world point into normalized device coordinates.
func (c *Ortho) ProjectToNDC(p mgl64.Vec3) mgl64.Vec3 {
	clip := c.proj.Mul4(c.view).Mul4x1(p.Vec4(1))
	if clip[3] != 0 && clip[3] != 1 {
		return mgl64.Vec3{clip[0] / clip[3], clip[1] / clip[3], clip[2] / clip[3]}
	}
	return clip.Vec3()
}

// ProjectToScreen projects a world point to pixel coordinates, origin at
// the top-left corner of the canvas.
func (c *Ortho) ProjectToScreen(p mgl64.Vec3) mgl64.Vec2 {
	ndc := c.ProjectToNDC(p)
	return mgl64.Vec2{
		(ndc[0] + 1) * c.Width / 2,
		(-ndc[1] + 1) * c.Height / 2,
	}
}

// Depth returns the distance of a world point in front of the camera
// along the viewing direction.
func (c *Ortho) Depth(p mgl64.Vec3) float64 {
	return -c.view.Mul4x1(p.Vec4(1))[2]
}

// PixelsPerUnit returns the on-screen size of one world unit.
func (c *Ortho) PixelsPerUnit() float64 {
	return c.zoom
}

// Right returns the camera's right vector in world space.
func (c *Ortho) Right() mgl64.Vec3 {
	forward := c.Target.Sub(c.Position).Normalize()
	return forward.Cross(c.Up).Normalize()
}

// HandleDrag orbits the camera around its target from a pointer delta in
// pixels, as produced by an external controls collaborator.
func (c *Ortho) HandleDrag(deltaX, deltaY float64) {
	offset := c.Position.Sub(c.Target)
	right := c.Right()

	yaw := mgl64.QuatRotate(-deltaX*c.DragSensitivity, c.Up.Normalize())
	pitch := mgl64.QuatRotate(-deltaY*c.DragSensitivity, right)
	q := yaw.Mul(pitch)

	c.Position = c.Target.Add(q.Rotate(offset))
	c.Up = q.Rotate(c.Up).Normalize()
	c.UpdateProjection()
}

// HandleZoom scales the zoom factor from a scroll delta.
func (c *Ortho) HandleZoom(delta float64) {
	z := c.zoom * (1 + delta*c.ZoomSensitivity)
	if z < c.MinZoom {
		z = c.MinZoom
	}
	if z > c.MaxZoom {
		z = c.MaxZoom
	}
	c.SetZoom(z)
}

// HandlePan moves camera and target together by a pixel delta.
func (c *Ortho) HandlePan(deltaX, deltaY float64) {
	scale := 1 / c.zoom
	move := c.Right().Mul(-deltaX * scale).Add(c.Up.Normalize().Mul(deltaY * scale))
	c.Position = c.Position.Add(move)
	c.Target = c.Target.Add(move)
	c.UpdateProjection()
}
