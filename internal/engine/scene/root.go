package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is a shaded disk drawn at a local-space center.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
	Color  color.NRGBA
}

// Line is a straight segment between two local-space points.
type Line struct {
	A, B  mgl64.Vec3
	Color color.NRGBA
	Width float64 // pixels
}

// Label is a text annotation anchored at a local-space point.
type Label struct {
	Pos   mgl64.Vec3
	Text  string
	Color color.NRGBA
}

// Root is a named scene root: a transform plus the primitives it carries.
// Primitives are expressed in the root's local frame.
type Root struct {
	Name string

	orientation mgl64.Quat
	position    mgl64.Vec3

	Spheres []Sphere
	Lines   []Line
	Labels  []Label
}

// NewRoot creates a root with the identity transform.
func NewRoot(name string) *Root {
	return &Root{
		Name:        name,
		orientation: mgl64.QuatIdent(),
	}
}

// Orientation returns the root's rotation.
func (r *Root) Orientation() mgl64.Quat {
	return r.orientation
}

// Position returns the root's translation.
func (r *Root) Position() mgl64.Vec3 {
	return r.position
}

// ToWorld maps a local point to world space: rotate, then translate.
func (r *Root) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return r.orientation.Rotate(local).Add(r.position)
}

// WorldMatrix returns the root's model matrix.
func (r *Root) WorldMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(r.position[0], r.position[1], r.position[2]).Mul4(r.orientation.Mat4())
}

// AddSphere appends a sphere primitive.
func (r *Root) AddSphere(center mgl64.Vec3, radius float64, c color.NRGBA) {
	r.Spheres = append(r.Spheres, Sphere{Center: center, Radius: radius, Color: c})
}

// AddLine appends a line primitive.
func (r *Root) AddLine(a, b mgl64.Vec3, c color.NRGBA, width float64) {
	r.Lines = append(r.Lines, Line{A: a, B: b, Color: c, Width: width})
}

// AddPolyline appends consecutive segments through points.
func (r *Root) AddPolyline(points []mgl64.Vec3, c color.NRGBA, width float64) {
	for i := 1; i < len(points); i++ {
		r.AddLine(points[i-1], points[i], c, width)
	}
}

// AddLabel appends a text label.
func (r *Root) AddLabel(pos mgl64.Vec3, text string, c color.NRGBA) {
	r.Labels = append(r.Labels, Label{Pos: pos, Text: text, Color: c})
}

// Clear drops all primitives and keeps the transform.
func (r *Root) Clear() {
	r.Spheres = nil
	r.Lines = nil
	r.Labels = nil
}

// Empty reports whether the root carries no primitives.
func (r *Root) Empty() bool {
	return len(r.Spheres) == 0 && len(r.Lines) == 0 && len(r.Labels) == 0
}
