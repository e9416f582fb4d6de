package scene

import "github.com/go-gl/mathgl/mgl64"

// Group moves a set of roots as one rigid body. Every rotation and
// translation is applied to all member roots through the backend, so
// the roots never drift apart.
type Group struct {
	backend     Backend
	roots       []*Root
	translation mgl64.Vec3
}

// NewGroup binds roots to a backend. The first root is the reference for
// Orientation and ToWorld.
func NewGroup(b Backend, roots ...*Root) *Group {
	return &Group{backend: b, roots: roots}
}

// Roots returns the member roots.
func (g *Group) Roots() []*Root {
	return g.roots
}

// Backend returns the backend the group mutates.
func (g *Group) Backend() Backend {
	return g.backend
}

// Orientation returns the shared rotation.
func (g *Group) Orientation() mgl64.Quat {
	if len(g.roots) == 0 {
		return mgl64.QuatIdent()
	}
	return g.roots[0].Orientation()
}

// Translation returns the accumulated translation.
func (g *Group) Translation() mgl64.Vec3 {
	return g.translation
}

// ApplyRotation premultiplies q onto every root: the rotation is about
// world axes, after the current orientation.
func (g *Group) ApplyRotation(q mgl64.Quat) {
	for _, r := range g.roots {
		g.backend.SetOrientation(r, q.Mul(r.Orientation()))
	}
}

// Translate moves every root by v.
func (g *Group) Translate(v mgl64.Vec3) {
	g.translation = g.translation.Add(v)
	for _, r := range g.roots {
		g.backend.SetPosition(r, r.Position().Add(v))
	}
}

// Reset restores the identity transform on every root.
func (g *Group) Reset() {
	g.translation = mgl64.Vec3{}
	for _, r := range g.roots {
		g.backend.SetOrientation(r, mgl64.QuatIdent())
		g.backend.SetPosition(r, mgl64.Vec3{})
	}
}

// ToWorld maps a local point of the reference root to world space.
func (g *Group) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	if len(g.roots) == 0 {
		return local
	}
	return g.roots[0].ToWorld(local)
}

// ToWorldAll maps local points to world space.
func (g *Group) ToWorldAll(local []mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(local))
	for i, p := range local {
		out[i] = g.ToWorld(p)
	}
	return out
}
