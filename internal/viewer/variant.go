package viewer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/scene"
	"github.com/Faultbox/latticeview/internal/view"
	"github.com/Faultbox/latticeview/pkg/lattice"
)

// Variant supplies the document-specific part of a viewer: which roots
// exist, what geometry they carry, and the points and directions the
// shared view commands work on. All geometry is in the roots' local frame.
type Variant interface {
	view.PointSource

	// SetupScenes creates the variant's roots on b and fills them.
	SetupScenes(b scene.Backend, st Styles) []*scene.Root
	// SetupLights configures scene lighting.
	SetupLights(s *scene.Scene)
	// CornerPoints returns the points a full fit must keep on screen.
	CornerPoints() []mgl64.Vec3
	// Directions returns the named directions available to Align.
	Directions() map[string]mgl64.Vec3
	// Basis returns the lattice basis, false when there is none.
	Basis() (lattice.Basis, bool)
}

// wrapper is implemented by variants that support toggling periodic images.
type wrapper interface {
	Wrap(enable bool, st Styles) error
}

// basisDirections returns a, b, c and their negatives.
func basisDirections(b lattice.Basis) map[string]mgl64.Vec3 {
	v := b.Vectors()
	return map[string]mgl64.Vec3{
		"a":  v[0],
		"b":  v[1],
		"c":  v[2],
		"-a": v[0].Mul(-1),
		"-b": v[1].Mul(-1),
		"-c": v[2].Mul(-1),
	}
}
