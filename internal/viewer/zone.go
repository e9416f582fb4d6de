package viewer

import (
	"errors"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/lighting"
	"github.com/Faultbox/latticeview/internal/engine/scene"
	"github.com/Faultbox/latticeview/pkg/formats"
	"github.com/Faultbox/latticeview/pkg/lattice"
)

// Root names of the zone variant. The info root is shared with Structure.
const RootZone = "zone"

// ErrNoSegments is returned for a zone document without edges.
var ErrNoSegments = errors.New("zone has no segments")

var zoneLabelColor = color.NRGBA{A: 0xff}

// KPoint is a labelled high-symmetry point in Cartesian reciprocal space.
type KPoint struct {
	Label string
	Pos   mgl64.Vec3
}

// Zone is the Brillouin zone variant. Segments arrive precomputed.
type Zone struct {
	basis    lattice.Basis
	segments [][]mgl64.Vec3
	kpoints  []KPoint
	points   []mgl64.Vec3

	zoneRoot *scene.Root
	infoRoot *scene.Root
}

var _ Variant = (*Zone)(nil)

// NewZone builds the variant from a decoded document. K-points are
// converted from fractional reciprocal coordinates.
func NewZone(doc *formats.Zone) (*Zone, error) {
	if doc == nil || len(doc.Segments) == 0 {
		return nil, ErrNoSegments
	}
	z := &Zone{
		basis:    doc.ReciprocalBasis(),
		segments: doc.Polylines(),
	}
	for _, seg := range z.segments {
		z.points = append(z.points, seg...)
	}
	for _, k := range doc.KPoints {
		pos, _ := z.basis.ToCartesian(mgl64.Vec3{k.Point[0], k.Point[1], k.Point[2]})
		z.kpoints = append(z.kpoints, KPoint{Label: k.Label, Pos: pos})
	}
	return z, nil
}

// KPoints returns the k-points in Cartesian coordinates.
func (z *Zone) KPoints() []KPoint {
	return z.kpoints
}

// Points returns every segment vertex.
func (z *Zone) Points() []mgl64.Vec3 {
	return z.points
}

// CellCentroid returns Γ: the zone is centered on the origin.
func (z *Zone) CellCentroid() (mgl64.Vec3, bool) {
	return mgl64.Vec3{}, true
}

// Basis returns the reciprocal basis.
func (z *Zone) Basis() (lattice.Basis, bool) {
	return z.basis, z.basis.Defined()
}

// Directions returns the reciprocal vectors, their negatives and
// "segments", the mean of all segment vertices.
func (z *Zone) Directions() map[string]mgl64.Vec3 {
	dirs := basisDirections(z.basis)
	if len(z.points) == 0 {
		return dirs
	}
	var sum mgl64.Vec3
	for _, p := range z.points {
		sum = sum.Add(p)
	}
	dirs["segments"] = sum.Mul(1 / float64(len(z.points)))
	return dirs
}

// CornerPoints returns every segment vertex and k-point.
func (z *Zone) CornerPoints() []mgl64.Vec3 {
	pts := append([]mgl64.Vec3(nil), z.points...)
	for _, k := range z.kpoints {
		pts = append(pts, k.Pos)
	}
	return pts
}

// SetupScenes creates the zone and info roots.
func (z *Zone) SetupScenes(b scene.Backend, st Styles) []*scene.Root {
	z.zoneRoot = b.CreateSceneRoot(RootZone)
	z.infoRoot = b.CreateSceneRoot(RootInfo)

	for _, seg := range z.segments {
		z.zoneRoot.AddPolyline(seg, st.Zone.EdgeColor, st.Zone.EdgeWidth)
	}
	for _, k := range z.kpoints {
		z.infoRoot.AddSphere(k.Pos, st.Zone.PointRadius, st.Zone.PointColor)
		if st.Zone.Labels {
			z.infoRoot.AddLabel(k.Pos, k.Label, zoneLabelColor)
		}
	}
	if st.Zone.Vectors {
		addLatticeConstants(z.infoRoot, z.basis, [3]string{"b1", "b2", "b3"}, LatticeConstantStyle{
			Show:      true,
			Color:     st.Zone.VectorColor,
			Width:     st.LatticeConstant.Width,
			Precision: st.LatticeConstant.Precision,
		})
	}
	return []*scene.Root{z.zoneRoot, z.infoRoot}
}

// SetupLights uses flat, unshaded lighting.
func (z *Zone) SetupLights(sc *scene.Scene) {
	sc.Light = lighting.Directional{Ambient: 1}
}
