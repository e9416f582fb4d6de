package viewer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/lighting"
	"github.com/Faultbox/latticeview/internal/engine/scene"
	"github.com/Faultbox/latticeview/internal/view"
	"github.com/Faultbox/latticeview/pkg/elements"
	"github.com/Faultbox/latticeview/pkg/formats"
	"github.com/Faultbox/latticeview/pkg/lattice"
)

// Root names of the structure variant.
const (
	RootStructure = "structure"
	RootInfo      = "info"
)

// minBondLength drops pairs that sit on top of each other.
const minBondLength = 0.1

// Structure is the crystal structure variant.
type Structure struct {
	basis  lattice.Basis
	pbc    lattice.PBC
	policy lattice.WrapPolicy

	// wrapBasis is basis completed over collapsed axes; wrapPBC drops
	// periodicity along them. canWrap is false when no completion exists.
	wrapBasis lattice.Basis
	wrapPBC   lattice.PBC
	canWrap   bool

	// original Cartesian positions, never modified
	original []mgl64.Vec3
	labels   []int
	bonds    [][2]int

	// displayed atoms
	positions     []mgl64.Vec3
	displayLabels []int
	wrapped       bool

	structureRoot *scene.Root
	infoRoot      *scene.Root
}

var _ Variant = (*Structure)(nil)

// NewStructure builds the variant from a decoded document. Documents with
// a wrap policy other than none start wrapped.
func NewStructure(doc *formats.Structure) (*Structure, error) {
	if doc == nil {
		return nil, formats.ErrMissingPositions
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	s := &Structure{
		basis:  doc.Basis(),
		pbc:    doc.Periodicity(),
		policy: doc.WrapPolicy(),
		labels: doc.Labels(),
		bonds:  doc.Bonds,
	}

	coords := doc.Coordinates()
	if doc.Fractional() {
		cart, ok := s.basis.AllToCartesian(coords)
		if !ok {
			return nil, formats.ErrScaledNeedsCell
		}
		coords = cart
	}
	s.original = coords
	s.positions = coords
	s.displayLabels = s.labels

	s.wrapBasis, s.canWrap = s.basis.Completed()
	s.wrapPBC = s.pbc
	for i, c := range s.basis.Collapsed {
		if c {
			s.wrapPBC[i] = false
		}
	}

	if s.policy.Kind != lattice.WrapNone && s.canWrap {
		s.applyWrap(true)
	}
	return s, nil
}

// NumAtoms returns the number of displayed atoms, images included.
func (s *Structure) NumAtoms() int {
	return len(s.positions)
}

// Labels returns the species IDs of the displayed atoms.
func (s *Structure) Labels() []int {
	return s.displayLabels
}

// Wrapped reports whether periodic images are shown.
func (s *Structure) Wrapped() bool {
	return s.wrapped
}

// Original returns the Cartesian positions as loaded.
func (s *Structure) Original() []mgl64.Vec3 {
	return s.original
}

// Points returns the displayed atom positions.
func (s *Structure) Points() []mgl64.Vec3 {
	return s.positions
}

// CellCentroid returns half the sum of the basis vectors.
func (s *Structure) CellCentroid() (mgl64.Vec3, bool) {
	if !s.basis.Defined() {
		return mgl64.Vec3{}, false
	}
	return s.basis.Centroid(), true
}

// Basis returns the lattice basis.
func (s *Structure) Basis() (lattice.Basis, bool) {
	return s.basis, s.basis.Defined()
}

// Directions returns a, b, c and their negatives, or nothing without a cell.
func (s *Structure) Directions() map[string]mgl64.Vec3 {
	if !s.basis.Defined() {
		return map[string]mgl64.Vec3{}
	}
	return basisDirections(s.basis)
}

// CornerPoints returns the atoms plus the cell corners.
func (s *Structure) CornerPoints() []mgl64.Vec3 {
	pts := append([]mgl64.Vec3(nil), s.positions...)
	if s.basis.Defined() {
		pts = append(pts, s.basis.Corners()...)
	}
	return pts
}

// SetupScenes creates the structure and info roots.
func (s *Structure) SetupScenes(b scene.Backend, st Styles) []*scene.Root {
	s.structureRoot = b.CreateSceneRoot(RootStructure)
	s.infoRoot = b.CreateSceneRoot(RootInfo)
	s.build(st)
	return []*scene.Root{s.structureRoot, s.infoRoot}
}

// SetupLights uses a headlight.
func (s *Structure) SetupLights(sc *scene.Scene) {
	sc.Light = lighting.Headlight()
}

// Wrap switches between the original positions and the wrapped, expanded
// set. Disabling restores the original positions exactly. Collapsed cell
// vectors are not periodic; a cell whose remaining vectors are degenerate
// leaves the positions as they are.
func (s *Structure) Wrap(enable bool, st Styles) error {
	if enable && !s.basis.Defined() {
		return fmt.Errorf("wrap: %w", view.ErrNoBasis)
	}
	if enable && !s.canWrap {
		return nil
	}
	s.applyWrap(enable)
	if s.structureRoot != nil {
		s.build(st)
	}
	return nil
}

func (s *Structure) applyWrap(enable bool) {
	if !enable {
		s.positions = s.original
		s.displayLabels = s.labels
		s.wrapped = false
		return
	}

	policy := s.policy
	for i, c := range s.basis.Collapsed {
		if c {
			policy.Repeat[i] = min(policy.Repeat[i], 1)
		}
	}

	frac, _ := s.wrapBasis.AllToFractional(s.original)
	frac = lattice.Wrap(frac, s.wrapPBC)
	frac, labels := lattice.Expand(policy, frac, s.labels, s.wrapBasis, s.wrapPBC)
	cart, _ := s.wrapBasis.AllToCartesian(frac)

	s.positions = cart
	s.displayLabels = labels
	s.wrapped = true
}

// Bonds returns the bonded pairs among the displayed atoms. Explicit bonds
// refer to the original atoms and are kept only while their length is
// unchanged by wrapping; without explicit bonds and with Auto set, bonds
// are detected from covalent radii.
func (s *Structure) Bonds(st BondStyle) [][2]int {
	if len(s.bonds) > 0 {
		var out [][2]int
		for _, b := range s.bonds {
			before := s.original[b[0]].Sub(s.original[b[1]]).Len()
			after := s.positions[b[0]].Sub(s.positions[b[1]]).Len()
			if math.Abs(before-after) < 1e-9 {
				out = append(out, b)
			}
		}
		return out
	}
	if !st.Auto {
		return nil
	}
	return detectBonds(s.positions, s.displayLabels, st.Tolerance)
}

func detectBonds(pos []mgl64.Vec3, labels []int, tolerance float64) [][2]int {
	var out [][2]int
	for i := range pos {
		ri := elements.CovalentRadius(labels[i])
		for j := i + 1; j < len(pos); j++ {
			d := pos[i].Sub(pos[j]).Len()
			if d < minBondLength {
				continue
			}
			if d <= ri+elements.CovalentRadius(labels[j])+tolerance {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

func (s *Structure) build(st Styles) {
	s.structureRoot.Clear()
	s.infoRoot.Clear()

	for i, p := range s.positions {
		z := s.displayLabels[i]
		s.structureRoot.AddSphere(p, st.Atom.Radius(z), st.Atom.ColorOf(z))
		if st.Atom.Labels {
			s.structureRoot.AddLabel(p, elements.Symbol(z), st.Atom.LabelColor)
		}
	}

	if st.Bond.Show {
		for _, b := range s.Bonds(st.Bond) {
			s.structureRoot.AddLine(s.positions[b[0]], s.positions[b[1]], st.Bond.Color, st.Bond.Width)
		}
	}

	if !s.basis.Defined() {
		return
	}
	if st.Cell.Show {
		for _, e := range s.basis.Edges() {
			s.structureRoot.AddLine(e[0], e[1], st.Cell.Color, st.Cell.Width)
		}
	}
	if st.LatticeConstant.Show {
		addLatticeConstants(s.infoRoot, s.basis, [3]string{"a", "b", "c"}, st.LatticeConstant)
	}
}

// addLatticeConstants draws the three basis vectors from the origin with
// "name = length" labels at their tips.
func addLatticeConstants(root *scene.Root, b lattice.Basis, names [3]string, st LatticeConstantStyle) {
	vectors := b.Vectors()
	lengths := b.Lengths()
	for i, v := range vectors {
		if b.Collapsed[i] {
			continue
		}
		root.AddLine(mgl64.Vec3{}, v, st.Color, st.Width)
		text := names[i] + " = " + strconv.FormatFloat(lengths[i], 'f', st.Precision, 64)
		root.AddLabel(v, text, st.Color)
	}
}
