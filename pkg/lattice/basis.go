// Package lattice provides basis algebra and periodic-image generation for
// crystal lattices.
package lattice

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CollapseThreshold is the length below which a basis vector is treated as
// collapsed (non-periodic or lower-dimensional direction).
const CollapseThreshold = 1e-6

// Basis holds the 3x3 lattice matrix B (columns a, b, c) and its inverse.
type Basis struct {
	// M has the basis vectors as columns.
	M mgl64.Mat3
	// Inv is only meaningful when Invertible is true.
	Inv mgl64.Mat3

	Collapsed  [3]bool
	Invertible bool
	defined    bool
}

// NewBasis builds a basis from three lattice vectors.
// The inverse is computed only when no vector is collapsed.
func NewBasis(a, b, c mgl64.Vec3) Basis {
	bs := Basis{
		M:       mgl64.Mat3FromCols(a, b, c),
		defined: true,
	}

	for i, v := range [3]mgl64.Vec3{a, b, c} {
		bs.Collapsed[i] = v.Len() < CollapseThreshold
	}
	if bs.AnyCollapsed() {
		return bs
	}

	// Non-collapsed but coplanar vectors still have no inverse.
	if math.Abs(bs.M.Det()) < CollapseThreshold*CollapseThreshold*CollapseThreshold {
		return bs
	}
	bs.Inv = bs.M.Inv()
	bs.Invertible = true
	return bs
}

// FromRows builds a basis from a row-major [3][3] cell, one lattice vector
// per row, the layout used by input documents.
func FromRows(cell [3][3]float64) Basis {
	return NewBasis(
		mgl64.Vec3{cell[0][0], cell[0][1], cell[0][2]},
		mgl64.Vec3{cell[1][0], cell[1][1], cell[1][2]},
		mgl64.Vec3{cell[2][0], cell[2][1], cell[2][2]},
	)
}

// Defined reports whether the basis matrix was set at all.
func (b Basis) Defined() bool {
	return b.defined
}

// AnyCollapsed reports whether at least one vector is collapsed.
func (b Basis) AnyCollapsed() bool {
	return b.Collapsed[0] || b.Collapsed[1] || b.Collapsed[2]
}

// Vector returns basis vector i (0=a, 1=b, 2=c).
func (b Basis) Vector(i int) mgl64.Vec3 {
	return b.M.Col(i)
}

// Vectors returns a, b and c.
func (b Basis) Vectors() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{b.M.Col(0), b.M.Col(1), b.M.Col(2)}
}

// Lengths returns |a|, |b|, |c|.
func (b Basis) Lengths() [3]float64 {
	return [3]float64{b.M.Col(0).Len(), b.M.Col(1).Len(), b.M.Col(2).Len()}
}

// ToCartesian applies B to a fractional position. When the basis is not
// defined the input is returned unchanged with ok=false.
func (b Basis) ToCartesian(frac mgl64.Vec3) (mgl64.Vec3, bool) {
	if !b.defined {
		return frac, false
	}
	return b.M.Mul3x1(frac), true
}

// ToFractional applies B⁻¹ to a Cartesian position. When no inverse exists
// the input is returned unchanged with ok=false.
func (b Basis) ToFractional(cart mgl64.Vec3) (mgl64.Vec3, bool) {
	if !b.Invertible {
		return cart, false
	}
	return b.Inv.Mul3x1(cart), true
}

// AllToCartesian converts a position set. ok is false if the basis is undefined.
func (b Basis) AllToCartesian(frac []mgl64.Vec3) ([]mgl64.Vec3, bool) {
	if !b.defined {
		return frac, false
	}
	out := make([]mgl64.Vec3, len(frac))
	for i, f := range frac {
		out[i] = b.M.Mul3x1(f)
	}
	return out, true
}

// AllToFractional converts a position set. ok is false without an inverse.
func (b Basis) AllToFractional(cart []mgl64.Vec3) ([]mgl64.Vec3, bool) {
	if !b.Invertible {
		return cart, false
	}
	out := make([]mgl64.Vec3, len(cart))
	for i, c := range cart {
		out[i] = b.Inv.Mul3x1(c)
	}
	return out, true
}

// Centroid returns the cell center, half the sum of the three vectors.
func (b Basis) Centroid() mgl64.Vec3 {
	v := b.Vectors()
	return v[0].Add(v[1]).Add(v[2]).Mul(0.5)
}

// Corners returns the 8 cell corners in Cartesian coordinates, ordered by
// the binary pattern (i,j,k) with k varying fastest.
func (b Basis) Corners() []mgl64.Vec3 {
	v := b.Vectors()
	corners := make([]mgl64.Vec3, 0, 8)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				p := v[0].Mul(float64(i)).Add(v[1].Mul(float64(j))).Add(v[2].Mul(float64(k)))
				corners = append(corners, p)
			}
		}
	}
	return corners
}

// Edges returns the 12 cell edges as corner pairs.
func (b Basis) Edges() [][2]mgl64.Vec3 {
	c := b.Corners()
	idx := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along c
		{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along b
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along a
	}
	edges := make([][2]mgl64.Vec3, len(idx))
	for i, e := range idx {
		edges[i] = [2]mgl64.Vec3{c[e[0]], c[e[1]]}
	}
	return edges
}

// Completed returns an invertible basis for fractional work on lower
// dimensional cells: collapsed vectors are replaced by unit vectors
// orthogonal to the remaining ones, so their fractional coordinate is a
// plain Cartesian distance. An invertible basis is returned as is. ok is
// false when the basis is undefined or its remaining vectors are
// themselves degenerate.
func (b Basis) Completed() (Basis, bool) {
	if !b.defined {
		return Basis{}, false
	}
	if b.Invertible {
		return b, true
	}

	v := b.Vectors()
	var kept, missing []int
	for i := range 3 {
		if b.Collapsed[i] {
			missing = append(missing, i)
		} else {
			kept = append(kept, i)
		}
	}

	switch len(missing) {
	case 0:
		// coplanar, nothing to complete
		return Basis{}, false
	case 1:
		n := v[kept[0]].Cross(v[kept[1]])
		if n.Len() < CollapseThreshold {
			return Basis{}, false
		}
		v[missing[0]] = n.Normalize()
	case 2:
		u := v[kept[0]].Normalize()
		p := mgl64.Vec3{1, 0, 0}
		if math.Abs(u[0]) > 0.9 {
			p = mgl64.Vec3{0, 1, 0}
		}
		e1 := u.Cross(p).Normalize()
		v[missing[0]] = e1
		v[missing[1]] = u.Cross(e1)
	default:
		v = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}

	c := NewBasis(v[0], v[1], v[2])
	return c, c.Invertible
}

// Reciprocal returns the reciprocal basis 2π·(B⁻¹)ᵀ, whose columns b_i
// satisfy a_i·b_j = 2πδ_ij. ok is false without an inverse.
func (b Basis) Reciprocal() (Basis, bool) {
	if !b.Invertible {
		return Basis{}, false
	}
	r := b.Inv.Transpose().Mul(2 * math.Pi)
	return NewBasis(r.Col(0), r.Col(1), r.Col(2)), true
}
