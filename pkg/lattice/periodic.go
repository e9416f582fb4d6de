package lattice

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PBC holds one periodicity flag per basis axis.
type PBC [3]bool

// Periodic reports whether any axis wraps.
func (p PBC) Periodic() bool {
	return p[0] || p[1] || p[2]
}

// WrapCoordinate maps x into [0,1): x < 0 ? 1 + mod(x,1) : mod(x,1).
func WrapCoordinate(x float64) float64 {
	m := math.Mod(x, 1)
	if x < 0 {
		m = 1 + m
	}
	// 1+m rounds to exactly 1 for tiny negative x.
	if m >= 1 {
		m = 0
	}
	return m
}

// Wrap returns a copy of the fractional positions with every periodic axis
// mapped into [0,1). Non-periodic axes are left untouched.
func Wrap(frac []mgl64.Vec3, pbc PBC) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(frac))
	for i, f := range frac {
		for axis := 0; axis < 3; axis++ {
			if pbc[axis] {
				f[axis] = WrapCoordinate(f[axis])
			}
		}
		out[i] = f
	}
	return out
}

// ReplicateAtBoundary returns the periodic images of atoms lying on the
// 0-faces of the cell. An atom on k boundary axes gets 2^k-1 images, one
// for every non-empty combination of +1 shifts along those axes. Distance
// to a face is measured in Cartesian length along that axis's basis vector.
// Only the extra images are returned; the input is not modified.
func ReplicateAtBoundary(frac []mgl64.Vec3, labels []int, basis Basis, pbc PBC, tolerance float64) ([]mgl64.Vec3, []int) {
	lengths := basis.Lengths()

	var extraPos []mgl64.Vec3
	var extraLabels []int
	for i, f := range frac {
		var axes []int
		for axis := 0; axis < 3; axis++ {
			if !pbc[axis] {
				continue
			}
			if math.Abs(f[axis])*lengths[axis] < tolerance {
				axes = append(axes, axis)
			}
		}
		if len(axes) == 0 {
			continue
		}

		// Every non-empty subset of the boundary axes, in bitmask order.
		for mask := 1; mask < 1<<len(axes); mask++ {
			img := f
			for bit, axis := range axes {
				if mask&(1<<bit) != 0 {
					img[axis] += 1
				}
			}
			extraPos = append(extraPos, img)
			extraLabels = append(extraLabels, labels[i])
		}
	}
	return extraPos, extraLabels
}

// Repeat returns translated copies of every atom for each integer offset
// (i,j,k) with 0 <= i < n[0], 0 <= j < n[1], 0 <= k < n[2], excluding
// (0,0,0). Translations are ordered i, then j, then k; atom order is kept
// within each translation. Only the extra images are returned.
func Repeat(n [3]int, frac []mgl64.Vec3, labels []int) ([]mgl64.Vec3, []int) {
	var extraPos []mgl64.Vec3
	var extraLabels []int
	for i := 0; i < n[0]; i++ {
		for j := 0; j < n[1]; j++ {
			for k := 0; k < n[2]; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				shift := mgl64.Vec3{float64(i), float64(j), float64(k)}
				for a, f := range frac {
					extraPos = append(extraPos, f.Add(shift))
					extraLabels = append(extraLabels, labels[a])
				}
			}
		}
	}
	return extraPos, extraLabels
}
