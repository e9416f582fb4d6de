package lattice

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTolerance is the boundary-coincidence tolerance in Cartesian
// length units.
const DefaultTolerance = 1e-8

// WrapKind selects how a position set is expanded with periodic images.
type WrapKind int

const (
	// WrapNone adds no images.
	WrapNone WrapKind = iota
	// WrapBoundary adds images of atoms sitting on cell faces.
	WrapBoundary
	// WrapRepeat tiles the cell N×M×K times.
	WrapRepeat
)

// String implements fmt.Stringer.
func (k WrapKind) String() string {
	switch k {
	case WrapNone:
		return "none"
	case WrapBoundary:
		return "boundary"
	case WrapRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("WrapKind(%d)", int(k))
	}
}

// WrapPolicy is the expansion policy. Repeat is only read for WrapRepeat.
type WrapPolicy struct {
	Kind      WrapKind
	Repeat    [3]int
	Tolerance float64
}

// NoWrap returns the policy that adds no images.
func NoWrap() WrapPolicy {
	return WrapPolicy{Kind: WrapNone, Tolerance: DefaultTolerance}
}

// BoundaryWrap returns the boundary-replication policy.
func BoundaryWrap(tolerance float64) WrapPolicy {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return WrapPolicy{Kind: WrapBoundary, Tolerance: tolerance}
}

// RepeatWrap returns the N×M×K tiling policy.
func RepeatWrap(n [3]int) (WrapPolicy, error) {
	for i, v := range n {
		if v < 1 {
			return WrapPolicy{}, fmt.Errorf("repeat multiplier %d must be >= 1, got %d", i, v)
		}
	}
	return WrapPolicy{Kind: WrapRepeat, Repeat: n, Tolerance: DefaultTolerance}, nil
}

// Expand applies the policy and returns the full position set: the input
// atoms first, followed by the generated images.
func Expand(policy WrapPolicy, frac []mgl64.Vec3, labels []int, basis Basis, pbc PBC) ([]mgl64.Vec3, []int) {
	pos := append([]mgl64.Vec3(nil), frac...)
	lbl := append([]int(nil), labels...)

	var extraPos []mgl64.Vec3
	var extraLabels []int
	switch policy.Kind {
	case WrapNone:
	case WrapBoundary:
		tol := policy.Tolerance
		if tol <= 0 {
			tol = DefaultTolerance
		}
		extraPos, extraLabels = ReplicateAtBoundary(frac, labels, basis, pbc, tol)
	case WrapRepeat:
		extraPos, extraLabels = Repeat(policy.Repeat, frac, labels)
	}

	return append(pos, extraPos...), append(lbl, extraLabels...)
}
