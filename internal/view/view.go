// Package view implements the camera-independent view commands: aligning
// lattice directions with screen axes, composing world-space rotations,
// centering on a focal point and fitting the orthographic zoom.
//
// Every command mutates a scene.Group, so all roots of a viewer stay in
// lockstep. Nothing here renders; callers redraw explicitly.
package view

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// View command errors.
var (
	ErrTooManyAlignments = errors.New("at most 2 alignments per call")
	ErrUnknownAxis       = errors.New("unknown screen axis")
	ErrUnknownDirection  = errors.New("unknown direction")
	ErrZeroAxis          = errors.New("rotation axis has zero length")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrEmptyTarget       = errors.New("empty target")
	ErrNoBasis           = errors.New("no lattice basis")
	ErrUnknownTarget     = errors.New("unknown target")
)

// degenerateLength is the length below which a projected alignment
// direction is treated as zero.
const degenerateLength = 1e-8

func mean(points []mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}
