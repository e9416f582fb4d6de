package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/scene"
)

// Rotation is a rotation of Degrees about a world axis.
type Rotation struct {
	Axis    mgl64.Vec3
	Degrees float64
}

// ParseRotations parses "x,y,z,deg;x,y,z,deg".
func ParseRotations(s string) ([]Rotation, error) {
	var out []Rotation
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("rotation %q: expected x,y,z,degrees", part)
		}
		var v [4]float64
		for i, f := range fields {
			n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("rotation %q: %w", part, err)
			}
			v[i] = n
		}
		out = append(out, Rotation{Axis: mgl64.Vec3{v[0], v[1], v[2]}, Degrees: v[3]})
	}
	return out, nil
}

// Rotate applies rotations left to right, each about a world axis.
// The whole list is checked before any rotation is applied.
func Rotate(rots []Rotation, g *scene.Group) error {
	for i, r := range rots {
		if r.Axis.Len() == 0 {
			return fmt.Errorf("rotation %d: %w", i, ErrZeroAxis)
		}
	}
	for _, r := range rots {
		q := mgl64.QuatRotate(mgl64.DegToRad(r.Degrees), r.Axis.Normalize())
		g.ApplyRotation(q)
	}
	return nil
}
