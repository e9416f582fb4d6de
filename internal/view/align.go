package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/scene"
)

// Axis is a screen axis an alignment can target.
type Axis int

const (
	AxisUp Axis = iota
	AxisDown
	AxisRight
	AxisLeft
	AxisFront
	AxisBack
)

var axisNames = [...]string{"up", "down", "right", "left", "front", "back"}

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return fmt.Sprintf("Axis(%d)", int(a))
	}
	return axisNames[a]
}

// ParseAxis converts an axis name, case-insensitively.
func ParseAxis(name string) (Axis, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range axisNames {
		if s == n {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAxis, name)
}

// Vector returns the world unit vector of the axis.
func (a Axis) Vector() mgl64.Vec3 {
	switch a {
	case AxisUp:
		return mgl64.Vec3{0, 1, 0}
	case AxisDown:
		return mgl64.Vec3{0, -1, 0}
	case AxisRight:
		return mgl64.Vec3{1, 0, 0}
	case AxisLeft:
		return mgl64.Vec3{-1, 0, 0}
	case AxisFront:
		return mgl64.Vec3{0, 0, 1}
	default:
		return mgl64.Vec3{0, 0, -1}
	}
}

// component returns the world component (0=x, 1=y, 2=z) the axis pins.
func (a Axis) component() int {
	switch a {
	case AxisRight, AxisLeft:
		return 0
	case AxisUp, AxisDown:
		return 1
	default:
		return 2
	}
}

// Alignment asks for the named direction to point along Axis.
type Alignment struct {
	Axis      Axis
	Direction string
}

// ParseAlignments parses "up:c,right:b".
func ParseAlignments(s string) ([]Alignment, error) {
	var out []Alignment
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		axis, dir, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("alignment %q: expected axis:direction", part)
		}
		a, err := ParseAxis(axis)
		if err != nil {
			return nil, err
		}
		out = append(out, Alignment{Axis: a, Direction: strings.TrimSpace(dir)})
	}
	return out, nil
}

// Align rotates the group so each requested direction points along its
// screen axis. Requests apply in order; components along axes pinned by
// earlier requests are projected out first so later requests cannot undo
// them. A direction that projects to near zero length is skipped.
//
// dirs holds local-space directions; they are mapped through the group's
// current orientation before aligning.
func Align(reqs []Alignment, dirs map[string]mgl64.Vec3, g *scene.Group) error {
	if len(reqs) > 2 {
		return fmt.Errorf("%w: got %d", ErrTooManyAlignments, len(reqs))
	}
	for _, r := range reqs {
		if _, ok := dirs[r.Direction]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDirection, r.Direction)
		}
	}

	orient := g.Orientation()
	tracked := make(map[string]mgl64.Vec3, len(dirs))
	for name, d := range dirs {
		tracked[name] = orient.Rotate(d)
	}

	var consumed [3]bool
	for _, r := range reqs {
		dir := tracked[r.Direction]
		for i, c := range consumed {
			if c {
				dir[i] = 0
			}
		}
		if dir.Len() < degenerateLength {
			continue
		}

		q := quatBetween(dir.Normalize(), r.Axis.Vector(), consumed)
		for name, d := range tracked {
			tracked[name] = q.Rotate(d)
		}
		g.ApplyRotation(q)
		consumed[r.Axis.component()] = true
	}
	return nil
}

// antiparallelEpsilon is the 1+cos below which from and to are treated as
// exactly opposite.
const antiparallelEpsilon = 1e-12

// quatBetween returns the minimal rotation taking unit vector from onto
// unit vector to. For opposite vectors it turns half way around a pinned
// world axis when one is perpendicular to from, so earlier alignments
// stay put; otherwise around the world axis least aligned with from.
func quatBetween(from, to mgl64.Vec3, pinned [3]bool) mgl64.Quat {
	w := 1 + from.Dot(to)
	if w >= antiparallelEpsilon {
		return mgl64.Quat{W: w, V: from.Cross(to)}.Normalize()
	}
	return mgl64.QuatRotate(math.Pi, halfTurnAxis(from, pinned))
}

func halfTurnAxis(from mgl64.Vec3, pinned [3]bool) mgl64.Vec3 {
	for i, p := range pinned {
		if !p {
			continue
		}
		var e mgl64.Vec3
		e[i] = 1
		if math.Abs(from.Dot(e)) < degenerateLength {
			return e
		}
	}

	least := 0
	for i := 1; i < 3; i++ {
		if math.Abs(from[i]) < math.Abs(from[least]) {
			least = i
		}
	}
	var e mgl64.Vec3
	e[least] = 1
	return from.Cross(e).Normalize()
}
