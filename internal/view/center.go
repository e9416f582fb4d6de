package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/scene"
)

// CenterTarget selects the focal point of Center. It is one of
// CenterCOP, CenterCOC, CenterIndices or CenterPoints.
type CenterTarget interface {
	centerTarget()
}

// CenterCOP is the mean of all point world positions.
type CenterCOP struct{}

// CenterCOC is the cell centroid in world space.
type CenterCOC struct{}

// CenterIndices is the mean world position of the listed points.
type CenterIndices []int

// CenterPoints is the mean of explicit world-space points.
type CenterPoints []mgl64.Vec3

func (CenterCOP) centerTarget()     {}
func (CenterCOC) centerTarget()     {}
func (CenterIndices) centerTarget() {}
func (CenterPoints) centerTarget()  {}

// ParseCenterTarget accepts "COP", "COC" or a comma-separated index list.
func ParseCenterTarget(s string) (CenterTarget, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COP":
		return CenterCOP{}, nil
	case "COC":
		return CenterCOC{}, nil
	}
	idx, err := parseIndices(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
	}
	return CenterIndices(idx), nil
}

func parseIndices(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, ErrEmptyTarget
	}
	return out, nil
}

// PointSource supplies the local-space geometry a viewer exposes to
// Center and Fit.
type PointSource interface {
	// Points returns the local-space positions addressable by index.
	Points() []mgl64.Vec3
	// CellCentroid returns the local-space cell centroid, false when
	// there is no basis.
	CellCentroid() (mgl64.Vec3, bool)
}

// FocalPoint resolves a target to a world-space point.
func FocalPoint(target CenterTarget, src PointSource, g *scene.Group) (mgl64.Vec3, error) {
	switch t := target.(type) {
	case CenterCOP:
		pts := src.Points()
		if len(pts) == 0 {
			return mgl64.Vec3{}, ErrEmptyTarget
		}
		return mean(g.ToWorldAll(pts)), nil
	case CenterCOC:
		c, ok := src.CellCentroid()
		if !ok {
			return mgl64.Vec3{}, ErrNoBasis
		}
		return g.ToWorld(c), nil
	case CenterIndices:
		world, err := IndexedPoints(t, src, g)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		return mean(world), nil
	case CenterPoints:
		if len(t) == 0 {
			return mgl64.Vec3{}, ErrEmptyTarget
		}
		return mean(t), nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: %T", ErrUnknownTarget, target)
	}
}

// IndexedPoints returns the world positions of the listed points.
func IndexedPoints(indices []int, src PointSource, g *scene.Group) ([]mgl64.Vec3, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyTarget
	}
	pts := src.Points()
	out := make([]mgl64.Vec3, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(pts) {
			return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, idx, len(pts))
		}
		out[i] = g.ToWorld(pts[idx])
	}
	return out, nil
}

// Center translates the group so the target's focal point lands on the
// world origin.
func Center(target CenterTarget, src PointSource, g *scene.Group) error {
	c, err := FocalPoint(target, src, g)
	if err != nil {
		return err
	}
	g.Translate(c.Mul(-1))
	return nil
}
