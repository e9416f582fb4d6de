package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Projector is the camera surface Fit needs.
type Projector interface {
	SetZoom(zoom float64)
	ProjectToScreen(p mgl64.Vec3) mgl64.Vec2
	Size() (w, h float64)
}

// Fit sets the zoom so every point, padded by margin world units, lies
// inside the canvas, and returns it. Points are in world space. An axis
// whose extent is zero imposes no constraint; with no constraint at all
// the zoom stays 1.
func Fit(points []mgl64.Vec3, margin float64, cam Projector) float64 {
	cam.SetZoom(1)
	if len(points) == 0 {
		return 1
	}

	w, h := cam.Size()
	cx, cy := w/2, h/2

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		s := cam.ProjectToScreen(p)
		minX = math.Min(minX, s[0])
		maxX = math.Max(maxX, s[0])
		minY = math.Min(minY, s[1])
		maxY = math.Max(maxY, s[1])
	}

	origin := cam.ProjectToScreen(mgl64.Vec3{})
	foot := cam.ProjectToScreen(mgl64.Vec3{margin, margin, 0})
	mx := math.Abs(foot[0] - origin[0])
	my := math.Abs(foot[1] - origin[1])
	minX -= mx
	maxX += mx
	minY -= my
	maxY += my

	zoom := math.Min(
		math.Min(ratio(cx, maxX), ratio(cx, minX)),
		math.Min(ratio(cy, minY), ratio(cy, maxY)),
	)
	if math.IsInf(zoom, 1) {
		zoom = 1
	}
	cam.SetZoom(zoom)
	return zoom
}

// ratio is center/|edge-center|, +Inf when the edge sits on the center.
func ratio(center, edge float64) float64 {
	d := math.Abs(edge - center)
	if d == 0 {
		return math.Inf(1)
	}
	return center / d
}
