// Package lighting provides the lights used to shade scene primitives.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SunDirection converts longitude/latitude angles in degrees to a light
// direction vector. Longitude rotates around the Y axis, latitude is the
// elevation from the XZ plane. The result points towards the light.
func SunDirection(longitude, latitude float64) mgl64.Vec3 {
	lonRad := mgl64.DegToRad(longitude)
	latRad := mgl64.DegToRad(latitude)

	return mgl64.Vec3{
		math.Cos(latRad) * math.Sin(lonRad),
		math.Sin(latRad),
		math.Cos(latRad) * math.Cos(lonRad),
	}
}

// Directional is a light at infinity plus a flat ambient term.
type Directional struct {
	Direction mgl64.Vec3 // towards the light, camera space
	Intensity float64
	Ambient   float64
}

// Headlight returns a light shining along the view direction, slightly
// raised and to the left, as used for both structure and zone scenes.
func Headlight() Directional {
	return Directional{
		Direction: SunDirection(-30, 35),
		Intensity: 0.75,
		Ambient:   0.35,
	}
}

// Shade returns the brightness factor for a surface normal, clamped to [0, 1].
func (l Directional) Shade(normal mgl64.Vec3) float64 {
	d := l.Direction
	if d.Len() == 0 {
		return clamp01(l.Ambient + l.Intensity)
	}
	n := normal
	if n.Len() == 0 {
		return clamp01(l.Ambient)
	}
	diffuse := math.Max(0, n.Normalize().Dot(d.Normalize()))
	return clamp01(l.Ambient + l.Intensity*diffuse)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
