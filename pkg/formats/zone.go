package formats

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/pkg/lattice"
)

// Zone is a Brillouin zone document. Segments are Cartesian polylines of
// the zone edges; k-points are fractional in the reciprocal basis.
type Zone struct {
	Basis    [3][3]float64  `json:"basis"`
	Segments [][][3]float64 `json:"segments"`
	KPoints  []KPoint       `json:"kpoints,omitempty"`
}

// KPoint is a labelled high-symmetry point, encoded as [label, [x,y,z]].
type KPoint struct {
	Label string
	Point [3]float64
}

// UnmarshalJSON decodes the [label, [x,y,z]] pair form.
func (k *KPoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("kpoint must be [label, point], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &k.Label); err != nil {
		return fmt.Errorf("kpoint label: %w", err)
	}
	if err := json.Unmarshal(pair[1], &k.Point); err != nil {
		return fmt.Errorf("kpoint %q point: %w", k.Label, err)
	}
	return nil
}

// MarshalJSON encodes the pair form.
func (k KPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{k.Label, k.Point})
}

// ReciprocalBasis returns the zone basis.
func (z *Zone) ReciprocalBasis() lattice.Basis {
	return lattice.FromRows(z.Basis)
}

// Polylines returns the segments as vectors.
func (z *Zone) Polylines() [][]mgl64.Vec3 {
	out := make([][]mgl64.Vec3, len(z.Segments))
	for i, seg := range z.Segments {
		line := make([]mgl64.Vec3, len(seg))
		for j, p := range seg {
			line[j] = mgl64.Vec3{p[0], p[1], p[2]}
		}
		out[i] = line
	}
	return out
}
