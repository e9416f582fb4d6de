package formats

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/pkg/elements"
	"github.com/Faultbox/latticeview/pkg/lattice"
)

// Structure document errors.
var (
	ErrMissingPositions = errors.New("structure needs positions or scaledPositions")
	ErrBothPositions    = errors.New("structure has both positions and scaledPositions")
	ErrMissingSpecies   = errors.New("structure needs species or atomicNumbers")
	ErrLengthMismatch   = errors.New("positions and species differ in length")
	ErrScaledNeedsCell  = errors.New("scaledPositions require a cell")
	ErrBondOutOfRange   = errors.New("bond index out of range")
)

// Structure is a crystal structure document.
type Structure struct {
	Positions       [][3]float64   `json:"positions,omitempty"`
	ScaledPositions [][3]float64   `json:"scaledPositions,omitempty"`
	Species         []string       `json:"species,omitempty"`
	AtomicNumbers   []int          `json:"atomicNumbers,omitempty"`
	Cell            *[3][3]float64 `json:"cell,omitempty"`
	PBC             *[3]bool       `json:"pbc,omitempty"`
	Bonds           [][2]int       `json:"bonds,omitempty"`
	Wrap            *WrapSpec      `json:"wrap,omitempty"`
}

// WrapSpec is the document form of a wrap policy: type is "none",
// "boundary" or a [a,b,c] repeat triple.
type WrapSpec struct {
	Type      WrapType `json:"type"`
	Tolerance float64  `json:"tolerance,omitempty"`
}

// WrapType holds either a policy name or repeat multipliers.
type WrapType struct {
	Name   string
	Repeat *[3]int
}

// UnmarshalJSON accepts a string or a 3-integer array.
func (w *WrapType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		w.Name = name
		w.Repeat = nil
		return nil
	}
	var n [3]int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("wrap type must be a name or [a,b,c]: %w", err)
	}
	w.Name = ""
	w.Repeat = &n
	return nil
}

// MarshalJSON writes the name or the repeat triple.
func (w WrapType) MarshalJSON() ([]byte, error) {
	if w.Repeat != nil {
		return json.Marshal(w.Repeat)
	}
	return json.Marshal(w.Name)
}

// Policy converts the spec into a lattice wrap policy.
func (w *WrapSpec) Policy() (lattice.WrapPolicy, error) {
	if w == nil {
		return lattice.NoWrap(), nil
	}
	var policy lattice.WrapPolicy
	switch {
	case w.Type.Repeat != nil:
		p, err := lattice.RepeatWrap(*w.Type.Repeat)
		if err != nil {
			return lattice.WrapPolicy{}, err
		}
		policy = p
	case w.Type.Name == "none" || w.Type.Name == "":
		policy = lattice.NoWrap()
	case w.Type.Name == "boundary":
		policy = lattice.BoundaryWrap(w.Tolerance)
	default:
		return lattice.WrapPolicy{}, fmt.Errorf("unknown wrap type %q", w.Type.Name)
	}
	if w.Tolerance > 0 {
		policy.Tolerance = w.Tolerance
	}
	return policy, nil
}

// Validate checks the cross-field rules the schema cannot express.
func (s *Structure) Validate() error {
	hasPos := s.Positions != nil
	hasScaled := s.ScaledPositions != nil
	switch {
	case !hasPos && !hasScaled:
		return ErrMissingPositions
	case hasPos && hasScaled:
		return ErrBothPositions
	case hasScaled && s.Cell == nil:
		return ErrScaledNeedsCell
	}

	if s.Species == nil && s.AtomicNumbers == nil {
		return ErrMissingSpecies
	}
	n := s.NumAtoms()
	if s.Species != nil && len(s.Species) != n {
		return fmt.Errorf("%w: %d positions, %d species", ErrLengthMismatch, n, len(s.Species))
	}
	if s.AtomicNumbers != nil && len(s.AtomicNumbers) != n {
		return fmt.Errorf("%w: %d positions, %d atomic numbers", ErrLengthMismatch, n, len(s.AtomicNumbers))
	}

	for _, b := range s.Bonds {
		if b[0] < 0 || b[0] >= n || b[1] < 0 || b[1] >= n {
			return fmt.Errorf("%w: [%d %d] with %d atoms", ErrBondOutOfRange, b[0], b[1], n)
		}
	}
	if s.Wrap != nil {
		if _, err := s.Wrap.Policy(); err != nil {
			return err
		}
	}
	return nil
}

// NumAtoms returns the number of atoms in the document.
func (s *Structure) NumAtoms() int {
	if s.Positions != nil {
		return len(s.Positions)
	}
	return len(s.ScaledPositions)
}

// Fractional reports whether positions are given in fractional coordinates.
func (s *Structure) Fractional() bool {
	return s.ScaledPositions != nil
}

// Coordinates returns the positions as given, Cartesian or fractional.
func (s *Structure) Coordinates() []mgl64.Vec3 {
	src := s.Positions
	if s.ScaledPositions != nil {
		src = s.ScaledPositions
	}
	out := make([]mgl64.Vec3, len(src))
	for i, p := range src {
		out[i] = mgl64.Vec3{p[0], p[1], p[2]}
	}
	return out
}

// Labels returns species IDs. Atomic numbers win over symbols; unknown
// symbols map to elements.Unknown.
func (s *Structure) Labels() []int {
	if s.AtomicNumbers != nil {
		return append([]int(nil), s.AtomicNumbers...)
	}
	labels := make([]int, len(s.Species))
	for i, sym := range s.Species {
		labels[i], _ = elements.AtomicNumber(sym)
	}
	return labels
}

// Basis returns the lattice basis, or a zero Basis without a cell.
func (s *Structure) Basis() lattice.Basis {
	if s.Cell == nil {
		return lattice.Basis{}
	}
	return lattice.FromRows(*s.Cell)
}

// Periodicity returns the pbc flags. Defaults to fully periodic when a
// cell is present and non-periodic otherwise.
func (s *Structure) Periodicity() lattice.PBC {
	if s.PBC != nil {
		return lattice.PBC(*s.PBC)
	}
	if s.Cell != nil {
		return lattice.PBC{true, true, true}
	}
	return lattice.PBC{}
}

// WrapPolicy returns the document's wrap policy, none when absent.
func (s *Structure) WrapPolicy() lattice.WrapPolicy {
	p, err := s.Wrap.Policy()
	if err != nil {
		return lattice.NoWrap()
	}
	return p
}
