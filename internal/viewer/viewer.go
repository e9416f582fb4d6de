// Package viewer is the shared viewer core: it loads structure and zone
// documents into a scene and exposes the align, rotate, center, fit and
// wrap commands. A Viewer is not safe for concurrent use; nothing is drawn
// until Render is called.
package viewer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/latticeview/internal/engine/scene"
	"github.com/Faultbox/latticeview/internal/logger"
	"github.com/Faultbox/latticeview/internal/view"
	"github.com/Faultbox/latticeview/pkg/formats"
	"github.com/Faultbox/latticeview/pkg/lattice"
)

// Viewer errors.
var (
	ErrNotLoaded          = errors.New("viewer has no document loaded")
	ErrWrapUnsupported    = errors.New("wrap is not supported for this document")
	ErrUnknownFitTarget   = errors.New("unknown fit target")
	ErrUnsupportedContent = errors.New("document has no structure or zone")
)

// FitTarget selects the points Fit keeps on screen. It is one of FitFull,
// FitIndices or FitPoints.
type FitTarget interface {
	fitTarget()
}

// FitFull fits the variant's corner points.
type FitFull struct{}

// FitIndices fits the listed points of the variant.
type FitIndices []int

// FitPoints fits explicit world-space points.
type FitPoints []mgl64.Vec3

func (FitFull) fitTarget()    {}
func (FitIndices) fitTarget() {}
func (FitPoints) fitTarget()  {}

// ParseFitTarget accepts "full" or a comma-separated index list.
func ParseFitTarget(s string) (FitTarget, error) {
	if strings.EqualFold(strings.TrimSpace(s), "full") {
		return FitFull{}, nil
	}
	var idx FitIndices
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFitTarget, s)
		}
		idx = append(idx, n)
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFitTarget, s)
	}
	return idx, nil
}

// Viewer drives one scene.
type Viewer struct {
	scene  *scene.Scene
	styles Styles
	log    *zap.Logger

	variant Variant
	group   *scene.Group
}

// New creates an unloaded viewer on s.
func New(s *scene.Scene, styles Styles) *Viewer {
	return &Viewer{
		scene:  s,
		styles: styles,
		log:    logger.Named("viewer"),
	}
}

// SetLogger replaces the viewer's logger.
func (v *Viewer) SetLogger(l *zap.Logger) {
	v.log = l
}

// Loaded reports whether a document has been loaded.
func (v *Viewer) Loaded() bool {
	return v.variant != nil
}

// Scene returns the viewer's scene.
func (v *Viewer) Scene() *scene.Scene {
	return v.scene
}

// Group returns the group holding the viewer's roots, nil before Load.
func (v *Viewer) Group() *scene.Group {
	return v.group
}

// Variant returns the loaded variant, nil before Load.
func (v *Viewer) Variant() Variant {
	return v.variant
}

// Load replaces the scene with a document. On failure it logs the reason,
// returns false and leaves the previous document on screen. A successful
// load discards all orientation, translation and zoom state.
func (v *Viewer) Load(doc *formats.Document) bool {
	variant, err := newVariant(doc)
	if err != nil {
		v.log.Warn("load failed", zap.Error(err))
		return false
	}

	v.scene.Clear()
	v.scene.SetZoom(1)
	roots := variant.SetupScenes(v.scene, v.styles)
	variant.SetupLights(v.scene)

	v.variant = variant
	v.group = scene.NewGroup(v.scene, roots...)

	v.log.Debug("document loaded",
		zap.Stringer("kind", doc.Kind),
		zap.Int("points", len(variant.Points())),
		zap.Int("roots", len(roots)))
	return true
}

// LoadFile decodes a document from disk and loads it.
func (v *Viewer) LoadFile(path string) bool {
	doc, err := formats.LoadFile(path)
	if err != nil {
		v.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return v.Load(doc)
}

func newVariant(doc *formats.Document) (Variant, error) {
	if doc == nil {
		return nil, ErrUnsupportedContent
	}
	switch {
	case doc.Structure != nil:
		return NewStructure(doc.Structure)
	case doc.Zone != nil:
		return NewZone(doc.Zone)
	default:
		return nil, ErrUnsupportedContent
	}
}

// Align points named directions along screen axes.
func (v *Viewer) Align(reqs []view.Alignment) error {
	if !v.Loaded() {
		return ErrNotLoaded
	}
	return view.Align(reqs, v.variant.Directions(), v.group)
}

// Rotate applies world-space rotations in order.
func (v *Viewer) Rotate(rots []view.Rotation) error {
	if !v.Loaded() {
		return ErrNotLoaded
	}
	return view.Rotate(rots, v.group)
}

// Center moves the target's focal point to the origin.
func (v *Viewer) Center(target view.CenterTarget) error {
	if !v.Loaded() {
		return ErrNotLoaded
	}
	return view.Center(target, v.variant, v.group)
}

// Fit sets the zoom so the target stays on screen with margin world units
// of padding, and returns the zoom.
func (v *Viewer) Fit(target FitTarget, margin float64) (float64, error) {
	if !v.Loaded() {
		return 0, ErrNotLoaded
	}

	var points []mgl64.Vec3
	switch t := target.(type) {
	case FitFull:
		points = v.group.ToWorldAll(v.variant.CornerPoints())
	case FitIndices:
		pts, err := view.IndexedPoints(t, v.variant, v.group)
		if err != nil {
			return 0, err
		}
		points = pts
	case FitPoints:
		if len(t) == 0 {
			return 0, view.ErrEmptyTarget
		}
		points = t
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnknownFitTarget, target)
	}
	return view.Fit(points, margin, v.scene), nil
}

// Wrap shows or hides periodic images. Turning wrap off restores the
// loaded positions exactly.
func (v *Viewer) Wrap(enable bool) error {
	if !v.Loaded() {
		return ErrNotLoaded
	}
	w, ok := v.variant.(wrapper)
	if !ok {
		return ErrWrapUnsupported
	}
	return w.Wrap(enable, v.styles)
}

// Cell returns the lattice basis of the loaded document.
func (v *Viewer) Cell() (lattice.Basis, error) {
	if !v.Loaded() {
		return lattice.Basis{}, ErrNotLoaded
	}
	b, ok := v.variant.Basis()
	if !ok {
		return lattice.Basis{}, view.ErrNoBasis
	}
	return b, nil
}

// Render draws the scene. Commands never redraw on their own.
func (v *Viewer) Render() error {
	if !v.Loaded() {
		return ErrNotLoaded
	}
	return v.scene.Render()
}

