package viewer

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/latticeview/internal/engine/scene"
	"github.com/Faultbox/latticeview/internal/view"
	"github.com/Faultbox/latticeview/pkg/formats"
)

const naclDoc = `{
  "scaledPositions": [
    [0, 0, 0], [0, 0.5, 0.5], [0.5, 0, 0.5], [0.5, 0.5, 0],
    [0.5, 0, 0], [0, 0.5, 0], [0, 0, 0.5], [0.5, 0.5, 0.5]
  ],
  "species": ["Na", "Na", "Na", "Na", "Cl", "Cl", "Cl", "Cl"],
  "cell": [[5.6402, 0, 0], [0, 5.6402, 0], [0, 0, 5.6402]],
  "pbc": [true, true, true],
  "wrap": {"type": "boundary"}
}`

const zoneDoc = `{
  "basis": [[1, 0, 0], [0, 1, 0], [0, 0, 1]],
  "segments": [[[-0.5, -0.5, 0], [0.5, -0.5, 0], [0.5, 0.5, 0], [-0.5, 0.5, 0], [-0.5, -0.5, 0]]],
  "kpoints": [["G", [0, 0, 0]], ["X", [0.5, 0, 0]]]
}`

func decode(t *testing.T, doc string) *formats.Document {
	t.Helper()
	d, err := formats.Decode([]byte(doc), ".json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return d
}

func newViewer() *Viewer {
	return New(scene.New(scene.Config{Width: 800, Height: 600}, nil), DefaultStyles())
}

func TestCommandsBeforeLoad(t *testing.T) {
	v := newViewer()

	if err := v.Align([]view.Alignment{{Axis: view.AxisUp, Direction: "c"}}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Align: expected ErrNotLoaded, got %v", err)
	}
	if err := v.Rotate(nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Rotate: expected ErrNotLoaded, got %v", err)
	}
	if err := v.Center(view.CenterCOP{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Center: expected ErrNotLoaded, got %v", err)
	}
	if _, err := v.Fit(FitFull{}, 0); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Fit: expected ErrNotLoaded, got %v", err)
	}
	if err := v.Wrap(true); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Wrap: expected ErrNotLoaded, got %v", err)
	}
	if _, err := v.Cell(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Cell: expected ErrNotLoaded, got %v", err)
	}
	if err := v.Render(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Render: expected ErrNotLoaded, got %v", err)
	}
}

func TestLoadStructure(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, naclDoc)) {
		t.Fatal("Load failed")
	}

	s, ok := v.Variant().(*Structure)
	if !ok {
		t.Fatalf("expected *Structure, got %T", v.Variant())
	}
	// corner 7, three edge atoms 3 each, three face atoms 1 each
	if s.NumAtoms() != 8+7+9+3 {
		t.Errorf("expected 27 atoms with boundary images, got %d", s.NumAtoms())
	}
	if !s.Wrapped() {
		t.Error("boundary policy should start wrapped")
	}

	sc := v.Scene()
	if sc.Root(RootStructure) == nil || sc.Root(RootInfo) == nil {
		t.Error("expected structure and info roots")
	}
	if len(v.Group().Roots()) != 2 {
		t.Errorf("expected 2 grouped roots, got %d", len(v.Group().Roots()))
	}
	if n := len(sc.Root(RootStructure).Spheres); n != 27 {
		t.Errorf("expected 27 spheres, got %d", n)
	}

	b, err := v.Cell()
	if err != nil {
		t.Fatalf("Cell: %v", err)
	}
	if math.Abs(b.Lengths()[0]-5.6402) > 1e-12 {
		t.Errorf("a = %f, want 5.6402", b.Lengths()[0])
	}
}

func TestNaClCenterFitMargin(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, naclDoc)) {
		t.Fatal("Load failed")
	}
	if err := v.Center(view.CenterCOC{}); err != nil {
		t.Fatalf("Center: %v", err)
	}
	want := mgl64.Vec3{-2.8201, -2.8201, -2.8201}
	if !v.Group().Translation().ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("translation = %v, want %v", v.Group().Translation(), want)
	}

	zoom0, err := v.Fit(FitFull{}, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	zoomMargin, err := v.Fit(FitFull{}, 0.5)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if zoomMargin >= zoom0 {
		t.Errorf("expected margin zoom %f < %f", zoomMargin, zoom0)
	}
	if math.Abs(zoom0-300/2.8201) > 1e-6 {
		t.Errorf("expected zoom %f, got %f", 300/2.8201, zoom0)
	}
}

func TestWrapRestoresOriginal(t *testing.T) {
	doc := decode(t, `{
		"positions": [[-0.5, 0, 0], [1, 1, 1], [4.5, 2, -1]],
		"species": ["C", "O", "H"],
		"cell": [[4, 0, 0], [0, 4, 0], [0, 0, 4]]
	}`)
	v := newViewer()
	if !v.Load(doc) {
		t.Fatal("Load failed")
	}
	s := v.Variant().(*Structure)
	before := append([]mgl64.Vec3(nil), s.Points()...)

	if err := v.Wrap(true); err != nil {
		t.Fatalf("Wrap(true): %v", err)
	}
	if !s.Points()[0].ApproxEqualThreshold(mgl64.Vec3{3.5, 0, 0}, 1e-9) {
		t.Errorf("expected first atom wrapped to (3.5,0,0), got %v", s.Points()[0])
	}
	if err := v.Wrap(false); err != nil {
		t.Fatalf("Wrap(false): %v", err)
	}

	after := s.Points()
	if len(after) != len(before) {
		t.Fatalf("expected %d atoms after unwrap, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("atom %d: %v, want exactly %v", i, after[i], before[i])
		}
	}
}

func TestWrapWithoutCell(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, `{"positions": [[0, 0, 0]], "species": ["H"]}`)) {
		t.Fatal("Load failed")
	}
	if err := v.Wrap(true); !errors.Is(err, view.ErrNoBasis) {
		t.Errorf("expected ErrNoBasis, got %v", err)
	}
	if _, err := v.Cell(); !errors.Is(err, view.ErrNoBasis) {
		t.Errorf("expected ErrNoBasis from Cell, got %v", err)
	}
	if err := v.Align([]view.Alignment{{Axis: view.AxisUp, Direction: "c"}}); !errors.Is(err, view.ErrUnknownDirection) {
		t.Errorf("expected ErrUnknownDirection without a cell, got %v", err)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, naclDoc)) {
		t.Fatal("Load failed")
	}
	if err := v.Rotate([]view.Rotation{{Axis: mgl64.Vec3{0, 1, 0}, Degrees: 30}}); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	variant := v.Variant()
	orientation := v.Group().Orientation()

	bad := &formats.Document{Kind: formats.KindStructure, Structure: &formats.Structure{}}
	if v.Load(bad) {
		t.Fatal("expected Load to fail")
	}
	if v.Load(nil) {
		t.Fatal("expected Load(nil) to fail")
	}
	if v.Variant() != variant {
		t.Error("failed load replaced the variant")
	}
	if v.Group().Orientation() != orientation {
		t.Error("failed load changed the orientation")
	}
	if len(v.Scene().Roots()) != 2 {
		t.Errorf("failed load changed the roots: %d", len(v.Scene().Roots()))
	}
}

func TestLoadResetsState(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, naclDoc)) {
		t.Fatal("Load failed")
	}
	_ = v.Rotate([]view.Rotation{{Axis: mgl64.Vec3{1, 0, 0}, Degrees: 45}})
	_ = v.Center(view.CenterCOP{})
	_, _ = v.Fit(FitFull{}, 0)

	if !v.Load(decode(t, zoneDoc)) {
		t.Fatal("Load failed")
	}
	if v.Group().Orientation() != mgl64.QuatIdent() {
		t.Error("load should reset orientation")
	}
	if v.Group().Translation() != (mgl64.Vec3{}) {
		t.Error("load should reset translation")
	}
	if v.Scene().Zoom() != 1 {
		t.Errorf("load should reset zoom, got %f", v.Scene().Zoom())
	}
	if v.Scene().Root(RootStructure) != nil {
		t.Error("structure root should be gone after loading a zone")
	}
}

func TestAlignKeepsRootsTogether(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, naclDoc)) {
		t.Fatal("Load failed")
	}
	err := v.Align([]view.Alignment{{Axis: view.AxisUp, Direction: "c"}, {Axis: view.AxisRight, Direction: "b"}})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	roots := v.Group().Roots()
	if !roots[0].Orientation().ApproxEqualThreshold(roots[1].Orientation(), 1e-12) {
		t.Error("roots diverged after Align")
	}
	c := v.Group().Orientation().Rotate(mgl64.Vec3{0, 0, 1})
	if math.Abs(c[1]-1) > 1e-9 {
		t.Errorf("c should point up, got %v", c)
	}
}

func TestFitTargets(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, `{"positions": [[-10, 0, 0], [10, 0, 0], [0, 5, 0]], "species": ["He", "He", "He"]}`)) {
		t.Fatal("Load failed")
	}

	zoom, err := v.Fit(FitIndices{0, 1}, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(zoom-40) > 1e-6 {
		t.Errorf("expected zoom 40, got %f", zoom)
	}

	zoom, err = v.Fit(FitPoints{{0, 3, 0}}, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(zoom-100) > 1e-6 {
		t.Errorf("expected zoom 100, got %f", zoom)
	}

	if _, err := v.Fit(FitIndices{7}, 0); !errors.Is(err, view.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := v.Fit(FitPoints{}, 0); !errors.Is(err, view.ErrEmptyTarget) {
		t.Errorf("expected ErrEmptyTarget, got %v", err)
	}
}

func TestZoneVariant(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, zoneDoc)) {
		t.Fatal("Load failed")
	}
	z, ok := v.Variant().(*Zone)
	if !ok {
		t.Fatalf("expected *Zone, got %T", v.Variant())
	}
	if len(z.KPoints()) != 2 || !z.KPoints()[1].Pos.ApproxEqualThreshold(mgl64.Vec3{0.5, 0, 0}, 1e-12) {
		t.Errorf("unexpected k-points %+v", z.KPoints())
	}
	if _, ok := z.Directions()["segments"]; !ok {
		t.Error("zone should expose the segments direction")
	}
	if n := len(v.Scene().Root(RootZone).Lines); n != 4 {
		t.Errorf("expected 4 zone edges, got %d", n)
	}
	if err := v.Wrap(true); !errors.Is(err, ErrWrapUnsupported) {
		t.Errorf("expected ErrWrapUnsupported, got %v", err)
	}
	if err := v.Align([]view.Alignment{{Axis: view.AxisFront, Direction: "a"}}); err != nil {
		t.Errorf("Align on zone: %v", err)
	}
}

func TestRenderWithoutRenderer(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, zoneDoc)) {
		t.Fatal("Load failed")
	}
	if err := v.Render(); !errors.Is(err, scene.ErrNoRenderer) {
		t.Errorf("expected ErrNoRenderer, got %v", err)
	}
}

func TestParseFitTarget(t *testing.T) {
	if got, err := ParseFitTarget("Full"); err != nil || got != (FitFull{}) {
		t.Errorf("ParseFitTarget(Full) = %v, %v", got, err)
	}
	got, err := ParseFitTarget("1, 4")
	if err != nil {
		t.Fatalf("ParseFitTarget: %v", err)
	}
	if idx, ok := got.(FitIndices); !ok || len(idx) != 2 || idx[1] != 4 {
		t.Errorf("expected indices [1 4], got %v", got)
	}
	for _, bad := range []string{"", "half", "1,x"} {
		if _, err := ParseFitTarget(bad); !errors.Is(err, ErrUnknownFitTarget) {
			t.Errorf("ParseFitTarget(%q): expected ErrUnknownFitTarget, got %v", bad, err)
		}
	}
}


const slabDoc = `{
  "positions": [[0, 0, 0], [0, 1.420267, 0.5], [3.69, 0.71, -0.3]],
  "species": ["C", "C", "C"],
  "cell": [[2.46, 0, 0], [-1.23, 2.1304, 0], [0, 0, 0]],
  "pbc": [true, true, false],
  "wrap": {"type": "boundary"}
}`

func TestWrapSlabWithCollapsedAxis(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, slabDoc)) {
		t.Fatal("Load failed")
	}
	s := v.Variant().(*Structure)
	if !s.Wrapped() {
		t.Fatal("boundary policy should start wrapped on a slab")
	}

	if err := v.Wrap(false); err != nil {
		t.Fatalf("Wrap(false): %v", err)
	}
	if s.NumAtoms() != 3 {
		t.Fatalf("expected 3 atoms unwrapped, got %d", s.NumAtoms())
	}
	if err := v.Wrap(true); err != nil {
		t.Fatalf("Wrap(true) on a slab: %v", err)
	}

	// origin atom sits on the a and b faces: 3 in-plane images, none along c
	if s.NumAtoms() != 6 {
		t.Errorf("expected 6 atoms after wrap, got %d", s.NumAtoms())
	}
	if got := s.Points()[2]; !got.ApproxEqualThreshold(mgl64.Vec3{1.23, 0.71, -0.3}, 1e-9) {
		t.Errorf("expected third atom wrapped to (1.23,0.71,-0.3), got %v", got)
	}
	if got := s.Points()[1]; math.Abs(got[2]-0.5) > 1e-12 {
		t.Errorf("out-of-plane offset changed: z = %f", got[2])
	}
	for i, p := range s.Points() {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsNaN(p[2]) {
			t.Errorf("atom %d is NaN", i)
		}
	}
}

func TestWrapCoplanarCellIsNoop(t *testing.T) {
	v := newViewer()
	if !v.Load(decode(t, `{
		"positions": [[-0.5, 0, 0]],
		"species": ["H"],
		"cell": [[1, 0, 0], [0, 1, 0], [1, 1, 0]]
	}`)) {
		t.Fatal("Load failed")
	}
	if err := v.Wrap(true); err != nil {
		t.Errorf("expected no error for a degenerate cell, got %v", err)
	}
	s := v.Variant().(*Structure)
	if s.Wrapped() || s.Points()[0] != (mgl64.Vec3{-0.5, 0, 0}) {
		t.Errorf("degenerate cell should leave positions alone, got %v", s.Points())
	}
}
