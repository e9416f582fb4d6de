package scene

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type stubRenderer struct {
	calls int
}

func (r *stubRenderer) Render(s *Scene) (image.Image, error) {
	r.calls++
	return image.NewNRGBA(image.Rect(0, 0, s.Config().Width, s.Config().Height)), nil
}

func TestCreateSceneRoot(t *testing.T) {
	s := New(DefaultConfig(), nil)
	a := s.CreateSceneRoot("structure")
	s.CreateSceneRoot("info")

	if len(s.Roots()) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(s.Roots()))
	}
	if s.Root("structure") != a {
		t.Error("Root lookup returned wrong root")
	}
	if s.Root("missing") != nil {
		t.Error("expected nil for unknown root")
	}
	if a.Orientation() != mgl64.QuatIdent() {
		t.Error("new root should have identity orientation")
	}
}

func TestRenderWithoutRenderer(t *testing.T) {
	s := New(DefaultConfig(), nil)
	if err := s.Render(); !errors.Is(err, ErrNoRenderer) {
		t.Errorf("expected ErrNoRenderer, got %v", err)
	}
}

func TestRenderKeepsFrame(t *testing.T) {
	r := &stubRenderer{}
	s := New(Config{Width: 32, Height: 16}, r)
	if err := s.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := s.CaptureImage()
	if img == nil || img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Errorf("unexpected frame %v", img)
	}
	if r.calls != 1 {
		t.Errorf("expected 1 render call, got %d", r.calls)
	}
}

func TestNewFallsBackToDefaultSize(t *testing.T) {
	s := New(Config{}, nil)
	w, h := s.Size()
	if w != 800 || h != 600 {
		t.Errorf("expected default 800x600, got %vx%v", w, h)
	}
}

func TestRootToWorld(t *testing.T) {
	s := New(DefaultConfig(), nil)
	r := s.CreateSceneRoot("structure")
	s.SetOrientation(r, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	s.SetPosition(r, mgl64.Vec3{1, 2, 3})

	got := r.ToWorld(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{1, 3, 3}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("ToWorld = %v, want %v", got, want)
	}
	m := r.WorldMatrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	if !m.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("WorldMatrix maps to %v, want %v", m, want)
	}
}

func TestGroupMovesRootsTogether(t *testing.T) {
	s := New(DefaultConfig(), nil)
	a := s.CreateSceneRoot("structure")
	b := s.CreateSceneRoot("info")
	g := NewGroup(s, a, b)

	g.ApplyRotation(mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0}))
	g.ApplyRotation(mgl64.QuatRotate(1.1, mgl64.Vec3{0, 1, 0}))
	g.Translate(mgl64.Vec3{1, 0, 0})
	g.Translate(mgl64.Vec3{0, -2, 0})

	if !a.Orientation().ApproxEqualThreshold(b.Orientation(), 1e-12) {
		t.Errorf("orientations diverged: %v vs %v", a.Orientation(), b.Orientation())
	}
	if a.Position() != b.Position() {
		t.Errorf("positions diverged: %v vs %v", a.Position(), b.Position())
	}
	if g.Translation() != (mgl64.Vec3{1, -2, 0}) {
		t.Errorf("expected accumulated translation (1,-2,0), got %v", g.Translation())
	}

	g.Reset()
	if a.Orientation() != mgl64.QuatIdent() || b.Position() != (mgl64.Vec3{}) {
		t.Error("Reset should restore identity transform")
	}
}

func TestGroupRotationIsWorldSpace(t *testing.T) {
	s := New(DefaultConfig(), nil)
	g := NewGroup(s, s.CreateSceneRoot("structure"))

	// x-axis quarter turn, then world-y quarter turn: local z ends at +x.
	g.ApplyRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))
	g.ApplyRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}))
	got := g.ToWorld(mgl64.Vec3{0, 0, 1})
	want := mgl64.Vec3{1, 0, 0}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("local z maps to %v, want %v", got, want)
	}
}

func TestRootPrimitives(t *testing.T) {
	r := NewRoot("info")
	if !r.Empty() {
		t.Error("new root should be empty")
	}
	c := color.NRGBA{A: 255}
	r.AddSphere(mgl64.Vec3{}, 1, c)
	r.AddPolyline([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}, c, 1)
	r.AddLabel(mgl64.Vec3{}, "a", c)
	if len(r.Spheres) != 1 || len(r.Lines) != 2 || len(r.Labels) != 1 {
		t.Errorf("unexpected primitive counts %d/%d/%d", len(r.Spheres), len(r.Lines), len(r.Labels))
	}
	r.Clear()
	if !r.Empty() {
		t.Error("Clear should drop primitives")
	}
}
