package geometry

import (
	"math"
	"testing"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/quat"
)

func newBodyAt(pos quat.Quaternion) *body.Body {
	b := body.New()
	b.SetState(pos, quat.Scalar(1), quat.Quaternion{}, quat.Quaternion{})
	return b
}

func TestNewSphereValidation(t *testing.T) {
	if _, err := NewSphere(nil, 1); err != ErrNoBody {
		t.Errorf("expected ErrNoBody, got %v", err)
	}
	if _, err := NewSphere(body.New(), 0); err != ErrNonPositiveSize {
		t.Errorf("expected ErrNonPositiveSize, got %v", err)
	}
	if _, err := NewSphere(body.New(), 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewBoxValidation(t *testing.T) {
	if _, err := NewBox(nil, 1, 1, 1); err != ErrNoBody {
		t.Errorf("expected ErrNoBody, got %v", err)
	}
	if _, err := NewBox(body.New(), 1, -1, 1); err != ErrNonPositiveSize {
		t.Errorf("expected ErrNonPositiveSize, got %v", err)
	}
}

func TestNewHalfSpaceNormalizes(t *testing.T) {
	if _, err := NewHalfSpace(quat.Quaternion{}, 0); err != ErrDegenerateNormal {
		t.Errorf("expected ErrDegenerateNormal, got %v", err)
	}

	h, err := NewHalfSpace(quat.Vector(0, 5, 0), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Direction != quat.Vector(0, 1, 0) {
		t.Errorf("direction should be normalized, got %v", h.Direction)
	}
	if h.Body() != nil {
		t.Error("scenery must have no body")
	}
}

func TestSphereMass(t *testing.T) {
	s, _ := NewSphere(newBodyAt(quat.Quaternion{}), 2)
	s.SetMass(5)

	if s.Body().Mass() != 5 {
		t.Errorf("expected mass 5, got %g", s.Body().Mass())
	}

	// Solid sphere: I = 2/5 m r^2, the body stores the inverse.
	wantInv := 1 / ((2.0 / 5.0) * 5 * 4)
	if math.Abs(s.Body().InverseInertiaBody.XX-wantInv) > 1e-12 {
		t.Errorf("expected inverse inertia %g, got %g", wantInv, s.Body().InverseInertiaBody.XX)
	}
}

func TestBoxMass(t *testing.T) {
	b, _ := NewBox(newBodyAt(quat.Quaternion{}), 0.5, 1, 1.5)
	b.SetMass(12)

	// I_xx = m (dy^2 + dz^2) / 12 with full extents 1, 2, 3.
	wantXX := 12.0 * (4.0 + 9.0) / 12.0
	if math.Abs(b.Body().InverseInertiaBody.XX-1/wantXX) > 1e-12 {
		t.Errorf("expected inverse inertia %g, got %g", 1/wantXX, b.Body().InverseInertiaBody.XX)
	}
}

func TestVolumes(t *testing.T) {
	s, _ := NewSphere(newBodyAt(quat.Quaternion{}), 1)
	if math.Abs(s.Volume()-4.0/3.0*math.Pi) > 1e-12 {
		t.Errorf("unexpected sphere volume %g", s.Volume())
	}

	b, _ := NewBox(newBodyAt(quat.Quaternion{}), 1, 2, 3)
	if b.Volume() != 48 {
		t.Errorf("expected box volume 48, got %g", b.Volume())
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSphere, "sphere"},
		{KindBox, "box"},
		{KindHalfSpace, "halfspace"},
		{KindPlane, "plane"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind %d: expected %q, got %q", tt.kind, tt.want, got)
		}
	}
}

func TestBoxProjectOn(t *testing.T) {
	b, _ := NewBox(newBodyAt(quat.Quaternion{}), 1, 2, 3)

	if got := b.projectOn(quat.Vector(1, 0, 0)); got != 1 {
		t.Errorf("expected projection 1, got %g", got)
	}

	diag := quat.Vector(1, 1, 1).Unit()
	want := (1.0 + 2.0 + 3.0) / math.Sqrt(3)
	if got := b.projectOn(diag); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected projection %g, got %g", want, got)
	}
}
