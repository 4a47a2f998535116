package math

import "testing"

func TestVec3Cross(t *testing.T) {
	if got := (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Errorf("expected +Z, got %v", got)
	}
	if got := (Vec3{0, 1, 0}).Cross(Vec3{1, 0, 0}); got != (Vec3{0, 0, -1}) {
		t.Errorf("expected -Z, got %v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 0}.Normalize()
	if !near(n.X, 0.6) || !near(n.Y, 0.8) || !near(n.Length(), 1) {
		t.Errorf("expected (0.6,0.8,0), got %v", n)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("expected zero vector to stay zero")
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a, b := Vec3{1, 2, 3}, Vec3{4, 5, 6}
	if got := a.Add(b).Sub(a); got != b {
		t.Errorf("expected %v, got %v", b, got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("expected 32, got %v", got)
	}
	if V3(a.Array()) != a {
		t.Errorf("expected %v, got %v", a, V3(a.Array()))
	}
}
