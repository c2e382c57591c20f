package math

import (
	"testing"
)

func TestVec2Sub(t *testing.T) {
	got := Vec2{3, 4}.Sub(Vec2{1, 2})
	want := Vec2{2, 2}
	if got != want {
		t.Errorf("Vec2.Sub() = %v, want %v", got, want)
	}
}

func TestVec2Cross(t *testing.T) {
	tests := []struct {
		a, b Vec2
		want float32
	}{
		{Vec2{1, 0}, Vec2{0, 1}, 1},
		{Vec2{0, 1}, Vec2{1, 0}, -1},
		{Vec2{2, 2}, Vec2{1, 1}, 0},
	}
	for _, tc := range tests {
		if got := tc.a.Cross(tc.b); got != tc.want {
			t.Errorf("%v x %v = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestVec2Length(t *testing.T) {
	if got := (Vec2{3, 4}).Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 0}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got := a.Min(b); got != (Vec3{1, -1, -2}) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, 0}) {
		t.Errorf("Max = %v", got)
	}
}
