package math3d

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, eps float64) bool {
	return a.Distance(b) <= eps
}

func TestTranslate(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	got := m.MulVec3(V3(10, 20, 30))
	if !vecNear(got, V3(11, 22, 33), 1e-12) {
		t.Errorf("translated point = %v, want (11, 22, 33)", got)
	}
	if m.Translation() != (Vec3{1, 2, 3}) {
		t.Errorf("Translation() = %v", m.Translation())
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"RotateX quarter turn", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"RotateY quarter turn", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"RotateZ quarter turn", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"RotateY half turn", RotateY(math.Pi), V3(0, 0, 1), V3(0, 0, -1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec3Dir(tc.in)
			if !vecNear(got, tc.want, 1e-12) {
				t.Errorf("rotated %v = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMulOrder(t *testing.T) {
	// Translate-then-rotate differs from rotate-then-translate; the matrix
	// applied last to the point must be the leftmost factor.
	rot := RotateY(math.Pi / 2)
	trans := Translate(V3(1, 0, 0))

	// rot * trans: translate first, then rotate. (1,0,0)+(1,0,0)=(2,0,0),
	// rotated a quarter turn around Y lands on (0,0,-2).
	got := rot.Mul(trans).MulVec3(V3(1, 0, 0))
	if !vecNear(got, V3(0, 0, -2), 1e-12) {
		t.Errorf("rot*trans applied to (1,0,0) = %v, want (0,0,-2)", got)
	}

	// trans * rot: rotate first. (1,0,0) rotates to (0,0,-1), then the
	// translation moves it to (1,0,-1).
	got = trans.Mul(rot).MulVec3(V3(1, 0, 0))
	if !vecNear(got, V3(1, 0, -1), 1e-12) {
		t.Errorf("trans*rot applied to (1,0,0) = %v, want (1,0,-1)", got)
	}
}

func TestPerspective(t *testing.T) {
	proj := Perspective(math.Pi/2, 1, 1, 100)

	t.Run("divisor is view depth", func(t *testing.T) {
		clip := proj.MulVec4(V4(0, 0, -5, 1))
		if math.Abs(clip.W-5) > 1e-12 {
			t.Errorf("W = %v, want 5 (negated view z)", clip.W)
		}
	})

	t.Run("near plane maps to -1", func(t *testing.T) {
		ndc := proj.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
		if math.Abs(ndc.Z+1) > 1e-9 {
			t.Errorf("near-plane ndc z = %v, want -1", ndc.Z)
		}
	})

	t.Run("far plane maps to +1", func(t *testing.T) {
		ndc := proj.MulVec4(V4(0, 0, -100, 1)).PerspectiveDivide()
		if math.Abs(ndc.Z-1) > 1e-9 {
			t.Errorf("far-plane ndc z = %v, want +1", ndc.Z)
		}
	})

	t.Run("edge of frustum maps to +1", func(t *testing.T) {
		// 90 degree vertical FOV: at depth 2, y=2 sits on the top plane.
		ndc := proj.MulVec4(V4(0, 2, -2, 1)).PerspectiveDivide()
		if math.Abs(ndc.Y-1) > 1e-9 {
			t.Errorf("frustum-edge ndc y = %v, want 1", ndc.Y)
		}
	})
}

func TestVec2Cross(t *testing.T) {
	// Screen-space winding checks depend on the cross sign convention.
	if got := V2(1, 0).Cross(V2(0, 1)); got != 1 {
		t.Errorf("x cross y = %v, want 1", got)
	}
	if got := V2(0, 1).Cross(V2(1, 0)); got != -1 {
		t.Errorf("y cross x = %v, want -1", got)
	}
}

func TestVec3Basics(t *testing.T) {
	if got := V3(1, 2, 3).Dot(V3(4, 5, 6)); got != 32 {
		t.Errorf("dot = %v, want 32", got)
	}
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if got := V3(3, 4, 0).Len(); got != 5 {
		t.Errorf("len = %v, want 5", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero normalize = %v, want zero", got)
	}
	if got := V3(0, 0, 0).Lerp(V3(10, 20, 30), 0.5); got != V3(5, 10, 15) {
		t.Errorf("lerp = %v", got)
	}
}
