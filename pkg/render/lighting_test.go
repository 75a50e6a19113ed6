package render

import (
	"math"
	"testing"

	"github.com/fizzl/facet/pkg/math3d"
	"github.com/fizzl/facet/pkg/scene"
)

func mustPointLight(t *testing.T, pos math3d.Vec3, intensity, attenuation float64, falloff scene.Falloff) scene.Light {
	t.Helper()
	l, err := scene.NewPointLight(pos, [3]float64{1, 1, 1}, intensity, attenuation, falloff)
	if err != nil {
		t.Fatalf("NewPointLight: %v", err)
	}
	return l
}

func TestSurfaceBrightness_DistantLight(t *testing.T) {
	tests := []struct {
		name     string
		dir      math3d.Vec3
		normal   math3d.Vec3
		expected float64
	}{
		// Light shining along +z onto a surface facing -z is a head-on hit.
		{"head on", math3d.V3(0, 0, 1), math3d.V3(0, 0, -1), 1.0},
		{"grazing", math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), 0.0},
		// Back-facing contributions are summed, not clamped.
		{"behind", math3d.V3(0, 0, 1), math3d.V3(0, 0, 1), -1.0},
		{"angled", math3d.V3(0, 0, 1), math3d.V3(0, 1, -1).Normalize(), 1 / math.Sqrt2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lights := []scene.Light{
				scene.NewDistantLight(tc.dir, [3]float64{1, 1, 1}, 1.0),
			}
			b := SurfaceBrightness(math3d.Zero3(), tc.normal, lights)
			for ch := range 3 {
				if math.Abs(b[ch]-tc.expected) > 1e-9 {
					t.Errorf("channel %d = %v, want %v", ch, b[ch], tc.expected)
				}
			}
		})
	}
}

func TestSurfaceBrightness_PointLight(t *testing.T) {
	t.Run("linear falloff at distance 2", func(t *testing.T) {
		// Attenuation 0.1 with linear falloff at distance 2 divides by 0.2,
		// so a head-on hit is 5x intensity.
		lights := []scene.Light{
			mustPointLight(t, math3d.V3(0, 0, 2), 1.0, 0.1, scene.FalloffLinear),
		}
		b := SurfaceBrightness(math3d.Zero3(), math3d.V3(0, 0, 1), lights)
		if math.Abs(b[0]-5.0) > 1e-9 {
			t.Errorf("brightness = %v, want 5.0", b[0])
		}
	})

	t.Run("squared falloff", func(t *testing.T) {
		lights := []scene.Light{
			mustPointLight(t, math3d.V3(0, 0, 2), 1.0, 0.5, scene.FalloffSquared),
		}
		b := SurfaceBrightness(math3d.Zero3(), math3d.V3(0, 0, 1), lights)
		if math.Abs(b[0]-0.5) > 1e-9 {
			t.Errorf("brightness = %v, want 0.5", b[0])
		}
	})

	t.Run("light behind surface is skipped", func(t *testing.T) {
		lights := []scene.Light{
			mustPointLight(t, math3d.V3(0, 0, -3), 1.0, 0.1, scene.FalloffNone),
		}
		b := SurfaceBrightness(math3d.Zero3(), math3d.V3(0, 0, 1), lights)
		if b[0] != 0 || b[1] != 0 || b[2] != 0 {
			t.Errorf("brightness = %v, want zero", b)
		}
	})
}

func TestSurfaceBrightness_Additive(t *testing.T) {
	normal := math3d.V3(0, 0, 1)
	pos := math3d.Zero3()
	l1 := scene.NewDistantLight(math3d.V3(0, 0, -1), [3]float64{1, 0.5, 0.25}, 0.8)
	l2 := mustPointLight(t, math3d.V3(0, 0, 4), 1.0, 2, scene.FalloffNone)

	a := SurfaceBrightness(pos, normal, []scene.Light{l1})
	b := SurfaceBrightness(pos, normal, []scene.Light{l2})
	both := SurfaceBrightness(pos, normal, []scene.Light{l1, l2})

	for ch := range 3 {
		if math.Abs(both[ch]-(a[ch]+b[ch])) > 1e-9 {
			t.Errorf("channel %d: combined %v != %v + %v", ch, both[ch], a[ch], b[ch])
		}
	}
}

func TestPositionBrightness(t *testing.T) {
	t.Run("distant contributes flat intensity", func(t *testing.T) {
		lights := []scene.Light{
			scene.NewDistantLight(math3d.V3(0, -1, 0), [3]float64{1, 1, 1}, 0.7),
		}
		b := PositionBrightness(math3d.V3(5, 5, 5), lights)
		if math.Abs(b[0]-0.7) > 1e-9 {
			t.Errorf("brightness = %v, want 0.7", b[0])
		}
	})

	t.Run("point divides by twice the attenuation", func(t *testing.T) {
		lights := []scene.Light{
			mustPointLight(t, math3d.V3(0, 0, 2), 1.0, 0.1, scene.FalloffLinear),
		}
		// Linear falloff at distance 2: 1.0 / (0.1 * 2 * 2) = 2.5.
		b := PositionBrightness(math3d.Zero3(), lights)
		if math.Abs(b[0]-2.5) > 1e-9 {
			t.Errorf("brightness = %v, want 2.5", b[0])
		}
	})
}

func TestBrightnessApply(t *testing.T) {
	tests := []struct {
		name     string
		b        Brightness
		base     Color
		expected Color
	}{
		{"identity", Brightness{1, 1, 1}, RGB(100, 150, 200), RGB(100, 150, 200)},
		{"half", Brightness{0.5, 0.5, 0.5}, RGB(200, 100, 50), RGB(100, 50, 25)},
		{"overbright clamps", Brightness{10, 10, 10}, RGB(100, 100, 100), RGB(255, 255, 255)},
		{"negative clamps to zero", Brightness{-1, -1, -1}, RGB(100, 100, 100), RGB(0, 0, 0)},
		{"per channel", Brightness{1, 0.5, 0}, RGB(100, 100, 100), RGB(100, 50, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.b.Apply(tc.base)
			if got != tc.expected {
				t.Errorf("Apply(%v) = %v, want %v", tc.base, got, tc.expected)
			}
		})
	}

	t.Run("alpha passes through", func(t *testing.T) {
		got := Brightness{0.5, 0.5, 0.5}.Apply(RGBA(100, 100, 100, 64))
		if got.A != 64 {
			t.Errorf("alpha = %d, want 64", got.A)
		}
	})
}

func TestBrightnessLuminance(t *testing.T) {
	tests := []struct {
		name     string
		b        Brightness
		expected float64
	}{
		{"black", Brightness{0, 0, 0}, 0},
		{"white", Brightness{1, 1, 1}, 1},
		{"red only", Brightness{1, 0, 0}, 0.3},
		{"green only", Brightness{0, 1, 0}, 0.6},
		{"blue only", Brightness{0, 0, 1}, 0.1},
		{"overbright clamps per channel", Brightness{4, 4, 4}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.b.Luminance()
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Luminance() = %v, want %v", got, tc.expected)
			}
		})
	}
}
