package render

import (
	"math"

	"github.com/fizzl/facet/pkg/math3d"
	"github.com/fizzl/facet/pkg/scene"
)

// Brightness is an additive RGB light accumulator in light units
// (0.0 = dark, 1.0 = full channel; values above 1 are valid and clamped
// only when applied to a color).
type Brightness [3]float64

// SurfaceBrightness accumulates the contribution of every light at a
// world-space position with a surface normal.
//
// Distant lights contribute dot(normal, -direction) * intensity and are
// summed unconditionally, negative dots included. Point lights compute the
// dot against the normalized direction to the light and are skipped entirely
// when it is non-positive, so a light behind a face never darkens it; a
// positive contribution is divided by the configured attenuation.
func SurfaceBrightness(pos, normal math3d.Vec3, lights []scene.Light) Brightness {
	var b Brightness
	for i := range lights {
		l := &lights[i]
		switch l.Kind {
		case scene.LightDistant:
			dot := normal.Dot(l.Direction.Negate())
			add(&b, l, dot*l.Intensity)
		case scene.LightPoint:
			toLight := l.Position.Sub(pos)
			dot := normal.Dot(toLight.Normalize())
			if dot <= 0 {
				continue
			}
			add(&b, l, dot*l.Intensity/attenuate(l, toLight.Len()))
		}
	}
	return b
}

// PositionBrightness accumulates light at a world-space position with no
// surface normal, used for points and wireframe edges. Distant lights
// contribute their flat intensity. Point lights contribute
// intensity / (attenuation * 2): the doubling is a brightness-parity
// heuristic that visually matches line and point primitives to polygons lit
// by the same light, and is preserved exactly.
func PositionBrightness(pos math3d.Vec3, lights []scene.Light) Brightness {
	var b Brightness
	for i := range lights {
		l := &lights[i]
		switch l.Kind {
		case scene.LightDistant:
			add(&b, l, l.Intensity)
		case scene.LightPoint:
			dist := l.Position.Distance(pos)
			add(&b, l, l.Intensity/(attenuate(l, dist)*2))
		}
	}
	return b
}

// Apply multiplies a base color by the accumulated brightness, clamping each
// channel to [0, 255]. Alpha passes through.
func (b Brightness) Apply(base Color) Color {
	return Color{
		R: clampChannel(float64(base.R) * b[0]),
		G: clampChannel(float64(base.G) * b[1]),
		B: clampChannel(float64(base.B) * b[2]),
		A: base.A,
	}
}

// Luminance converts the brightness to a single 0-1 luminance value using
// the 0.3/0.6/0.1 RGB weights, clamping each channel first.
func (b Brightness) Luminance() float64 {
	r := math.Min(b[0], 1)
	g := math.Min(b[1], 1)
	bl := math.Min(b[2], 1)
	return 0.3*r + 0.6*g + 0.1*bl
}

// add accumulates a scalar contribution scaled by the light's color.
func add(b *Brightness, l *scene.Light, v float64) {
	b[0] += l.Color[0] * v
	b[1] += l.Color[1] * v
	b[2] += l.Color[2] * v
}

// attenuate returns the distance falloff divisor for a point light.
func attenuate(l *scene.Light, dist float64) float64 {
	switch l.Falloff {
	case scene.FalloffLinear:
		return l.Attenuation * dist
	case scene.FalloffSquared:
		return l.Attenuation * dist * dist
	default:
		return l.Attenuation
	}
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
