package scene

import (
	"fmt"

	"github.com/fizzl/facet/pkg/math3d"
)

// LightKind discriminates the light variants. Lights are a tagged struct
// rather than an interface so the evaluator can switch exhaustively.
type LightKind int

const (
	LightDistant LightKind = iota // Direction only, no falloff
	LightPoint                    // World position with distance attenuation
)

// Falloff selects how a point light attenuates with distance d.
type Falloff int

const (
	FalloffNone    Falloff = iota // attenuation
	FalloffLinear                 // attenuation * d
	FalloffSquared                // attenuation * d^2
)

// Light is a single light source. Color channels and Intensity are in the
// 0.0-1.0 range. Direction is meaningful for distant lights, Position,
// Attenuation and Falloff for point lights.
type Light struct {
	Kind        LightKind
	Color       [3]float64
	Intensity   float64
	Direction   math3d.Vec3 // Normalized world-space direction (distant)
	Position    math3d.Vec3 // World-space position (point)
	Attenuation float64     // Always > 0 (point)
	Falloff     Falloff
}

// NewDistantLight creates a directional light. The direction is normalized.
func NewDistantLight(dir math3d.Vec3, col [3]float64, intensity float64) Light {
	return Light{
		Kind:      LightDistant,
		Color:     col,
		Intensity: intensity,
		Direction: dir.Normalize(),
	}
}

// NewPointLight creates a positional light. Attenuation must be positive:
// the evaluator divides by it per contribution, so zero is a data error and
// is rejected here rather than defended against per pixel.
func NewPointLight(pos math3d.Vec3, col [3]float64, intensity, attenuation float64, falloff Falloff) (Light, error) {
	if attenuation <= 0 {
		return Light{}, fmt.Errorf("point light attenuation must be positive, got %v", attenuation)
	}
	return Light{
		Kind:        LightPoint,
		Color:       col,
		Intensity:   intensity,
		Position:    pos,
		Attenuation: attenuation,
		Falloff:     falloff,
	}, nil
}
