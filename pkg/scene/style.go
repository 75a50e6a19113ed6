// Package scene provides the entity, style, light and camera data model for
// the facet renderer, plus the per-frame transform pass that produces the
// render list the backends consume.
package scene

import "image/color"

// DrawMode selects the primitive class an entity renders as.
type DrawMode int

const (
	DrawPoints    DrawMode = iota // One dot per vertex
	DrawWireframe                 // One line per edge
	DrawSolid                     // Filled polygons
)

// ShadeMode selects how primitive colors are computed.
type ShadeMode int

const (
	ShadePlain       ShadeMode = iota // Flat base color, no lighting
	ShadeLightsource                  // Lit by the scene's light list
	ShadeSprite                       // Points only: draws the bound sprite image
)

// SortMode selects whether an entity takes part in depth ordering.
type SortMode int

const (
	SortDepth SortMode = iota // Painter's-algorithm sort by average depth
	SortNone                  // Rendered after all depth-sorted entities
)

// FillMode selects the polygon fill policy on the retained-surface backend.
// Canvas-style fills leave sub-pixel seams between adjacent polygons; each
// mode trades cost against seam visibility differently.
type FillMode int

const (
	FillSingle     FillMode = iota // One fill; fastest, hairline seams
	FillTwice                      // Fill twice; reduces seam visibility
	FillInflate                    // Inflated outline (see render.InflatePolygon); no seams
	FillStroke                     // Fill plus a matching-color stroke
	FillHiddenLine                 // Stroke only, no fill
)

// Style is the per-entity appearance bundle. It is a value type: copy it at
// entity creation and never mutate a shared instance afterwards.
type Style struct {
	Color       color.RGBA // Base color
	Specular    bool       // Carried for embedders; not consumed by the core pipeline
	DrawMode    DrawMode
	ShadeMode   ShadeMode
	SortMode    SortMode
	FillMode    FillMode
	LineWidth   float64 // Point radius / stroke width when LineScale is zero
	LineScale   float64 // When non-zero, width = LineScale / perspective divisor
	HiddenAngle float64 // Backface cull threshold; 0 drops faces past 90 degrees
	DoubleSided bool    // Disables the backface test entirely
}

// DefaultStyle returns the default appearance: a mid-gray, depth-sorted solid
// with lightsource shading and inflated fills.
func DefaultStyle() Style {
	return Style{
		Color:     color.RGBA{128, 128, 128, 255},
		DrawMode:  DrawSolid,
		ShadeMode: ShadeLightsource,
		SortMode:  SortDepth,
		FillMode:  FillInflate,
		LineWidth: 1.0,
	}
}
