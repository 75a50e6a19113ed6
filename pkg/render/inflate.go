package render

import (
	"math"

	"github.com/fizzl/facet/pkg/math3d"
)

// InflateOffset is the default outline offset in screen units. Canvas-style
// fills leave roughly half-pixel seams between adjacent polygons sharing an
// edge; offsetting the outline by half a unit closes them without visible
// overlap.
const InflateOffset = 0.5

// InflatePolygon returns a slightly enlarged copy of a screen-space polygon
// outline. Each edge is pushed outward along its normal by offset, and each
// corner becomes the intersection of its two adjacent offset edges. When the
// intersection deviates from the original vertex by more than three times
// the offset on either axis (near-parallel or degenerate edges), or when an
// adjacent edge has zero length, the original vertex is kept for that
// corner.
//
// Polygons are expected in facet's screen winding: counter-clockwise with
// y down, as produced by the transform pass.
func InflatePolygon(pts []math3d.Vec2, offset float64) []math3d.Vec2 {
	n := len(pts)
	out := make([]math3d.Vec2, n)
	if n < 3 {
		copy(out, pts)
		return out
	}

	// Parallel offset edges: edge i runs pts[i] -> pts[i+1].
	type offsetEdge struct {
		a, b math3d.Vec2
		ok   bool
	}
	edges := make([]offsetEdge, n)
	for i := range n {
		a := pts[i]
		b := pts[(i+1)%n]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue // degenerate, corners fall back to the original vertex
		}
		// Outward normal: rotate the edge vector 90 degrees.
		norm := math3d.V2(-d.Y/l, d.X/l).Scale(offset)
		edges[i] = offsetEdge{a: a.Add(norm), b: b.Add(norm), ok: true}
	}

	limit := offset * 3
	for i := range n {
		prev := edges[(i+n-1)%n]
		next := edges[i]
		if !prev.ok || !next.ok {
			out[i] = pts[i]
			continue
		}
		p, ok := intersectLines(prev.a, prev.b, next.a, next.b)
		if !ok || math.Abs(p.X-pts[i].X) > limit || math.Abs(p.Y-pts[i].Y) > limit {
			out[i] = pts[i]
			continue
		}
		out[i] = p
	}
	return out
}

// intersectLines returns the intersection of the infinite lines through
// (a1, a2) and (b1, b2).
func intersectLines(a1, a2, b1, b2 math3d.Vec2) (math3d.Vec2, bool) {
	denom := (a1.X-a2.X)*(b1.Y-b2.Y) - (a1.Y-a2.Y)*(b1.X-b2.X)
	if denom == 0 {
		return math3d.Vec2{}, false
	}
	ca := a1.X*a2.Y - a1.Y*a2.X
	cb := b1.X*b2.Y - b1.Y*b2.X
	return math3d.V2(
		(ca*(b1.X-b2.X)-(a1.X-a2.X)*cb)/denom,
		(ca*(b1.Y-b2.Y)-(a1.Y-a2.Y)*cb)/denom,
	), true
}
