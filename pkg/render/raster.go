package render

import (
	"math"

	"github.com/fizzl/facet/pkg/math3d"
	"github.com/fizzl/facet/pkg/scene"
)

// Raster is the software backend: it rasterizes solid polygons directly into
// a pixel buffer with flat per-polygon shading. Points and wireframe objects
// are the surface backend's domain.
type Raster struct {
	fb *Framebuffer

	// Background is the implicit full-buffer clear color applied at the
	// start of every Render call.
	Background Color
}

// NewRaster creates a software renderer writing into fb.
func NewRaster(fb *Framebuffer) *Raster {
	return &Raster{fb: fb, Background: RGB(0, 0, 0)}
}

// Framebuffer returns the pixel buffer this renderer owns.
func (r *Raster) Framebuffer() *Framebuffer {
	return r.fb
}

// Render clears the buffer, depth-sorts the render list and rasterizes every
// solid object. Shading is flat: one lighting evaluation per polygon at its
// world-space centroid against its face normal. Quads are split into the
// triangles [0,1,2] and [0,3,2].
func (r *Raster) Render(list []*scene.Entity, cam *scene.Camera, lights []scene.Light) {
	r.fb.Clear(r.Background)
	SortObjects(list)

	for _, e := range list {
		if e.Style.DrawMode != scene.DrawSolid {
			continue
		}
		r.renderSolid(e, cam, lights)
	}
}

func (r *Raster) renderSolid(e *scene.Entity, cam *scene.Camera, lights []scene.Light) {
	for i := range e.Polygons {
		p := &e.Polygons[i]
		n := len(p.Vertices)
		if n < 3 || n > 4 {
			continue
		}
		if !PolygonVisible(e, p, cam.Position) {
			continue
		}
		// Vertices behind the camera have no meaningful screen position.
		behind := false
		for _, vi := range p.Vertices {
			if vi >= len(e.ClipCoords) || e.ClipCoords[vi].W <= 0 {
				behind = true
				break
			}
		}
		if behind {
			continue
		}

		c := r.shade(e, p, lights)

		s := e.ScreenCoords
		v := p.Vertices
		r.fillTriangle(s[v[0]], s[v[1]], s[v[2]], c)
		if n == 4 {
			r.fillTriangle(s[v[0]], s[v[3]], s[v[2]], c)
		}
	}
}

// shade computes the flat fill color for a polygon.
func (r *Raster) shade(e *scene.Entity, p *scene.Polygon, lights []scene.Light) Color {
	base := e.Style.Color
	if p.Color != nil {
		base = *p.Color
	}
	if e.Style.ShadeMode != scene.ShadeLightsource {
		return base
	}
	var centroid math3d.Vec3
	for _, vi := range p.Vertices {
		centroid = centroid.Add(e.WorldCoords[vi])
	}
	centroid = centroid.Scale(1 / float64(len(p.Vertices)))
	return SurfaceBrightness(centroid, p.WorldNormal, lights).Apply(base)
}

// fillTriangle rasterizes one triangle with a flat color using a 28.4
// fixed-point half-edge scan. Screen coordinates are converted to fixed
// point by multiplying by 16 and rounding to nearest, giving 1/16-unit
// sub-pixel precision without float rounding in the edge tests. The
// half-edge constants carry the top-left fill convention (an edge owns
// pixels on its own line only when it is a left or top edge), so adjacent
// triangles sharing an edge partition it with no gap and no double-write.
func (r *Raster) fillTriangle(p1, p2, p3 math3d.Vec2, c Color) {
	x1 := int(math.Round(p1.X * 16))
	y1 := int(math.Round(p1.Y * 16))
	x2 := int(math.Round(p2.X * 16))
	y2 := int(math.Round(p2.Y * 16))
	x3 := int(math.Round(p3.X * 16))
	y3 := int(math.Round(p3.Y * 16))

	// Normalize orientation so the inside test always sees the same
	// winding; the quad split deliberately emits both orientations.
	area := (x2-x1)*(y3-y1) - (y2-y1)*(x3-x1)
	if area == 0 {
		return
	}
	if area > 0 {
		x2, y2, x3, y3 = x3, y3, x2, y2
	}

	dx12, dy12 := x1-x2, y1-y2
	dx23, dy23 := x2-x3, y2-y3
	dx31, dy31 := x3-x1, y3-y1

	// 24.8 result of the edge functions stepped in whole pixels.
	fdx12, fdy12 := dx12<<4, dy12<<4
	fdx23, fdy23 := dx23<<4, dy23<<4
	fdx31, fdy31 := dx31<<4, dy31<<4

	c1 := dy12*x1 - dx12*y1
	c2 := dy23*x2 - dx23*y2
	c3 := dy31*x3 - dx31*y3

	// Top-left fill convention.
	if dy12 < 0 || (dy12 == 0 && dx12 > 0) {
		c1++
	}
	if dy23 < 0 || (dy23 == 0 && dx23 > 0) {
		c2++
	}
	if dy31 < 0 || (dy31 == 0 && dx31 > 0) {
		c3++
	}

	minx := (min3(x1, x2, x3) + 0xF) >> 4
	maxx := (max3(x1, x2, x3) + 0xF) >> 4
	miny := (min3(y1, y2, y3) + 0xF) >> 4
	maxy := (max3(y1, y2, y3) + 0xF) >> 4

	minx = max(minx, 0)
	miny = max(miny, 0)
	maxx = min(maxx, r.fb.Width)
	maxy = min(maxy, r.fb.Height)
	if maxx <= minx || maxy <= miny {
		return
	}

	cy1 := c1 + dx12*(miny<<4) - dy12*(minx<<4)
	cy2 := c2 + dx23*(miny<<4) - dy23*(minx<<4)
	cy3 := c3 + dx31*(miny<<4) - dy31*(minx<<4)

	pixels := r.fb.Pixels
	for y := miny; y < maxy; y++ {
		cx1, cx2, cx3 := cy1, cy2, cy3
		row := y * r.fb.Width
		for x := minx; x < maxx; x++ {
			if cx1 > 0 && cx2 > 0 && cx3 > 0 {
				pixels[row+x] = c
			}
			cx1 -= fdy12
			cx2 -= fdy23
			cx3 -= fdy31
		}
		cy1 += fdx12
		cy2 += fdx23
		cy3 += fdx31
	}
}

func min3(a, b, c int) int {
	return min(a, min(b, c))
}

func max3(a, b, c int) int {
	return max(a, max(b, c))
}
