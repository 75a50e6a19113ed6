package render

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/fizzl/facet/pkg/math3d"
	"github.com/fizzl/facet/pkg/scene"
)

// Surface renders a scene onto a retained 2D drawing context. It supports
// every draw mode: points, wireframe and solid polygons with the full set of
// fill modes and affine texture mapping.
type Surface struct {
	dc *gg.Context

	// Background is painted over the whole canvas at the start of every
	// Render call.
	Background Color

	// Inflate is the polygon inflation distance used by the inflating fill
	// modes and by texture mapping. Zero disables inflation entirely.
	Inflate float64
}

// NewSurface creates a surface renderer with its own backing context.
func NewSurface(width, height int) *Surface {
	return NewSurfaceFor(gg.NewContext(width, height))
}

// NewSurfaceFor wraps an existing drawing context.
func NewSurfaceFor(dc *gg.Context) *Surface {
	return &Surface{
		dc:         dc,
		Background: RGB(0, 0, 0),
		Inflate:    InflateOffset,
	}
}

// Context exposes the underlying drawing context, for callers that want to
// composite additional 2D content over the rendered frame.
func (s *Surface) Context() *gg.Context {
	return s.dc
}

// Image returns the rendered frame.
func (s *Surface) Image() *Framebuffer {
	fb := NewFramebuffer(s.dc.Width(), s.dc.Height())
	img := s.dc.Image()
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			fb.Pixels[y*fb.Width+x] = Color{
				R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8),
			}
		}
	}
	return fb
}

// SavePNG writes the current frame to disk.
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// Render draws the given objects back to front. The list is reordered in
// place by the depth sort.
func (s *Surface) Render(list []*scene.Entity, cam *scene.Camera, lights []scene.Light) error {
	s.dc.ClearWithColor(gg.FromColor(s.Background))
	SortObjects(list)

	for _, e := range list {
		var err error
		switch e.Style.DrawMode {
		case scene.DrawPoints:
			err = s.renderPoints(e, lights)
		case scene.DrawWireframe:
			err = s.renderEdges(e, lights)
		case scene.DrawSolid:
			err = s.renderPolygons(e, cam, lights)
		}
		if err != nil {
			return fmt.Errorf("render %q: %w", e.Name, err)
		}
	}
	return nil
}

// pointRadius derives the screen radius for a vertex. LineScale divides by
// the perspective depth so distant points shrink; LineWidth is a constant
// fallback.
func pointRadius(e *scene.Entity, vi int) float64 {
	if e.Style.LineScale > 0 {
		w := e.ClipCoords[vi].W
		if w > 0 {
			return e.Style.LineScale / w
		}
	}
	return e.Style.LineWidth
}

func (s *Surface) renderPoints(e *scene.Entity, lights []scene.Light) error {
	dc := s.dc
	for vi := range e.Vertices {
		if e.Clipped(vi) {
			continue
		}
		p := e.ScreenCoords[vi]
		r := pointRadius(e, vi)

		if e.Style.ShadeMode == scene.ShadeSprite && e.Sprite != nil {
			dc.DrawImageEx(e.Sprite, gg.DrawImageOptions{
				X:         p.X - r,
				Y:         p.Y - r,
				DstWidth:  r * 2,
				DstHeight: r * 2,
			})
			continue
		}

		c := e.Style.Color
		if e.Style.ShadeMode == scene.ShadeLightsource {
			c = PositionBrightness(e.WorldCoords[vi], lights).Apply(c)
		}
		dc.SetColor(c)
		dc.DrawCircle(p.X, p.Y, r)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) renderEdges(e *scene.Entity, lights []scene.Light) error {
	dc := s.dc
	plain := e.Style.ShadeMode != scene.ShadeLightsource

	// Plain constant-width wireframes batch every edge into one path and
	// stroke once. Lit or depth-scaled edges need per-edge color or width.
	if plain && e.Style.LineScale == 0 {
		dc.SetColor(e.Style.Color)
		dc.SetLineWidth(e.Style.LineWidth)
		drawn := false
		for _, edge := range e.Edges {
			if e.Clipped(edge.A) && e.Clipped(edge.B) {
				continue
			}
			a, b := e.ScreenCoords[edge.A], e.ScreenCoords[edge.B]
			dc.MoveTo(a.X, a.Y)
			dc.LineTo(b.X, b.Y)
			drawn = true
		}
		if !drawn {
			return nil
		}
		return dc.Stroke()
	}

	for _, edge := range e.Edges {
		// An edge survives while either endpoint is on screen.
		if e.Clipped(edge.A) && e.Clipped(edge.B) {
			continue
		}
		a, b := e.ScreenCoords[edge.A], e.ScreenCoords[edge.B]

		width := e.Style.LineWidth
		if e.Style.LineScale > 0 {
			w := (e.ClipCoords[edge.A].W + e.ClipCoords[edge.B].W) / 2
			if w > 0 {
				width = e.Style.LineScale / w
			}
		}
		dc.SetLineWidth(width)

		if plain {
			dc.SetColor(e.Style.Color)
		} else {
			mid := e.WorldCoords[edge.A].Lerp(e.WorldCoords[edge.B], 0.5)
			dc.SetColor(PositionBrightness(mid, lights).Apply(e.Style.Color))
		}
		dc.MoveTo(a.X, a.Y)
		dc.LineTo(b.X, b.Y)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) renderPolygons(e *scene.Entity, cam *scene.Camera, lights []scene.Light) error {
	for i := range e.Polygons {
		p := &e.Polygons[i]
		if !PolygonVisible(e, p, cam.Position) {
			continue
		}
		if err := s.renderPolygon(e, p, lights); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) renderPolygon(e *scene.Entity, p *scene.Polygon, lights []scene.Light) error {
	pts := make([]math3d.Vec2, len(p.Vertices))
	for i, vi := range p.Vertices {
		pts[i] = e.ScreenCoords[vi]
	}

	if p.Texture != scene.NoTexture && p.Texture < len(e.Textures) {
		return s.texturedPolygon(e, p, pts, lights)
	}

	fill := s.polygonColor(e, p, lights)
	dc := s.dc
	dc.SetColor(fill)

	switch e.Style.FillMode {
	case scene.FillInflate:
		if s.Inflate > 0 {
			pts = InflatePolygon(pts, s.Inflate)
		}
		tracePath(dc, pts)
		return dc.Fill()

	case scene.FillTwice:
		tracePath(dc, pts)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		return dc.Fill()

	case scene.FillStroke:
		tracePath(dc, pts)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetLineWidth(e.Style.LineWidth)
		return dc.Stroke()

	case scene.FillHiddenLine:
		// Outline only, giving a wireframe look driven by polygon data.
		tracePath(dc, pts)
		dc.SetLineWidth(e.Style.LineWidth)
		return dc.Stroke()

	default: // FillSingle
		tracePath(dc, pts)
		return dc.Fill()
	}
}

// polygonColor resolves the flat fill color: the per-polygon override wins
// over the object color, and lightsource shading modulates it by the summed
// surface brightness at the polygon's world centroid.
func (s *Surface) polygonColor(e *scene.Entity, p *scene.Polygon, lights []scene.Light) Color {
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

// texturedPolygon maps a texture across a triangle or quad, clipped to the
// (inflated) polygon outline. Quads are split into the triangles [0,1,2] and
// [2,3,0] so the texture diagonal runs corner to corner.
func (s *Surface) texturedPolygon(e *scene.Entity, p *scene.Polygon, pts []math3d.Vec2, lights []scene.Light) error {
	if len(pts) > 4 {
		return fmt.Errorf("texture mapping supports 3 or 4 vertices, polygon has %d", len(pts))
	}
	tex := e.Textures[p.Texture]
	tw := float64(tex.Width())
	th := float64(tex.Height())

	if s.Inflate > 0 {
		pts = InflatePolygon(pts, s.Inflate)
	}

	dc := s.dc
	if len(pts) == 3 {
		err := s.textureTriangle(tex, pts[0], pts[1], pts[2],
			math3d.V2(0, 0), math3d.V2(tw, 0), math3d.V2(tw, th))
		if err != nil {
			return err
		}
	} else {
		err := s.textureTriangle(tex, pts[0], pts[1], pts[2],
			math3d.V2(0, 0), math3d.V2(tw, 0), math3d.V2(tw, th))
		if err != nil {
			return err
		}
		err = s.textureTriangle(tex, pts[2], pts[3], pts[0],
			math3d.V2(tw, th), math3d.V2(0, th), math3d.V2(0, 0))
		if err != nil {
			return err
		}
	}

	// Lighting over textures is a translucent black overlay: the darker the
	// surface, the more the texture is dimmed.
	if e.Style.ShadeMode == scene.ShadeLightsource {
		var centroid math3d.Vec3
		for _, vi := range p.Vertices {
			centroid = centroid.Add(e.WorldCoords[vi])
		}
		centroid = centroid.Scale(1 / float64(len(p.Vertices)))
		lum := SurfaceBrightness(centroid, p.WorldNormal, lights).Luminance()
		dc.SetRGBA(0, 0, 0, 1-lum)
		tracePath(dc, pts)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

// textureTriangle fills one screen triangle by sampling the texture through
// the affine map defined by the three screen/texture vertex pairs. The map
// is solved in the screen-to-texture direction and applied per pixel by a
// brush, so the fill rasterizer does the clipping to the triangle outline.
func (s *Surface) textureTriangle(tex *gg.ImageBuf, s0, s1, s2, t0, t1, t2 math3d.Vec2) error {
	dx1, dy1 := s1.X-s0.X, s1.Y-s0.Y
	dx2, dy2 := s2.X-s0.X, s2.Y-s0.Y
	det := dx1*dy2 - dx2*dy1
	if det == 0 {
		// Degenerate on screen, nothing to fill.
		return nil
	}

	du1, du2 := t1.X-t0.X, t2.X-t0.X
	dv1, dv2 := t1.Y-t0.Y, t2.Y-t0.Y

	ua := (du1*dy2 - du2*dy1) / det
	ub := (du2*dx1 - du1*dx2) / det
	uc := t0.X - ua*s0.X - ub*s0.Y
	va := (dv1*dy2 - dv2*dy1) / det
	vb := (dv2*dx1 - dv1*dx2) / det
	vc := t0.Y - va*s0.X - vb*s0.Y

	w, h := tex.Bounds()
	brush := gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		u := clampIndex(int(ua*x+ub*y+uc), w)
		v := clampIndex(int(va*x+vb*y+vc), h)
		r, g, b, a := tex.GetRGBA(u, v)
		return gg.RGBA{
			R: float64(r) / 255, G: float64(g) / 255,
			B: float64(b) / 255, A: float64(a) / 255,
		}
	})

	dc := s.dc
	dc.SetFillBrush(brush)
	dc.MoveTo(s0.X, s0.Y)
	dc.LineTo(s1.X, s1.Y)
	dc.LineTo(s2.X, s2.Y)
	dc.ClosePath()
	return dc.Fill()
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func tracePath(dc *gg.Context, pts []math3d.Vec2) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}
