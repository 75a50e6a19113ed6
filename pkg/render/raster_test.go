package render

import (
	"testing"

	"github.com/fizzl/facet/pkg/math3d"
	"github.com/fizzl/facet/pkg/scene"
)

func countColor(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestFillTriangle_Basic(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	r := NewRaster(fb)
	fb.Clear(RGB(0, 0, 0))

	red := RGB(255, 0, 0)
	r.fillTriangle(math3d.V2(0, 0), math3d.V2(0, 10), math3d.V2(10, 0), red)

	if countColor(fb, red) == 0 {
		t.Fatal("no pixels filled")
	}
	if fb.GetPixel(1, 1) != red {
		t.Error("interior pixel (1,1) not filled")
	}
	if fb.GetPixel(8, 8) == red {
		t.Error("pixel (8,8) outside the hypotenuse was filled")
	}
	// Nothing lands outside the bounding box.
	for y := range 20 {
		for x := range 20 {
			if (x > 10 || y > 10) && fb.GetPixel(x, y) == red {
				t.Fatalf("pixel (%d,%d) outside bbox filled", x, y)
			}
		}
	}
}

func TestFillTriangle_OrientationIndependent(t *testing.T) {
	// The quad split emits both screen orientations; both must fill.
	for _, tc := range []struct {
		name    string
		a, b, c math3d.Vec2
	}{
		{"native winding", math3d.V2(0, 0), math3d.V2(0, 10), math3d.V2(10, 0)},
		{"reversed winding", math3d.V2(0, 0), math3d.V2(10, 0), math3d.V2(0, 10)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(20, 20)
			r := NewRaster(fb)
			fb.Clear(RGB(0, 0, 0))
			white := RGB(255, 255, 255)
			r.fillTriangle(tc.a, tc.b, tc.c, white)
			if countColor(fb, white) == 0 {
				t.Error("no pixels filled")
			}
		})
	}
}

func TestFillTriangle_SharedEdgeExactPartition(t *testing.T) {
	// A square split along its diagonal must be covered exactly once: the
	// top-left fill convention assigns every boundary pixel to one side.
	q0 := math3d.V2(0, 10)
	q1 := math3d.V2(10, 10)
	q2 := math3d.V2(10, 0)
	q3 := math3d.V2(0, 0)

	count := func(a, b, c math3d.Vec2) int {
		fb := NewFramebuffer(16, 16)
		r := NewRaster(fb)
		fb.Clear(RGB(0, 0, 0))
		white := RGB(255, 255, 255)
		r.fillTriangle(a, b, c, white)
		return countColor(fb, white)
	}

	n1 := count(q0, q1, q2)
	n2 := count(q0, q3, q2)
	if n1+n2 != 100 {
		t.Errorf("triangle halves cover %d + %d = %d pixels, want exactly 100",
			n1, n2, n1+n2)
	}
}

func TestFillTriangle_Degenerate(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	r := NewRaster(fb)
	fb.Clear(RGB(0, 0, 0))
	white := RGB(255, 255, 255)

	t.Run("zero area", func(t *testing.T) {
		r.fillTriangle(math3d.V2(2, 2), math3d.V2(5, 5), math3d.V2(8, 8), white)
		if countColor(fb, white) != 0 {
			t.Error("collinear triangle filled pixels")
		}
	})

	t.Run("fully off screen", func(t *testing.T) {
		r.fillTriangle(math3d.V2(-20, -20), math3d.V2(-10, -20), math3d.V2(-20, -10), white)
		if countColor(fb, white) != 0 {
			t.Error("off-screen triangle filled pixels")
		}
	})
}

func TestFillTriangle_ClampsToCanvas(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	r := NewRaster(fb)
	fb.Clear(RGB(0, 0, 0))
	white := RGB(255, 255, 255)

	// Much larger than the canvas; every pixel inside gets painted, and
	// the scan never touches memory outside the buffer.
	r.fillTriangle(math3d.V2(-50, 100), math3d.V2(100, -50), math3d.V2(-50, -50), white)
	if countColor(fb, white) != 64 {
		t.Errorf("covering triangle filled %d of 64 pixels", countColor(fb, white))
	}
}

// rasterQuad builds a solid plain-shaded quad entity whose transform buffers
// are pre-filled with an axis-aligned screen square from (20,20) to (40,40).
func rasterQuad() *scene.Entity {
	style := scene.DefaultStyle()
	style.ShadeMode = scene.ShadePlain
	style.Color = RGB(200, 50, 50)

	e := scene.NewEntity("quad", style)
	e.Vertices = []math3d.Vec3{
		math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(1, 1, 0), math3d.V3(-1, 1, 0),
	}
	e.Polygons = []scene.Polygon{scene.NewPolygon(0, 1, 2, 3)}
	e.Polygons[0].WorldNormal = math3d.V3(0, 0, 1)
	e.WorldCoords = make([]math3d.Vec3, 4)
	copy(e.WorldCoords, e.Vertices)
	e.ClipCoords = []math3d.Vec4{
		math3d.V4(0, 0, 0, 1), math3d.V4(0, 0, 0, 1),
		math3d.V4(0, 0, 0, 1), math3d.V4(0, 0, 0, 1),
	}
	e.ScreenCoords = []math3d.Vec2{
		math3d.V2(20, 40), math3d.V2(40, 40), math3d.V2(40, 20), math3d.V2(20, 20),
	}
	e.ClipFlags = make([]uint8, 4)
	return e
}

func testCamera() *scene.Camera {
	cam := scene.NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 5))
	return cam
}

func TestRasterRender_PlainQuad(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	r := NewRaster(fb)
	e := rasterQuad()

	r.Render([]*scene.Entity{e}, testCamera(), nil)

	base := e.Style.Color
	if got := countColor(fb, base); got != 400 {
		t.Errorf("filled %d pixels, want 400 (20x20 square)", got)
	}
	if fb.GetPixel(30, 30) != base {
		t.Error("quad center not filled with base color")
	}
	if fb.GetPixel(19, 30) == base || fb.GetPixel(30, 19) == base {
		t.Error("pixels outside the quad bbox filled")
	}
}

func TestRasterRender_AllClippedDrawsNothing(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	r := NewRaster(fb)
	r.Background = RGB(1, 2, 3)
	e := rasterQuad()
	for i := range e.ClipFlags {
		e.ClipFlags[i] = scene.ClipNear
	}

	r.Render([]*scene.Entity{e}, testCamera(), nil)

	if got := countColor(fb, r.Background); got != 64*64 {
		t.Errorf("%d background pixels, want every pixel untouched", got)
	}
}

func TestRasterRender_SkipsNonSolid(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	r := NewRaster(fb)
	e := rasterQuad()
	e.Style.DrawMode = scene.DrawWireframe

	r.Render([]*scene.Entity{e}, testCamera(), nil)

	if got := countColor(fb, e.Style.Color); got != 0 {
		t.Errorf("wireframe entity painted %d pixels in the software backend", got)
	}
}

func TestRasterRender_LightsourceShading(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	r := NewRaster(fb)
	e := rasterQuad()
	e.Style.ShadeMode = scene.ShadeLightsource
	e.Style.Color = RGB(200, 200, 200)

	// Head-on distant light at half intensity halves the base color.
	lights := []scene.Light{
		scene.NewDistantLight(math3d.V3(0, 0, -1), [3]float64{1, 1, 1}, 0.5),
	}
	r.Render([]*scene.Entity{e}, testCamera(), lights)

	if got := fb.GetPixel(30, 30); got != RGB(100, 100, 100) {
		t.Errorf("shaded center = %v, want (100,100,100)", got)
	}
}
