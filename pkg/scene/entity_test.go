package scene

import (
	"image/color"
	"testing"

	"github.com/fizzl/facet/pkg/math3d"
)

func TestNewPolygon(t *testing.T) {
	p := NewPolygon(0, 1, 2)
	if p.Texture != NoTexture {
		t.Errorf("new polygon texture = %d, want NoTexture", p.Texture)
	}
	if p.Color != nil {
		t.Error("new polygon has a color override")
	}
	if len(p.Vertices) != 3 {
		t.Errorf("vertex count = %d, want 3", len(p.Vertices))
	}
}

func TestEntityClipped_OutOfRange(t *testing.T) {
	e := NewEntity("empty", DefaultStyle())
	if !e.Clipped(0) {
		t.Error("vertex with no transform data should report clipped")
	}
	if !e.Clipped(100) {
		t.Error("out-of-range index should report clipped")
	}
}

func TestEntityAverageDepth(t *testing.T) {
	e := NewEntity("e", DefaultStyle())

	t.Run("no vertices", func(t *testing.T) {
		if d := e.AverageDepth(); d != 0 {
			t.Errorf("depth of empty entity = %v, want 0", d)
		}
	})

	t.Run("mean of perspective divisors", func(t *testing.T) {
		e.Vertices = make([]math3d.Vec3, 3)
		e.ClipCoords = []math3d.Vec4{
			math3d.V4(0, 0, 0, 2), math3d.V4(0, 0, 0, 4), math3d.V4(0, 0, 0, 6),
		}
		if d := e.AverageDepth(); d != 4 {
			t.Errorf("depth = %v, want 4", d)
		}
	})

	t.Run("cached until next transform pass", func(t *testing.T) {
		e.ClipCoords[0].W = 1000
		if d := e.AverageDepth(); d != 4 {
			t.Errorf("depth = %v, want cached 4", d)
		}
	})
}

func TestNewCube(t *testing.T) {
	cube := NewCube(2, DefaultStyle())

	if len(cube.Vertices) != 8 {
		t.Fatalf("vertex count = %d, want 8", len(cube.Vertices))
	}
	if len(cube.Polygons) != 6 {
		t.Fatalf("polygon count = %d, want 6", len(cube.Polygons))
	}
	if len(cube.Edges) != 12 {
		t.Fatalf("edge count = %d, want 12", len(cube.Edges))
	}

	// Normals are computed lazily on the first transform pass.
	cube.updateNormals()

	t.Run("normals point outward", func(t *testing.T) {
		for i, p := range cube.Polygons {
			var center math3d.Vec3
			for _, vi := range p.Vertices {
				center = center.Add(cube.Vertices[vi])
			}
			center = center.Scale(1.0 / 4)
			if p.Normal.Dot(center) <= 0 {
				t.Errorf("face %d normal %v points inward (center %v)", i, p.Normal, center)
			}
		}
	})

	t.Run("faces cover all axes", func(t *testing.T) {
		var sum math3d.Vec3
		for _, p := range cube.Polygons {
			sum = sum.Add(p.Normal)
		}
		// A closed box's face normals cancel out.
		if sum.Len() > 1e-9 {
			t.Errorf("face normals sum to %v, want zero", sum)
		}
	})
}

func TestStyleValueSemantics(t *testing.T) {
	style := DefaultStyle()
	a := NewEntity("a", style)
	b := NewEntity("b", style)

	a.Style.Color = color.RGBA{255, 0, 0, 255}
	if b.Style.Color == a.Style.Color {
		t.Error("mutating one entity's style leaked into another")
	}
}

func TestDefaultStyle(t *testing.T) {
	s := DefaultStyle()
	if s.DrawMode != DrawSolid {
		t.Errorf("draw mode = %v, want solid", s.DrawMode)
	}
	if s.ShadeMode != ShadeLightsource {
		t.Errorf("shade mode = %v, want lightsource", s.ShadeMode)
	}
	if s.SortMode != SortDepth {
		t.Errorf("sort mode = %v, want depth", s.SortMode)
	}
	if s.FillMode != FillInflate {
		t.Errorf("fill mode = %v, want inflate", s.FillMode)
	}
	if s.DoubleSided {
		t.Error("default style is double sided")
	}
	if s.HiddenAngle != 0 {
		t.Errorf("hidden angle = %v, want 0", s.HiddenAngle)
	}
}
