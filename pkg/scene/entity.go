package scene

import (
	"image/color"

	"github.com/gogpu/gg"

	"github.com/fizzl/facet/pkg/math3d"
)

// Clip flag bits. A vertex with any bit set lies outside the view volume on
// that side. Flags are OR-accumulated by the transform pass; callers that
// want per-frame flags must ResetClip explicitly.
const (
	ClipLeft uint8 = 1 << iota
	ClipRight
	ClipBottom
	ClipTop
	ClipNear
	ClipFar
)

// Edge is an ordered pair of vertex indices into an entity's vertex buffer.
type Edge struct {
	A, B int
}

// Polygon is an ordered run of 3 or 4 vertex indices with a cached face
// normal. The local normal is only recomputed when the entity's geometry is
// marked changed, never implicitly per frame; the world normal is refreshed
// by the transform pass from the cached local one.
type Polygon struct {
	Vertices    []int
	Normal      math3d.Vec3 // Local-space face normal
	WorldNormal math3d.Vec3 // Set by the transform pass each frame
	Color       *color.RGBA // Optional per-polygon override of the style color
	Texture     int         // Index into Entity.Textures, or NoTexture
}

// NoTexture marks a polygon with no texture reference.
const NoTexture = -1

// NewPolygon creates an untextured polygon over the given vertex indices.
func NewPolygon(indices ...int) Polygon {
	return Polygon{Vertices: indices, Texture: NoTexture}
}

// Entity is a renderable object: source geometry, a style, a model matrix,
// and the per-frame transform buffers the renderer reads. The renderer never
// mutates an entity; it only reads the transformed buffers.
type Entity struct {
	Name     string
	Vertices []math3d.Vec3 // Local-space positions
	Edges    []Edge
	Polygons []Polygon
	Style    Style
	Matrix   math3d.Mat4

	Textures []*gg.ImageBuf // Referenced by Polygon.Texture (surface backend)
	Sprite   *gg.ImageBuf   // Drawn for ShadeSprite points (surface backend)

	// Per-frame buffers, owned by the entity and reused across frames.
	// They grow to vertex-buffer capacity and are never shrunk.
	WorldCoords  []math3d.Vec3 // After the model matrix
	ClipCoords   []math3d.Vec4 // After view-projection; W is the perspective divisor
	ScreenCoords []math3d.Vec2 // After perspective divide and viewport mapping
	ClipFlags    []uint8

	depth      float64
	depthValid bool
	dirty      bool
}

// NewEntity creates an empty entity with the given style (copied by value)
// and an identity model matrix.
func NewEntity(name string, style Style) *Entity {
	return &Entity{
		Name:   name,
		Style:  style,
		Matrix: math3d.Identity(),
		dirty:  true,
	}
}

// MarkGeometryChanged flags the entity so the next transform pass recomputes
// local face normals. Call after structurally editing Vertices or Polygons.
func (e *Entity) MarkGeometryChanged() {
	e.dirty = true
}

// Clipped reports whether vertex i carries any clip flag.
func (e *Entity) Clipped(i int) bool {
	if i >= len(e.ClipFlags) {
		return true
	}
	return e.ClipFlags[i] != 0
}

// ResetClip zeroes accumulated clip flags. The transform pass ORs new flags
// in; frame hygiene is the caller's job.
func (e *Entity) ResetClip() {
	for i := range e.ClipFlags {
		e.ClipFlags[i] = 0
	}
}

// AverageDepth returns the mean perspective divisor over the entity's
// vertices, computing it at most once per transform pass. Larger is farther
// from the camera.
func (e *Entity) AverageDepth() float64 {
	if e.depthValid {
		return e.depth
	}
	n := len(e.Vertices)
	if n == 0 || len(e.ClipCoords) < n {
		return 0
	}
	var sum float64
	for i := range n {
		sum += e.ClipCoords[i].W
	}
	e.depth = sum / float64(n)
	e.depthValid = true
	return e.depth
}

// ensureBuffers grows the per-frame buffers to hold n vertices. Existing
// capacity is reused; buffers never shrink, so clip flags survive growth.
func (e *Entity) ensureBuffers(n int) {
	if cap(e.WorldCoords) < n {
		world := make([]math3d.Vec3, n)
		copy(world, e.WorldCoords)
		e.WorldCoords = world

		clip := make([]math3d.Vec4, n)
		copy(clip, e.ClipCoords)
		e.ClipCoords = clip

		screen := make([]math3d.Vec2, n)
		copy(screen, e.ScreenCoords)
		e.ScreenCoords = screen

		flags := make([]uint8, n)
		copy(flags, e.ClipFlags)
		e.ClipFlags = flags
		return
	}
	e.WorldCoords = e.WorldCoords[:n]
	e.ClipCoords = e.ClipCoords[:n]
	e.ScreenCoords = e.ScreenCoords[:n]
	e.ClipFlags = e.ClipFlags[:n]
}

// updateNormals recomputes local face normals from the first three vertices
// of each polygon.
func (e *Entity) updateNormals() {
	for i := range e.Polygons {
		p := &e.Polygons[i]
		if len(p.Vertices) < 3 {
			continue
		}
		v0 := e.Vertices[p.Vertices[0]]
		v1 := e.Vertices[p.Vertices[1]]
		v2 := e.Vertices[p.Vertices[2]]
		p.Normal = v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	}
	e.dirty = false
}

// NewCube creates a solid unit-style cube entity of the given size, with
// quad faces wound so that world normals point outward.
func NewCube(size float64, style Style) *Entity {
	h := size / 2
	e := NewEntity("cube", style)
	e.Vertices = []math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h}, // back
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}, // front
	}
	e.Edges = []Edge{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // back face
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // front face
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting edges
	}
	faces := [][4]int{
		{0, 3, 2, 1}, // back  (-Z)
		{4, 5, 6, 7}, // front (+Z)
		{0, 4, 7, 3}, // left  (-X)
		{1, 2, 6, 5}, // right (+X)
		{3, 7, 6, 2}, // top   (+Y)
		{0, 1, 5, 4}, // bottom(-Y)
	}
	for _, f := range faces {
		e.Polygons = append(e.Polygons, NewPolygon(f[0], f[1], f[2], f[3]))
	}
	return e
}
