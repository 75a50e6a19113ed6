package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder for embedded textures
	_ "image/png"  // Register PNG decoder for embedded textures
	"math"
	"path/filepath"

	"github.com/gogpu/gg"
	"github.com/qmuntal/gltf"

	"github.com/fizzl/facet/pkg/math3d"
)

// LoadGLB loads a binary glTF file into an entity: triangle polygons, a
// unique edge list (for wireframe draw mode), face normals, and the first
// embedded texture if one exists. The style is copied onto the entity.
func LoadGLB(path string, style Style) (*Entity, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open glb: %w", err)
	}

	e := NewEntity(filepath.Base(path), style)

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readPositions(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
			}

			base := len(e.Vertices)
			e.Vertices = append(e.Vertices, positions...)

			var indices []int
			if prim.Indices != nil {
				indices, err = readIndices(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
				}
			} else {
				indices = make([]int, len(positions))
				for i := range indices {
					indices[i] = i
				}
			}

			// glTF front faces are CCW viewed from outside, which is the
			// winding the transform pass and rasterizer expect.
			for i := 0; i+2 < len(indices); i += 3 {
				e.Polygons = append(e.Polygons, NewPolygon(
					base+indices[i],
					base+indices[i+1],
					base+indices[i+2],
				))
			}
		}
	}

	e.Edges = uniqueEdges(e.Polygons)
	e.MarkGeometryChanged()

	if tex := firstEmbeddedTexture(doc); tex != nil {
		e.Textures = append(e.Textures, tex)
		for i := range e.Polygons {
			e.Polygons[i].Texture = 0
		}
	}

	return e, nil
}

// FitTo recenters the entity's local geometry on the origin and uniformly
// scales its largest dimension to size.
func (e *Entity) FitTo(size float64) {
	if len(e.Vertices) == 0 {
		return
	}
	minV, maxV := e.Vertices[0], e.Vertices[0]
	for _, v := range e.Vertices[1:] {
		minV = math3d.V3(math.Min(minV.X, v.X), math.Min(minV.Y, v.Y), math.Min(minV.Z, v.Z))
		maxV = math3d.V3(math.Max(maxV.X, v.X), math.Max(maxV.Y, v.Y), math.Max(maxV.Z, v.Z))
	}
	center := minV.Add(maxV).Scale(0.5)
	ext := maxV.Sub(minV)
	maxDim := math.Max(ext.X, math.Max(ext.Y, ext.Z))
	scale := 1.0
	if maxDim > 0 {
		scale = size / maxDim
	}
	for i := range e.Vertices {
		e.Vertices[i] = e.Vertices[i].Sub(center).Scale(scale)
	}
	e.MarkGeometryChanged()
}

// uniqueEdges derives the undirected edge set of a triangle list.
func uniqueEdges(polys []Polygon) []Edge {
	seen := make(map[[2]int]struct{})
	var edges []Edge
	for _, p := range polys {
		n := len(p.Vertices)
		for i := range n {
			a, b := p.Vertices[i], p.Vertices[(i+1)%n]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, Edge{A: a, B: b})
		}
	}
	return edges
}

// firstEmbeddedTexture decodes the first image embedded in the document,
// or returns nil when there is none.
func firstEmbeddedTexture(doc *gltf.Document) *gg.ImageBuf {
	for _, img := range doc.Images {
		if img.BufferView == nil {
			continue
		}
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			continue
		}
		data := buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			continue
		}
		return gg.ImageBufFromImage(decoded)
	}
	return nil
}

// readPositions reads a VEC3 float accessor into Vec3s.
func readPositions(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3 accessor, got %v", accessor.Type)
	}
	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12
	}
	out := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		out[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return out, nil
}

// readIndices reads a scalar accessor of ubyte/ushort/uint indices.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	out := make([]int, accessor.Count)
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range accessor.Count {
			out[i] = int(data[i*stride])
		}
	case gltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range accessor.Count {
			off := i * stride
			out[i] = int(uint16(data[off]) | uint16(data[off+1])<<8)
		}
	case gltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range accessor.Count {
			off := i * stride
			out[i] = int(uint32(data[off]) | uint32(data[off+1])<<8 |
				uint32(data[off+2])<<16 | uint32(data[off+3])<<24)
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
	}
	return out, nil
}

// accessorBytes returns the accessor's backing bytes and byte stride.
// Only embedded (GLB) buffers are supported.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv := doc.BufferViews[*accessor.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.URI != "" {
		return nil, 0, fmt.Errorf("external buffers not supported")
	}
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}
	start := bv.ByteOffset + accessor.ByteOffset
	return buf.Data[start:], bv.ByteStride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
