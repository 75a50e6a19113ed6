package scene

import "github.com/fizzl/facet/pkg/math3d"

// Scene owns the entity graph, the camera and the light list.
type Scene struct {
	Camera   *Camera
	Lights   []Light
	Entities []*Entity
}

// NewScene creates an empty scene with a default camera.
func NewScene() *Scene {
	return &Scene{Camera: NewCamera()}
}

// Add appends entities to the scene.
func (s *Scene) Add(ents ...*Entity) {
	s.Entities = append(s.Entities, ents...)
}

// Update runs the per-frame transform pass against a viewport of the given
// pixel dimensions and returns the render list. For every entity it fills
// the world, clip and screen coordinate buffers, ORs clip flags for vertices
// outside the view volume, and refreshes world-space polygon normals from
// the cached local ones. Local face normals are recomputed only for entities
// marked geometry-changed.
//
// All geometry in the returned list reflects the scene state at the start of
// this call; entities must not be mutated concurrently.
func (s *Scene) Update(width, height int) []*Entity {
	viewProj := s.Camera.ViewProjection()
	w := float64(width)
	h := float64(height)

	for _, e := range s.Entities {
		if e.dirty {
			e.updateNormals()
		}
		n := len(e.Vertices)
		e.ensureBuffers(n)
		e.depthValid = false

		mvp := viewProj.Mul(e.Matrix)
		for i, v := range e.Vertices {
			e.WorldCoords[i] = e.Matrix.MulVec3(v)

			clip := mvp.MulVec4(math3d.V4FromV3(v, 1))
			e.ClipCoords[i] = clip
			e.ClipFlags[i] |= clipStatus(clip)

			if clip.W > 0 {
				ndc := clip.PerspectiveDivide()
				e.ScreenCoords[i] = math3d.V2(
					(ndc.X+1)*0.5*w,
					(1-ndc.Y)*0.5*h, // Y flipped: screen space is y-down
				)
			}
		}

		for i := range e.Polygons {
			p := &e.Polygons[i]
			p.WorldNormal = e.Matrix.MulVec3Dir(p.Normal).Normalize()
		}
	}

	return s.Entities
}

// clipStatus returns the clip flag bits for a clip-space coordinate.
func clipStatus(c math3d.Vec4) uint8 {
	var f uint8
	if c.W <= 0 {
		return ClipNear
	}
	if c.X < -c.W {
		f |= ClipLeft
	}
	if c.X > c.W {
		f |= ClipRight
	}
	if c.Y < -c.W {
		f |= ClipBottom
	}
	if c.Y > c.W {
		f |= ClipTop
	}
	if c.Z < -c.W {
		f |= ClipNear
	}
	if c.Z > c.W {
		f |= ClipFar
	}
	return f
}
