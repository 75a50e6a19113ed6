package render

import (
	"sort"

	"github.com/fizzl/facet/pkg/math3d"
	"github.com/fizzl/facet/pkg/scene"
)

// SortObjects depth-orders the render list in place for the painter's
// algorithm. Entities with SortDepth are ordered farthest first by average
// perspective divisor; SortNone entities come after every sorted one, and
// keep their encounter order relative to each other. Equal depths keep
// encounter order (the first comparator branch decides toward "farther").
func SortObjects(list []*scene.Entity) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		aSorted := a.Style.SortMode == scene.SortDepth
		bSorted := b.Style.SortMode == scene.SortDepth
		switch {
		case aSorted && bSorted:
			return a.AverageDepth() > b.AverageDepth()
		case aSorted:
			return true
		default:
			return false
		}
	})
}

// PolygonVisible reports whether a polygon survives culling: it is dropped
// when every vertex carries a clip flag, or when the entity is single-sided
// and the backface test fails.
//
// The backface test dots the raw camera world position against the polygon's
// world normal and compares against the style's hidden angle. This is a
// coarse approximation inherited from the original pipeline, not a true
// per-polygon view vector; substituting one changes rendered output, so the
// approximation is kept.
func PolygonVisible(e *scene.Entity, p *scene.Polygon, cameraPos math3d.Vec3) bool {
	flags := e.ClipFlags
	allClipped := true
	for _, vi := range p.Vertices {
		if vi >= len(flags) {
			return false
		}
		if flags[vi] == 0 {
			allClipped = false
			break
		}
	}
	if allClipped {
		return false
	}

	if !e.Style.DoubleSided && cameraPos.Dot(p.WorldNormal) < e.Style.HiddenAngle {
		return false
	}
	return true
}
