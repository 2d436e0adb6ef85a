// Package obstacles tests candidate connector paths against the other
// shapes in a document and picks collision-free alternates from a small,
// fixed search space.
package obstacles

import (
	"tether/core"
	"tether/geometry"
)

// DefaultMargin is the buffer distance added around a shape's geometry
// before collision testing.
const DefaultMargin = 10.0

// Avoider performs collision tests between path segments and shape
// geometry expanded by a fixed margin.
type Avoider struct {
	margin float64
}

// NewAvoider creates an avoider with the given obstacle margin. A zero or
// negative margin falls back to DefaultMargin.
func NewAvoider(margin float64) *Avoider {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Avoider{margin: margin}
}

// Margin returns the configured obstacle margin.
func (a *Avoider) Margin() float64 { return a.margin }

// SegmentCollides reports whether the segment p1-p2 touches the shape's
// geometry expanded by the margin. Polygons are expanded by shifting each
// vertex outward from the centroid; rectangles and ellipses use the padded
// bounding box.
func (a *Avoider) SegmentCollides(p1, p2 core.Point, shape core.Shape) bool {
	if shape.Geometry.Kind == core.KindPolygon && len(shape.Geometry.Vertices) >= 3 {
		expanded := geometry.ExpandPolygon(shape.Geometry.Vertices, a.margin)
		return geometry.SegmentIntersectsPolygon(p1, p2, expanded)
	}
	return geometry.SegmentIntersectsBounds(p1, p2, shape.Bounds.Expand(a.margin))
}

// Collides reports whether any segment of the polyline crosses any shape
// not listed in exclude. The endpoint shapes of a connector are always
// excluded by the caller, since the path legitimately touches them.
func (a *Avoider) Collides(points []core.Point, shapes []core.Shape, exclude map[int]bool) bool {
	for i := 0; i < len(points)-1; i++ {
		for _, shape := range shapes {
			if exclude[shape.ID] {
				continue
			}
			if a.SegmentCollides(points[i], points[i+1], shape) {
				return true
			}
		}
	}
	return false
}

// FindAlternate returns the first candidate polyline that is fully
// collision-free, in order. When every candidate collides it returns the
// original default path and false: a degraded but functional result, never
// an error. The search space is fixed and small, so this is bounded.
func (a *Avoider) FindAlternate(def []core.Point, candidates [][]core.Point, shapes []core.Shape, exclude map[int]bool) ([]core.Point, bool) {
	for _, candidate := range candidates {
		if len(candidate) < 2 {
			continue
		}
		if !a.Collides(candidate, shapes, exclude) {
			return candidate, true
		}
	}
	return def, false
}
