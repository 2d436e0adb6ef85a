// Package geometry provides the pure float math used by the routing
// engine: segment intersection, point-in-polygon tests and the expansion
// of shape outlines by a collision margin.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"tether/core"
)

// Eps is the absolute tolerance used for float comparisons throughout the
// engine.
const Eps = 1e-9

// EqualWithin reports whether a and b are equal within Eps.
func EqualWithin(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, Eps)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b core.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b core.Point) core.Point {
	return core.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// IsHorizontalSegment reports whether the segment a-b is horizontal.
// Degenerate (zero-length) segments count as horizontal.
func IsHorizontalSegment(a, b core.Point) bool {
	return math.Abs(b.Y-a.Y) <= math.Abs(b.X-a.X)
}

// SegmentsIntersect reports whether segments p1-p2 and p3-p4 intersect,
// including touching endpoints and collinear overlap.
func SegmentsIntersect(p1, p2, p3, p4 core.Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > Eps && d2 < -Eps) || (d1 < -Eps && d2 > Eps)) &&
		((d3 > Eps && d4 < -Eps) || (d3 < -Eps && d4 > Eps)) {
		return true
	}

	// Collinear cases: a zero cross product with the point inside the
	// other segment's bounding range.
	if math.Abs(d1) <= Eps && onSegment(p3, p4, p1) {
		return true
	}
	if math.Abs(d2) <= Eps && onSegment(p3, p4, p2) {
		return true
	}
	if math.Abs(d3) <= Eps && onSegment(p1, p2, p3) {
		return true
	}
	if math.Abs(d4) <= Eps && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// cross returns the z component of (b-a) x (p-a).
func cross(a, b, p core.Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// onSegment reports whether p lies within the bounding range of segment
// a-b. Only valid when p is already known to be collinear with a-b.
func onSegment(a, b, p core.Point) bool {
	return p.X >= math.Min(a.X, b.X)-Eps && p.X <= math.Max(a.X, b.X)+Eps &&
		p.Y >= math.Min(a.Y, b.Y)-Eps && p.Y <= math.Max(a.Y, b.Y)+Eps
}

// SegmentIntersectsBounds reports whether segment a-b touches the given
// bounds: either endpoint inside, or the segment crossing any of the four
// edges.
func SegmentIntersectsBounds(a, b core.Point, bounds core.Bounds) bool {
	if bounds.Contains(a) || bounds.Contains(b) {
		return true
	}
	tl := core.Point{X: bounds.Left, Y: bounds.Top}
	tr := core.Point{X: bounds.Right(), Y: bounds.Top}
	br := core.Point{X: bounds.Right(), Y: bounds.Bottom()}
	bl := core.Point{X: bounds.Left, Y: bounds.Bottom()}
	return SegmentsIntersect(a, b, tl, tr) ||
		SegmentsIntersect(a, b, tr, br) ||
		SegmentsIntersect(a, b, br, bl) ||
		SegmentsIntersect(a, b, bl, tl)
}

// PointInPolygon reports whether p is inside the polygon using the
// ray-casting rule. Points exactly on an edge may land on either side.
func PointInPolygon(p core.Point, vertices []core.Point) bool {
	if len(vertices) < 3 {
		return false
	}
	inside := false
	j := len(vertices) - 1
	for i := 0; i < len(vertices); i++ {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// SegmentIntersectsPolygon reports whether segment a-b touches the
// polygon: either endpoint inside, or the segment crossing any edge.
func SegmentIntersectsPolygon(a, b core.Point, vertices []core.Point) bool {
	if len(vertices) < 3 {
		return false
	}
	if PointInPolygon(a, vertices) || PointInPolygon(b, vertices) {
		return true
	}
	j := len(vertices) - 1
	for i := 0; i < len(vertices); i++ {
		if SegmentsIntersect(a, b, vertices[j], vertices[i]) {
			return true
		}
		j = i
	}
	return false
}

// Centroid returns the vertex centroid of a polygon.
func Centroid(vertices []core.Point) core.Point {
	var c core.Point
	if len(vertices) == 0 {
		return c
	}
	for _, v := range vertices {
		c.X += v.X
		c.Y += v.Y
	}
	c.X /= float64(len(vertices))
	c.Y /= float64(len(vertices))
	return c
}

// ExpandPolygon shifts every vertex outward from the centroid by margin,
// producing the inflated outline used for collision testing.
func ExpandPolygon(vertices []core.Point, margin float64) []core.Point {
	c := Centroid(vertices)
	out := make([]core.Point, len(vertices))
	for i, v := range vertices {
		dx, dy := v.X-c.X, v.Y-c.Y
		length := math.Hypot(dx, dy)
		if length < Eps {
			out[i] = v
			continue
		}
		out[i] = core.Point{
			X: v.X + dx/length*margin,
			Y: v.Y + dy/length*margin,
		}
	}
	return out
}
