// Package anchor resolves normalized connection points (side + fraction)
// to absolute coordinates on a shape's boundary, and picks the initial
// side for a new connector.
package anchor

import (
	"math"

	"tether/core"
	"tether/geometry"
)

// Resolve returns the absolute boundary point for the given side and
// fractional position along it. Fraction runs left-to-right on the top
// and bottom sides and top-to-bottom on the left and right sides; 0.5 is
// the side midpoint. Fractions are clamped to [0,1].
//
// Rectangles resolve against the bounding box, ellipses against the true
// ellipse boundary, and polygons against their actual edges.
func Resolve(shape core.Shape, side core.Side, fraction float64) core.Point {
	fraction = clamp01(fraction)
	box := boxPoint(shape.Bounds, side, fraction)

	switch shape.Geometry.Kind {
	case core.KindEllipse:
		return ellipsePoint(shape.Bounds, side, box)
	case core.KindPolygon:
		return polygonPoint(shape, side, box)
	default:
		return box
	}
}

// ResolvePoint resolves a ConnectionPoint against its owning shape.
func ResolvePoint(shape core.Shape, cp core.ConnectionPoint) core.Point {
	return Resolve(shape, cp.Side, cp.Fraction)
}

// ChooseSide evaluates the midpoint of each of the four sides of shape
// and returns the side whose midpoint is closest to target. It is run
// independently for each endpoint of a new connector, relative to the
// other shape's center; the two choices are not jointly optimized.
func ChooseSide(shape core.Shape, target core.Point) core.Side {
	best := core.SideTop
	bestDist := math.Inf(1)
	for _, side := range []core.Side{core.SideTop, core.SideRight, core.SideBottom, core.SideLeft} {
		mid := Resolve(shape, side, 0.5)
		if d := geometry.Distance(mid, target); d < bestDist {
			best = side
			bestDist = d
		}
	}
	return best
}

// NearestPoint returns the connection point on shape whose resolved side
// midpoint is nearest to p. Used while dragging to pick the target's
// attachment point from the pointer position.
func NearestPoint(shape core.Shape, p core.Point) core.ConnectionPoint {
	side := ChooseSide(shape, p)
	return core.ConnectionPoint{ShapeID: shape.ID, Side: side, Fraction: 0.5}
}

// boxPoint returns the point on the bounding box at side/fraction.
func boxPoint(b core.Bounds, side core.Side, fraction float64) core.Point {
	switch side {
	case core.SideTop:
		return core.Point{X: b.Left + b.Width*fraction, Y: b.Top}
	case core.SideRight:
		return core.Point{X: b.Right(), Y: b.Top + b.Height*fraction}
	case core.SideBottom:
		return core.Point{X: b.Left + b.Width*fraction, Y: b.Bottom()}
	default:
		return core.Point{X: b.Left, Y: b.Top + b.Height*fraction}
	}
}

// ellipsePoint projects a bounding-box point onto the inscribed ellipse
// along the side's inward axis.
func ellipsePoint(b core.Bounds, side core.Side, box core.Point) core.Point {
	c := b.Center()
	rx, ry := b.Width/2, b.Height/2
	if rx < geometry.Eps || ry < geometry.Eps {
		return box
	}

	if side.IsHorizontal() {
		ny := (box.Y - c.Y) / ry
		ny = math.Max(-1, math.Min(1, ny))
		dx := rx * math.Sqrt(1-ny*ny)
		if side == core.SideLeft {
			return core.Point{X: c.X - dx, Y: box.Y}
		}
		return core.Point{X: c.X + dx, Y: box.Y}
	}

	nx := (box.X - c.X) / rx
	nx = math.Max(-1, math.Min(1, nx))
	dy := ry * math.Sqrt(1-nx*nx)
	if side == core.SideTop {
		return core.Point{X: box.X, Y: c.Y - dy}
	}
	return core.Point{X: box.X, Y: c.Y + dy}
}

// polygonPoint casts a ray from the bounding-box point inward and returns
// the first intersection with a polygon edge. Falls back to the box point
// when the ray misses every edge (degenerate vertex data).
func polygonPoint(shape core.Shape, side core.Side, box core.Point) core.Point {
	vertices := shape.Geometry.Vertices
	if len(vertices) < 3 {
		return box
	}

	// The ray spans the whole box along the side's inward axis.
	outward := side.Vector()
	far := core.Point{
		X: box.X - outward.X*(shape.Bounds.Width+1),
		Y: box.Y - outward.Y*(shape.Bounds.Height+1),
	}

	bestT := math.Inf(1)
	var best core.Point
	j := len(vertices) - 1
	for i := 0; i < len(vertices); i++ {
		if p, t, ok := intersectionParam(box, far, vertices[j], vertices[i]); ok && t < bestT {
			bestT = t
			best = p
		}
		j = i
	}
	if math.IsInf(bestT, 1) {
		return box
	}
	return best
}

// intersectionParam intersects segment a-b with segment c-d and returns
// the intersection point plus its parameter along a-b.
func intersectionParam(a, b, c, d core.Point) (core.Point, float64, bool) {
	r := core.Point{X: b.X - a.X, Y: b.Y - a.Y}
	s := core.Point{X: d.X - c.X, Y: d.Y - c.Y}
	denom := r.X*s.Y - r.Y*s.X
	if math.Abs(denom) < geometry.Eps {
		return core.Point{}, 0, false
	}
	t := ((c.X-a.X)*s.Y - (c.Y-a.Y)*s.X) / denom
	u := ((c.X-a.X)*r.Y - (c.Y-a.Y)*r.X) / denom
	if t < -geometry.Eps || t > 1+geometry.Eps || u < -geometry.Eps || u > 1+geometry.Eps {
		return core.Point{}, 0, false
	}
	return core.Point{X: a.X + t*r.X, Y: a.Y + t*r.Y}, t, true
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
