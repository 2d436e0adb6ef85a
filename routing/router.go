// Package routing computes connector paths between two resolved boundary
// points, given the approach direction at each end. The primary router
// produces orthogonal polylines with short stubs at both ends; straight
// and curved alternates are available per connector.
package routing

import (
	"math"

	"tether/core"
	"tether/geometry"
	"tether/obstacles"
)

const (
	// DefaultStubLength is how far a connector extends straight out from
	// a shape before any turn.
	DefaultStubLength = 20.0

	// DefaultAlignTolerance is the perpendicular distance below which two
	// near-aligned connection points are treated as exactly aligned.
	DefaultAlignTolerance = 30.0
)

// Router computes connector polylines. It is stateless apart from its
// tuning values and safe to share across connectors.
type Router struct {
	avoider  *obstacles.Avoider
	stub     float64
	alignTol float64
}

// NewRouter creates a router. Zero or negative tuning values fall back to
// the defaults.
func NewRouter(avoider *obstacles.Avoider, stub, alignTol float64) *Router {
	if stub <= 0 {
		stub = DefaultStubLength
	}
	if alignTol <= 0 {
		alignTol = DefaultAlignTolerance
	}
	return &Router{avoider: avoider, stub: stub, alignTol: alignTol}
}

// Avoider returns the obstacle avoider the router consults.
func (r *Router) Avoider() *obstacles.Avoider { return r.avoider }

// AngleFor returns the arrow angle in degrees for a connector arriving at
// a side, with 0 along +x. The arrowhead always points into the shape.
func AngleFor(toDir core.Side) float64 {
	switch toDir {
	case core.SideTop:
		return 90
	case core.SideRight:
		return 180
	case core.SideBottom:
		return -90
	default:
		return 0
	}
}

// Route computes an orthogonal polyline from start to end. The returned
// path always begins exactly at start and ends exactly at end. The second
// return value is false when no collision-free path existed in the search
// space and the colliding default was used — degraded but functional.
func (r *Router) Route(start, end core.Point, fromDir, toDir core.Side, shapes []core.Shape, exclude map[int]bool) (core.Path, bool) {
	angle := AngleFor(toDir)

	// Alignment straightening: a compatible opposite pair within the
	// tolerance collapses to a single segment. The endpoints stay exactly
	// on the shapes; AlignmentSnap is what makes the pair truly collinear.
	// The straightened segment is still a candidate and must pass the
	// obstacle check like any other.
	if fromDir == toDir.Opposite() && r.aligned(start, end, fromDir) {
		straight := []core.Point{start, end}
		if !r.avoider.Collides(straight, shapes, exclude) {
			return core.Path{Points: straight, EndAngle: angle}, true
		}
	}

	def := r.defaultPath(start, end, fromDir, toDir, 1.0, shapes, exclude)
	if !r.avoider.Collides(def, shapes, exclude) {
		return core.Path{Points: def, EndAngle: angle}, true
	}

	points, ok := r.avoider.FindAlternate(def, r.alternates(start, end, fromDir, toDir, shapes, exclude), shapes, exclude)
	return core.Path{Points: points, EndAngle: angle}, ok
}

// RouteStraight returns a single straight segment.
func (r *Router) RouteStraight(start, end core.Point, toDir core.Side) core.Path {
	return core.Path{Points: []core.Point{start, end}, EndAngle: AngleFor(toDir)}
}

// RouteCurved returns a sampled cubic curve whose control points are
// offset horizontally by half the endpoint delta.
func (r *Router) RouteCurved(start, end core.Point, toDir core.Side) core.Path {
	half := (end.X - start.X) / 2
	c1 := core.Point{X: start.X + half, Y: start.Y}
	c2 := core.Point{X: end.X - half, Y: end.Y}

	const samples = 16
	points := make([]core.Point, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		points = append(points, cubicAt(start, c1, c2, end, t))
	}
	// Exact endpoints regardless of float error in the sampling.
	points[0] = start
	points[len(points)-1] = end
	return core.Path{Points: points, EndAngle: AngleFor(toDir)}
}

// aligned reports whether the perpendicular offset between the two stub
// points is within the alignment tolerance for an opposite-direction pair.
func (r *Router) aligned(start, end core.Point, fromDir core.Side) bool {
	if fromDir.IsHorizontal() {
		return math.Abs(start.Y-end.Y) < r.alignTol
	}
	return math.Abs(start.X-end.X) < r.alignTol
}

// defaultPath builds the preferred topology for the direction pair, with
// the stub length scaled by stubScale. The raw start and end are always
// the first and last points.
func (r *Router) defaultPath(start, end core.Point, fromDir, toDir core.Side, stubScale float64, shapes []core.Shape, exclude map[int]bool) []core.Point {
	startStub := offset(start, fromDir, r.stub*stubScale)
	endStub := offset(end, toDir, r.stub*stubScale)

	var interior []core.Point
	switch {
	case fromDir == toDir.Opposite():
		interior = midlinePath(startStub, endStub, fromDir)
	case fromDir == toDir:
		interior = r.sameSidePath(startStub, endStub, fromDir, start, end, shapes, exclude)
	default:
		interior = mixedPath(startStub, endStub, fromDir)
	}

	points := make([]core.Point, 0, len(interior)+2)
	points = append(points, start)
	points = append(points, interior...)
	points = append(points, end)
	return normalize(points)
}

// midlinePath is the 3-segment route for an opposite-side pair: out to the
// midline between the stubs, across, then in.
func midlinePath(startStub, endStub core.Point, fromDir core.Side) []core.Point {
	if fromDir.IsHorizontal() {
		midX := (startStub.X + endStub.X) / 2
		return []core.Point{
			startStub,
			{X: midX, Y: startStub.Y},
			{X: midX, Y: endStub.Y},
			endStub,
		}
	}
	midY := (startStub.Y + endStub.Y) / 2
	return []core.Point{
		startStub,
		{X: startStub.X, Y: midY},
		{X: endStub.X, Y: midY},
		endStub,
	}
}

// sameSidePath handles pairs like right-to-right: hold the start's stub
// coordinate as long as possible, or switch immediately to the end's stub
// coordinate, whichever first avoids collisions; otherwise fall back to a
// midline route.
func (r *Router) sameSidePath(startStub, endStub core.Point, dir core.Side, start, end core.Point, shapes []core.Shape, exclude map[int]bool) []core.Point {
	var holdStart, holdEnd []core.Point
	if dir.IsHorizontal() {
		holdStart = []core.Point{startStub, {X: startStub.X, Y: endStub.Y}, endStub}
		holdEnd = []core.Point{startStub, {X: endStub.X, Y: startStub.Y}, endStub}
	} else {
		holdStart = []core.Point{startStub, {X: endStub.X, Y: startStub.Y}, endStub}
		holdEnd = []core.Point{startStub, {X: startStub.X, Y: endStub.Y}, endStub}
	}

	for _, interior := range [][]core.Point{holdStart, holdEnd} {
		candidate := append(append([]core.Point{start}, interior...), end)
		if !r.avoider.Collides(normalize(candidate), shapes, exclude) {
			return interior
		}
	}
	return midlinePath(startStub, endStub, dir)
}

// mixedPath is the L-shaped route when exactly one direction is
// horizontal: the horizontal endpoint's axis is traversed first.
func mixedPath(startStub, endStub core.Point, fromDir core.Side) []core.Point {
	if fromDir.IsHorizontal() {
		return []core.Point{startStub, {X: endStub.X, Y: startStub.Y}, endStub}
	}
	return []core.Point{startStub, {X: startStub.X, Y: endStub.Y}, endStub}
}

// alternates generates the bounded candidate list used when the default
// path collides: the same topology with the start stub extended outward at
// 1x and 1.5x the standard offset, then the topology flipped to approach
// from the other lateral side.
func (r *Router) alternates(start, end core.Point, fromDir, toDir core.Side, shapes []core.Shape, exclude map[int]bool) [][]core.Point {
	candidates := [][]core.Point{
		r.defaultPath(start, end, fromDir, toDir, 2.0, shapes, exclude),
		r.defaultPath(start, end, fromDir, toDir, 2.5, shapes, exclude),
	}

	startStub := offset(start, fromDir, r.stub)
	endStub := offset(end, toDir, r.stub)

	var flipped []core.Point
	switch {
	case fromDir == toDir.Opposite():
		// Turn early (at the start stub) or late (at the end stub)
		// instead of at the midline, picking the first by which side of
		// the corridor the destination lies on.
		early := []core.Point{startStub, {X: startStub.X, Y: endStub.Y}, endStub}
		late := []core.Point{startStub, {X: endStub.X, Y: startStub.Y}, endStub}
		if !fromDir.IsHorizontal() {
			early = []core.Point{startStub, {X: endStub.X, Y: startStub.Y}, endStub}
			late = []core.Point{startStub, {X: startStub.X, Y: endStub.Y}, endStub}
		}
		candidates = append(candidates,
			wrap(start, early, end),
			wrap(start, late, end))
	case fromDir == toDir:
		flipped = midlinePath(startStub, endStub, fromDir)
		candidates = append(candidates, wrap(start, flipped, end))
	default:
		// Flip the L to traverse the other axis first.
		if fromDir.IsHorizontal() {
			flipped = []core.Point{startStub, {X: startStub.X, Y: endStub.Y}, endStub}
		} else {
			flipped = []core.Point{startStub, {X: endStub.X, Y: startStub.Y}, endStub}
		}
		candidates = append(candidates, wrap(start, flipped, end))
	}

	return candidates
}

// wrap builds a full normalized polyline from raw endpoints and interior
// points.
func wrap(start core.Point, interior []core.Point, end core.Point) []core.Point {
	points := make([]core.Point, 0, len(interior)+2)
	points = append(points, start)
	points = append(points, interior...)
	points = append(points, end)
	return normalize(points)
}

// offset returns p moved by dist along the side's outward vector.
func offset(p core.Point, side core.Side, dist float64) core.Point {
	v := side.Vector()
	return core.Point{X: p.X + v.X*dist, Y: p.Y + v.Y*dist}
}

// normalize removes consecutive duplicate points and merges collinear
// runs, leaving only the corners plus the exact endpoints.
func normalize(points []core.Point) []core.Point {
	if len(points) < 3 {
		return points
	}
	out := []core.Point{points[0]}
	for i := 1; i < len(points); i++ {
		p := points[i]
		last := out[len(out)-1]
		if geometry.EqualWithin(p.X, last.X) && geometry.EqualWithin(p.Y, last.Y) {
			continue
		}
		// Drop the middle point of a collinear horizontal or vertical run.
		if len(out) >= 2 {
			prev := out[len(out)-2]
			sameX := geometry.EqualWithin(prev.X, last.X) && geometry.EqualWithin(last.X, p.X)
			sameY := geometry.EqualWithin(prev.Y, last.Y) && geometry.EqualWithin(last.Y, p.Y)
			if sameX || sameY {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// cubicAt evaluates a cubic Bezier at parameter t.
func cubicAt(p0, p1, p2, p3 core.Point, t float64) core.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return core.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
