package routing

import (
	"math"
	"testing"

	"tether/core"
	"tether/geometry"
	"tether/obstacles"
)

func newTestRouter() *Router {
	return NewRouter(obstacles.NewAvoider(10), 20, 30)
}

func box(id int, left, top, width, height float64) core.Shape {
	return core.Shape{
		ID:       id,
		Bounds:   core.Bounds{Left: left, Top: top, Width: width, Height: height},
		Geometry: core.Geometry{Kind: core.KindRectangle},
	}
}

func checkEndpoints(t *testing.T, path core.Path, start, end core.Point) {
	t.Helper()
	if path.Length() < 2 {
		t.Fatalf("path too short: %v", path.Points)
	}
	if path.Start() != start {
		t.Errorf("path starts at %v, want %v", path.Start(), start)
	}
	if path.End() != end {
		t.Errorf("path ends at %v, want %v", path.End(), end)
	}
}

func checkOrthogonal(t *testing.T, path core.Path) {
	t.Helper()
	for i := 0; i < path.Length()-1; i++ {
		a, b := path.Points[i], path.Points[i+1]
		if !geometry.EqualWithin(a.X, b.X) && !geometry.EqualWithin(a.Y, b.Y) {
			t.Errorf("segment %d (%v -> %v) is diagonal", i, a, b)
		}
	}
}

func TestAngleFor(t *testing.T) {
	tests := []struct {
		side core.Side
		want float64
	}{
		{core.SideTop, 90},
		{core.SideRight, 180},
		{core.SideBottom, -90},
		{core.SideLeft, 0},
	}
	for _, tt := range tests {
		if got := AngleFor(tt.side); got != tt.want {
			t.Errorf("AngleFor(%v) = %v, want %v", tt.side, got, tt.want)
		}
	}
}

func TestRoute_AlignmentStraightening(t *testing.T) {
	r := newTestRouter()

	// A=(0,0,100,100) right midpoint, B=(300,10,100,100) left midpoint:
	// dy=10 is inside the 30-unit tolerance, so a single segment results.
	start := core.Point{X: 100, Y: 50}
	end := core.Point{X: 300, Y: 60}
	path, clean := r.Route(start, end, core.SideRight, core.SideLeft, nil, nil)

	if !clean {
		t.Error("unobstructed route reported degraded")
	}
	checkEndpoints(t, path, start, end)
	if path.Length() != 2 {
		t.Errorf("expected a single segment, got %d points: %v", path.Length(), path.Points)
	}
	if path.EndAngle != 0 {
		t.Errorf("EndAngle = %v, want 0 for a left-side arrival", path.EndAngle)
	}
}

func TestRoute_OppositeMidline(t *testing.T) {
	r := newTestRouter()

	// dy=100 exceeds the tolerance: expect a 3-segment route through the
	// midline between the stubs.
	start := core.Point{X: 100, Y: 50}
	end := core.Point{X: 300, Y: 150}
	path, clean := r.Route(start, end, core.SideRight, core.SideLeft, nil, nil)

	if !clean {
		t.Error("unobstructed route reported degraded")
	}
	checkEndpoints(t, path, start, end)
	checkOrthogonal(t, path)
	if path.Length() != 4 {
		t.Fatalf("expected 4 points (3 segments), got %v", path.Points)
	}
	midX := (start.X + 20 + end.X - 20) / 2
	if !geometry.EqualWithin(path.Points[1].X, midX) || !geometry.EqualWithin(path.Points[2].X, midX) {
		t.Errorf("interior points %v, %v should sit on midline x=%v", path.Points[1], path.Points[2], midX)
	}
}

func TestRoute_VerticalOppositePair(t *testing.T) {
	r := newTestRouter()

	start := core.Point{X: 50, Y: 100}
	end := core.Point{X: 250, Y: 300}
	path, _ := r.Route(start, end, core.SideBottom, core.SideTop, nil, nil)

	checkEndpoints(t, path, start, end)
	checkOrthogonal(t, path)
	midY := (start.Y + 20 + end.Y - 20) / 2
	if !geometry.EqualWithin(path.Points[1].Y, midY) {
		t.Errorf("first corner %v should sit on midline y=%v", path.Points[1], midY)
	}
}

func TestRoute_MixedDirections(t *testing.T) {
	r := newTestRouter()

	// Horizontal departure, vertical arrival: the horizontal axis is
	// traversed first, giving an L with one corner.
	start := core.Point{X: 100, Y: 50}
	end := core.Point{X: 300, Y: 200}
	path, clean := r.Route(start, end, core.SideRight, core.SideTop, nil, nil)

	if !clean {
		t.Error("unobstructed route reported degraded")
	}
	checkEndpoints(t, path, start, end)
	checkOrthogonal(t, path)
	if path.Length() != 3 {
		t.Fatalf("expected an L (3 points), got %v", path.Points)
	}
	corner := path.Points[1]
	if !geometry.EqualWithin(corner.X, end.X) || !geometry.EqualWithin(corner.Y, start.Y) {
		t.Errorf("corner = %v, want (%v,%v)", corner, end.X, start.Y)
	}
	if path.EndAngle != 90 {
		t.Errorf("EndAngle = %v, want 90 for a top-side arrival", path.EndAngle)
	}
}

func TestRoute_SameSidePair(t *testing.T) {
	r := newTestRouter()

	// right-to-right with nothing in the way: the first candidate (hold
	// the start's stub coordinate) wins.
	start := core.Point{X: 100, Y: 50}
	end := core.Point{X: 100, Y: 250}
	path, clean := r.Route(start, end, core.SideRight, core.SideRight, nil, nil)

	if !clean {
		t.Error("unobstructed route reported degraded")
	}
	checkEndpoints(t, path, start, end)
	checkOrthogonal(t, path)
	// The route must bulge out to the right of both endpoints.
	maxX := 0.0
	for _, p := range path.Points {
		maxX = math.Max(maxX, p.X)
	}
	if maxX < 120 {
		t.Errorf("same-side route never cleared the stub (max x %v)", maxX)
	}
}

func TestRoute_AvoidsObstacle(t *testing.T) {
	r := newTestRouter()

	// A third shape sits on the midline channel between the endpoints;
	// the route must pick an alternate around it.
	blocker := box(3, 180, 170, 40, 60)
	shapes := []core.Shape{box(1, 0, 100, 100, 100), box(2, 300, 200, 100, 100), blocker}
	exclude := map[int]bool{1: true, 2: true}

	start := core.Point{X: 100, Y: 150}
	end := core.Point{X: 300, Y: 250}
	path, clean := r.Route(start, end, core.SideRight, core.SideLeft, shapes, exclude)

	checkEndpoints(t, path, start, end)
	checkOrthogonal(t, path)
	if !clean {
		// The fixed search space has clean candidates here; degradation
		// would mean the alternates were never tried.
		t.Fatalf("expected a collision-free alternate, got degraded path %v", path.Points)
	}
	if r.Avoider().Collides(path.Points, shapes, exclude) {
		t.Errorf("returned path still collides: %v", path.Points)
	}
}

func TestRoute_DegradedWhenBoxedIn(t *testing.T) {
	r := newTestRouter()

	// Surround the corridor completely so no candidate is clean. The
	// route still returns the default path rather than failing.
	shapes := []core.Shape{
		box(3, 110, -500, 30, 1000),
		box(4, 260, -500, 30, 1000),
	}
	start := core.Point{X: 100, Y: 150}
	end := core.Point{X: 300, Y: 150}
	path, clean := r.Route(start, end, core.SideRight, core.SideLeft, shapes, nil)

	checkEndpoints(t, path, start, end)
	if clean {
		t.Error("expected degraded result when fully boxed in")
	}
}

func TestRouteStraight(t *testing.T) {
	r := newTestRouter()
	path := r.RouteStraight(core.Point{X: 0, Y: 0}, core.Point{X: 100, Y: 40}, core.SideLeft)
	if path.Length() != 2 {
		t.Fatalf("expected 2 points, got %v", path.Points)
	}
	if path.EndAngle != 0 {
		t.Errorf("EndAngle = %v, want 0", path.EndAngle)
	}
}

func TestRouteCurved(t *testing.T) {
	r := newTestRouter()
	start := core.Point{X: 0, Y: 0}
	end := core.Point{X: 100, Y: 40}
	path := r.RouteCurved(start, end, core.SideLeft)

	checkEndpoints(t, path, start, end)
	if path.Length() < 10 {
		t.Errorf("curved path should be densely sampled, got %d points", path.Length())
	}
	// The curve must stay within the x range of its endpoints.
	for _, p := range path.Points {
		if p.X < -geometry.Eps || p.X > 100+geometry.Eps {
			t.Errorf("sample %v outside endpoint x range", p)
		}
	}
}
