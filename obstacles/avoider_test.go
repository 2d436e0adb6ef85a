package obstacles

import (
	"testing"

	"tether/core"
)

func box(id int, left, top, width, height float64) core.Shape {
	return core.Shape{
		ID:       id,
		Bounds:   core.Bounds{Left: left, Top: top, Width: width, Height: height},
		Geometry: core.Geometry{Kind: core.KindRectangle},
	}
}

func TestSegmentCollides_Rectangle(t *testing.T) {
	a := NewAvoider(10)
	shape := box(1, 100, 100, 50, 50)

	tests := []struct {
		name   string
		p1, p2 core.Point
		want   bool
	}{
		{"through the middle", core.Point{X: 0, Y: 125}, core.Point{X: 300, Y: 125}, true},
		{"well above", core.Point{X: 0, Y: 0}, core.Point{X: 300, Y: 0}, false},
		{"inside the margin band", core.Point{X: 0, Y: 95}, core.Point{X: 300, Y: 95}, true},
		{"just outside the margin", core.Point{X: 0, Y: 85}, core.Point{X: 300, Y: 85}, false},
		{"endpoint inside", core.Point{X: 120, Y: 120}, core.Point{X: 400, Y: 400}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.SegmentCollides(tt.p1, tt.p2, shape); got != tt.want {
				t.Errorf("SegmentCollides() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentCollides_Polygon(t *testing.T) {
	a := NewAvoider(10)
	diamond := core.Shape{
		ID:     2,
		Bounds: core.Bounds{Left: 100, Top: 100, Width: 100, Height: 100},
		Geometry: core.Geometry{
			Kind:     core.KindPolygon,
			Vertices: []core.Point{{X: 150, Y: 100}, {X: 200, Y: 150}, {X: 150, Y: 200}, {X: 100, Y: 150}},
		},
	}

	// Through the center: collides.
	if !a.SegmentCollides(core.Point{X: 0, Y: 150}, core.Point{X: 300, Y: 150}, diamond) {
		t.Error("segment through diamond center should collide")
	}
	// Clipping the bounding-box corner but missing the expanded diamond.
	if a.SegmentCollides(core.Point{X: 90, Y: 100}, core.Point{X: 100, Y: 90}, diamond) {
		t.Error("segment past diamond corner should not collide")
	}
	// A horizontal line inside the margin band above the apex.
	if !a.SegmentCollides(core.Point{X: 0, Y: 95}, core.Point{X: 300, Y: 95}, diamond) {
		t.Error("segment within margin of apex should collide")
	}
}

func TestCollides_Exclusions(t *testing.T) {
	a := NewAvoider(10)
	shapes := []core.Shape{
		box(1, 0, 0, 100, 100),
		box(2, 300, 0, 100, 100),
		box(3, 150, 25, 50, 50),
	}
	path := []core.Point{{X: 100, Y: 50}, {X: 300, Y: 50}}

	if !a.Collides(path, shapes, map[int]bool{1: true, 2: true}) {
		t.Error("path should collide with the middle shape")
	}
	if a.Collides(path, shapes, map[int]bool{1: true, 2: true, 3: true}) {
		t.Error("path should be clear with all shapes excluded")
	}
}

func TestFindAlternate(t *testing.T) {
	a := NewAvoider(10)
	shapes := []core.Shape{box(3, 150, 25, 50, 50)}

	def := []core.Point{{X: 100, Y: 50}, {X: 300, Y: 50}}
	clear := []core.Point{{X: 100, Y: 50}, {X: 100, Y: 150}, {X: 300, Y: 150}, {X: 300, Y: 50}}
	alsoBlocked := []core.Point{{X: 100, Y: 60}, {X: 300, Y: 60}}

	// The first collision-free candidate wins.
	got, ok := a.FindAlternate(def, [][]core.Point{alsoBlocked, clear}, shapes, nil)
	if !ok {
		t.Fatal("expected a collision-free candidate")
	}
	if len(got) != len(clear) || got[1] != clear[1] {
		t.Errorf("FindAlternate() = %v, want %v", got, clear)
	}

	// Exhausted search space returns the original path, deterministically.
	got, ok = a.FindAlternate(def, [][]core.Point{alsoBlocked}, shapes, nil)
	if ok {
		t.Error("expected degraded result")
	}
	if len(got) != 2 || got[0] != def[0] || got[1] != def[1] {
		t.Errorf("degraded result = %v, want original %v", got, def)
	}
}
