package core

import (
	"encoding/json"
	"testing"
)

func TestSideOpposite(t *testing.T) {
	pairs := map[Side]Side{
		SideTop:    SideBottom,
		SideRight:  SideLeft,
		SideBottom: SideTop,
		SideLeft:   SideRight,
	}
	for side, want := range pairs {
		if got := side.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", side, got, want)
		}
	}
}

func TestSideVector(t *testing.T) {
	cases := []struct {
		side Side
		want Point
	}{
		{SideTop, Point{0, -1}},
		{SideRight, Point{1, 0}},
		{SideBottom, Point{0, 1}},
		{SideLeft, Point{-1, 0}},
	}
	for _, tc := range cases {
		if got := tc.side.Vector(); got != tc.want {
			t.Errorf("%v.Vector() = %v, want %v", tc.side, got, tc.want)
		}
	}
}

func TestEnumTextRoundTrip(t *testing.T) {
	type record struct {
		Side  Side         `json:"side"`
		Kind  GeometryKind `json:"kind"`
		Style RoutingStyle `json:"style"`
		Axis  Axis         `json:"axis"`
	}
	in := record{Side: SideLeft, Kind: KindEllipse, Style: StyleCurved, Axis: AxisY}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	want := `{"side":"left","kind":"ellipse","style":"curved","axis":"y"}`
	if string(data) != want {
		t.Errorf("marshalled %s, want %s", data, want)
	}

	var out record
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed value: %+v", out)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds{Left: 10, Top: 20, Width: 100, Height: 50}

	if b.Right() != 110 || b.Bottom() != 70 {
		t.Errorf("edges = %v,%v", b.Right(), b.Bottom())
	}
	if b.Center() != (Point{60, 45}) {
		t.Errorf("center = %v", b.Center())
	}
	if !b.Contains(Point{10, 20}) || !b.Contains(Point{110, 70}) {
		t.Error("boundary points not contained")
	}
	if b.Contains(Point{9, 20}) {
		t.Error("point left of bounds contained")
	}

	e := b.Expand(5)
	if e != (Bounds{Left: 5, Top: 15, Width: 110, Height: 60}) {
		t.Errorf("Expand(5) = %+v", e)
	}
}

func TestPathEndpoints(t *testing.T) {
	var empty Path
	if !empty.IsEmpty() || empty.Start() != (Point{}) || empty.End() != (Point{}) {
		t.Error("empty path endpoints not zero")
	}

	p := Path{Points: []Point{{1, 2}, {3, 4}, {5, 6}}}
	if p.Length() != 3 || p.Start() != (Point{1, 2}) || p.End() != (Point{5, 6}) {
		t.Errorf("path accessors wrong: %+v", p)
	}
}
