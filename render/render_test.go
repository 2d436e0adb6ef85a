package render

import (
	"bytes"
	"strings"
	"testing"

	"tether/core"
	"tether/geometry"
)

func sampleScene() ([]core.Shape, []*core.Connector) {
	shapes := []core.Shape{
		{
			ID:       1,
			Bounds:   core.Bounds{Left: 0, Top: 0, Width: 100, Height: 60},
			Geometry: core.Geometry{Kind: core.KindRectangle},
			Label:    "start",
		},
		{
			ID:       2,
			Bounds:   core.Bounds{Left: 220, Top: 0, Width: 100, Height: 60},
			Geometry: core.Geometry{Kind: core.KindEllipse},
			Label:    "a < b",
		},
	}
	connectors := []*core.Connector{
		{
			ID:    1,
			From:  core.ConnectionPoint{ShapeID: 1, Side: core.SideRight, Fraction: 0.5},
			To:    core.ConnectionPoint{ShapeID: 2, Side: core.SideLeft, Fraction: 0.5},
			Label: "flow",
			Path: core.Path{
				Points:   []core.Point{{X: 100, Y: 30}, {X: 220, Y: 30}},
				EndAngle: 0,
			},
		},
	}
	return shapes, connectors
}

func TestContentBounds(t *testing.T) {
	shapes, connectors := sampleScene()
	b := contentBounds(shapes, connectors)
	if b.Left != 0 || b.Top != 0 || b.Width != 320 || b.Height != 60 {
		t.Fatalf("contentBounds = %+v", b)
	}

	// Connector points outside any shape widen the bounds.
	connectors[0].Path.Points = append(connectors[0].Path.Points, core.Point{X: 160, Y: 150})
	b = contentBounds(shapes, connectors)
	if b.Height != 150 {
		t.Errorf("bounds ignore connector points: %+v", b)
	}
}

func TestCanvasSize(t *testing.T) {
	content := core.Bounds{Left: 50, Top: 20, Width: 300, Height: 100}

	w, h, dx, dy := canvasSize(Options{Padding: 40}, content)
	if w != 380 || h != 180 {
		t.Errorf("auto size = %dx%d, want 380x180", w, h)
	}
	if dx != -10 || dy != 20 {
		t.Errorf("translation = (%v,%v), want (-10,20)", dx, dy)
	}

	// Explicit dimensions win, no translation.
	w, h, dx, dy = canvasSize(Options{Width: 800, Height: 600, Padding: 40}, content)
	if w != 800 || h != 600 || dx != 0 || dy != 0 {
		t.Errorf("explicit size = %dx%d (%v,%v)", w, h, dx, dy)
	}
}

func TestArrowHead(t *testing.T) {
	cases := []struct {
		name  string
		angle float64
		// expected offset direction of the base relative to the tip
		wantDX, wantDY float64
	}{
		{"into left side", 0, -1, 0},
		{"into top side", 90, 0, -1},
		{"into right side", 180, 1, 0},
		{"into bottom side", -90, 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := core.Path{Points: []core.Point{{X: 0, Y: 0}, {X: 50, Y: 50}}, EndAngle: tc.angle}
			head := arrowHead(path)

			if head[0] != (core.Point{X: 50, Y: 50}) {
				t.Fatalf("tip = %v, want path end", head[0])
			}
			baseX := (head[1].X + head[2].X) / 2
			baseY := (head[1].Y + head[2].Y) / 2
			if !geometry.EqualWithin(baseX-50, tc.wantDX*arrowSize) ||
				!geometry.EqualWithin(baseY-50, tc.wantDY*arrowSize) {
				t.Errorf("base center offset = (%v,%v), want (%v,%v)",
					baseX-50, baseY-50, tc.wantDX*arrowSize, tc.wantDY*arrowSize)
			}
		})
	}
}

func TestLabelAnchor(t *testing.T) {
	path := core.Path{Points: []core.Point{{X: 100, Y: 50}, {X: 200, Y: 50}, {X: 200, Y: 260}, {X: 300, Y: 260}}}
	at := labelAnchor(path)
	if at != (core.Point{X: 200, Y: 155}) {
		t.Errorf("anchor = %v, want midpoint of middle segment", at)
	}
}

func TestWriteSVG(t *testing.T) {
	shapes, connectors := sampleScene()
	var buf bytes.Buffer

	if err := WriteSVG(&buf, shapes, connectors, DefaultOptions()); err != nil {
		t.Fatalf("WriteSVG() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<svg",
		`<rect x="0" y="0" width="100" height="60"`,
		`<ellipse cx="270" cy="30"`,
		`<polyline points="100,30 220,30"`,
		"<polygon points=", // arrowhead
		">flow</text>",
		"a &lt; b", // labels are escaped
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
}

func TestWriteSVG_PolygonShape(t *testing.T) {
	shapes := []core.Shape{{
		ID:     1,
		Bounds: core.Bounds{Left: 0, Top: 0, Width: 100, Height: 100},
		Geometry: core.Geometry{
			Kind:     core.KindPolygon,
			Vertices: []core.Point{{X: 50, Y: 0}, {X: 100, Y: 50}, {X: 50, Y: 100}, {X: 0, Y: 50}},
		},
	}}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, shapes, nil, DefaultOptions()); err != nil {
		t.Fatalf("WriteSVG() error: %v", err)
	}
	if !strings.Contains(buf.String(), `<polygon points="50,0 100,50 50,100 0,50"`) {
		t.Errorf("polygon vertices missing:\n%s", buf.String())
	}
}

func TestWritePNG(t *testing.T) {
	shapes, connectors := sampleScene()
	var buf bytes.Buffer

	if err := WritePNG(&buf, shapes, connectors, DefaultOptions()); err != nil {
		t.Fatalf("WritePNG() error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG stream")
	}
}
