// Package render exports a routed diagram as PNG or SVG. Shapes come
// from the store, connectors (with computed paths) from the engine.
package render

import (
	"math"

	"tether/core"
)

// Options configures an export. Width/Height of 0 size the canvas to
// the content plus Padding.
type Options struct {
	Width      int
	Height     int
	Padding    float64
	Background string
}

// DefaultOptions returns the exporters' defaults.
func DefaultOptions() Options {
	return Options{Padding: 40, Background: "#ffffff"}
}

const (
	defaultStrokeWidth = 1.5
	defaultStrokeColor = "#000000"
	arrowSize          = 9.0
	fontSize           = 13.0
)

// contentBounds returns the bounding box of all shapes and routed
// connector points.
func contentBounds(shapes []core.Shape, connectors []*core.Connector) core.Bounds {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	grow := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	for _, s := range shapes {
		grow(s.Bounds.Left, s.Bounds.Top)
		grow(s.Bounds.Right(), s.Bounds.Bottom())
	}
	for _, c := range connectors {
		for _, p := range c.Path.Points {
			grow(p.X, p.Y)
		}
	}

	if math.IsInf(minX, 1) {
		return core.Bounds{}
	}
	return core.Bounds{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// canvasSize resolves the pixel dimensions and the translation applied
// to content coordinates.
func canvasSize(opts Options, content core.Bounds) (width, height int, dx, dy float64) {
	if opts.Width > 0 && opts.Height > 0 {
		return opts.Width, opts.Height, 0, 0
	}
	width = int(math.Ceil(content.Width + 2*opts.Padding))
	height = int(math.Ceil(content.Height + 2*opts.Padding))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height, opts.Padding - content.Left, opts.Padding - content.Top
}

// arrowHead returns the three corners of the arrowhead triangle for a
// path. The tip sits on the path's end point; the triangle points along
// the end angle (degrees, 0 along +x, y down).
func arrowHead(path core.Path) [3]core.Point {
	tip := path.End()
	rad := path.EndAngle * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	baseX := tip.X - arrowSize*dx
	baseY := tip.Y - arrowSize*dy
	halfW := arrowSize * 0.45

	return [3]core.Point{
		tip,
		{X: baseX - halfW*dy, Y: baseY + halfW*dx},
		{X: baseX + halfW*dy, Y: baseY - halfW*dx},
	}
}

// strokeFor resolves a connector's stroke, applying defaults.
func strokeFor(c *core.Connector) core.Stroke {
	s := c.Stroke
	if s.Color == "" {
		s.Color = defaultStrokeColor
	}
	if s.Width <= 0 {
		s.Width = defaultStrokeWidth
	}
	return s
}

// labelAnchor returns the midpoint of the path's middle segment, where
// a connector label is placed.
func labelAnchor(path core.Path) core.Point {
	n := len(path.Points)
	if n == 0 {
		return core.Point{}
	}
	if n == 1 {
		return path.Points[0]
	}
	i := (n - 1) / 2
	a, b := path.Points[i], path.Points[i+1]
	return core.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
