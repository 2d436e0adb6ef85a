package render

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"tether/core"
)

// WriteSVG serializes the diagram as a standalone SVG document.
func WriteSVG(w io.Writer, shapes []core.Shape, connectors []*core.Connector, opts Options) error {
	content := contentBounds(shapes, connectors)
	width, height, dx, dy := canvasSize(opts, content)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", opts.Background)
	fmt.Fprintf(&b, `  <g transform="translate(%s,%s)" font-family="sans-serif" font-size="%v">`+"\n",
		num(dx), num(dy), fontSize)

	for _, c := range connectors {
		writeConnectorSVG(&b, c)
	}
	for _, s := range shapes {
		writeShapeSVG(&b, s)
	}

	b.WriteString("  </g>\n</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// SaveSVG renders the diagram into a file.
func SaveSVG(path string, shapes []core.Shape, connectors []*core.Connector, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteSVG(f, shapes, connectors, opts); err != nil {
		return err
	}
	return f.Close()
}

func writeShapeSVG(b *strings.Builder, s core.Shape) {
	const style = `fill="#ffffff" stroke="#000000" stroke-width="1.5"`
	bounds := s.Bounds

	switch s.Geometry.Kind {
	case core.KindEllipse:
		fmt.Fprintf(b, `    <ellipse cx="%s" cy="%s" rx="%s" ry="%s" %s/>`+"\n",
			num(bounds.Center().X), num(bounds.Center().Y),
			num(bounds.Width/2), num(bounds.Height/2), style)
	case core.KindPolygon:
		if len(s.Geometry.Vertices) >= 3 {
			fmt.Fprintf(b, `    <polygon points="%s" %s/>`+"\n",
				pointList(s.Geometry.Vertices), style)
			break
		}
		fallthrough
	default:
		fmt.Fprintf(b, `    <rect x="%s" y="%s" width="%s" height="%s" %s/>`+"\n",
			num(bounds.Left), num(bounds.Top), num(bounds.Width), num(bounds.Height), style)
	}

	if s.Label != "" {
		fmt.Fprintf(b, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			num(bounds.Center().X), num(bounds.Center().Y), html.EscapeString(s.Label))
	}
}

func writeConnectorSVG(b *strings.Builder, c *core.Connector) {
	points := c.Path.Points
	if len(points) < 2 {
		return
	}
	stroke := strokeFor(c)

	fmt.Fprintf(b, `    <polyline points="%s" fill="none" stroke="%s" stroke-width="%v"/>`+"\n",
		pointList(points), stroke.Color, stroke.Width)

	head := arrowHead(c.Path)
	fmt.Fprintf(b, `    <polygon points="%s" fill="%s"/>`+"\n",
		pointList(head[:]), stroke.Color)

	if c.Label != "" {
		at := labelAnchor(c.Path)
		fmt.Fprintf(b, `    <text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			num(at.X), num(at.Y-4), html.EscapeString(c.Label))
	}
}

func pointList(points []core.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num formats a coordinate without trailing zeros.
func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
