package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"tether/core"
)

// WritePNG rasterizes the diagram and writes it as PNG.
func WritePNG(w io.Writer, shapes []core.Shape, connectors []*core.Connector, opts Options) error {
	content := contentBounds(shapes, connectors)
	width, height, dx, dy := canvasSize(opts, content)

	dc := gg.NewContext(width, height)
	dc.SetHexColor(opts.Background)
	dc.Clear()
	dc.Translate(dx, dy)

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parsing font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	// Connectors first so shapes sit on top of stub overlaps.
	for _, c := range connectors {
		drawConnectorPNG(dc, c)
	}
	for _, s := range shapes {
		drawShapePNG(dc, s)
	}

	return dc.EncodePNG(w)
}

// SavePNG renders the diagram into a file.
func SavePNG(path string, shapes []core.Shape, connectors []*core.Connector, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := WritePNG(f, shapes, connectors, opts); err != nil {
		return err
	}
	return f.Close()
}

func drawShapePNG(dc *gg.Context, s core.Shape) {
	b := s.Bounds
	switch s.Geometry.Kind {
	case core.KindEllipse:
		dc.DrawEllipse(b.Center().X, b.Center().Y, b.Width/2, b.Height/2)
	case core.KindPolygon:
		if len(s.Geometry.Vertices) < 3 {
			dc.DrawRectangle(b.Left, b.Top, b.Width, b.Height)
			break
		}
		dc.MoveTo(s.Geometry.Vertices[0].X, s.Geometry.Vertices[0].Y)
		for _, v := range s.Geometry.Vertices[1:] {
			dc.LineTo(v.X, v.Y)
		}
		dc.ClosePath()
	default:
		dc.DrawRectangle(b.Left, b.Top, b.Width, b.Height)
	}

	dc.SetHexColor("#ffffff")
	dc.FillPreserve()
	dc.SetHexColor("#000000")
	dc.SetLineWidth(1.5)
	dc.Stroke()

	if s.Label != "" {
		dc.DrawStringAnchored(s.Label, b.Center().X, b.Center().Y, 0.5, 0.5)
	}
}

func drawConnectorPNG(dc *gg.Context, c *core.Connector) {
	points := c.Path.Points
	if len(points) < 2 {
		return
	}
	stroke := strokeFor(c)

	dc.SetHexColor(stroke.Color)
	dc.SetLineWidth(stroke.Width)
	dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()

	head := arrowHead(c.Path)
	dc.MoveTo(head[0].X, head[0].Y)
	dc.LineTo(head[1].X, head[1].Y)
	dc.LineTo(head[2].X, head[2].Y)
	dc.ClosePath()
	dc.Fill()

	if c.Label != "" {
		at := labelAnchor(c.Path)
		dc.DrawStringAnchored(c.Label, at.X, at.Y-4, 0.5, 1)
	}
}
