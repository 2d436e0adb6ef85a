// Package tui is an interactive terminal demo for the connector engine:
// hover a shape to see its connection handles, drag from a handle to
// another shape to create a connector, drag a shape body to move it and
// watch every attached connector reroute.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"tether/core"
	"tether/engine"
)

// App drives a tcell screen against a store/manager pair. Coordinates
// are terminal cells, so the tuning is scaled down accordingly.
type App struct {
	screen tcell.Screen
	store  *engine.MemStore
	m      *engine.Manager

	// shape-body drag (distinct from the engine's handle drag)
	moveID int
	moveAt core.Point

	buttons tcell.ButtonMask
	status  string
}

// DemoTuning is cell-scale: stub 3, tolerance 2, margin 1.
func DemoTuning() engine.Tuning {
	return engine.Tuning{StubLength: 3, AlignTolerance: 2, ObstacleMargin: 1}
}

// NewApp wraps an existing store and manager.
func NewApp(store *engine.MemStore, m *engine.Manager) *App {
	return &App{store: store, m: m, moveID: -1}
}

// NewDemo builds a self-contained demo: three shapes and one connector.
func NewDemo() *App {
	store := engine.NewMemStore()
	store.AddShape(core.Shape{
		ID:       1,
		Bounds:   core.Bounds{Left: 4, Top: 2, Width: 20, Height: 6},
		Geometry: core.Geometry{Kind: core.KindRectangle},
		Label:    "ingest",
	})
	store.AddShape(core.Shape{
		ID:       2,
		Bounds:   core.Bounds{Left: 44, Top: 4, Width: 20, Height: 6},
		Geometry: core.Geometry{Kind: core.KindRectangle},
		Label:    "transform",
	})
	store.AddShape(core.Shape{
		ID:       3,
		Bounds:   core.Bounds{Left: 24, Top: 16, Width: 20, Height: 6},
		Geometry: core.Geometry{Kind: core.KindEllipse},
		Label:    "sink",
	})

	m := engine.NewManager(store, DemoTuning())
	m.SetNotifier(store)
	m.Connect(1, 2, core.StyleOrthogonal)

	return NewApp(store, m)
}

// Run enters the event loop until the user quits with q (or Escape
// while idle).
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	a.screen = screen
	a.status = "hover a shape, drag a handle to connect; q quits"

	for {
		a.draw()
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if quit := a.handleKey(ev); quit {
				return nil
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		}
	}
}

func (a *App) handleKey(ev *tcell.EventKey) (quit bool) {
	switch {
	case ev.Key() == tcell.KeyEscape:
		if a.m.InteractionState() == engine.StateDragging {
			a.m.CancelDrag()
			a.status = "cancelled"
			return false
		}
		return true
	case ev.Rune() == 'q':
		return true
	}
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := core.Point{X: float64(x), Y: float64(y)}
	pressed := ev.Buttons()&tcell.Button1 != 0
	wasPressed := a.buttons&tcell.Button1 != 0
	a.buttons = ev.Buttons()

	switch {
	case pressed && !wasPressed:
		a.m.PointerDown(p)
		if a.m.InteractionState() != engine.StateDragging {
			// Not on a handle: grab the shape body instead.
			if s, ok := a.shapeAt(p); ok {
				a.moveID = s.ID
				a.moveAt = p
			}
		}

	case !pressed && wasPressed:
		if a.moveID >= 0 {
			a.moveID = -1
			break
		}
		if _, created := a.m.PointerUp(p); created {
			a.status = "connected"
		}

	default:
		if a.moveID >= 0 {
			a.store.MoveShapeBy(a.moveID, p.X-a.moveAt.X, p.Y-a.moveAt.Y)
			a.moveAt = p
			break
		}
		a.m.PointerMove(p)
	}
}

func (a *App) shapeAt(p core.Point) (core.Shape, bool) {
	shapes := a.store.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		if shapes[i].Contains(p) {
			return shapes[i], true
		}
	}
	return core.Shape{}, false
}

func (a *App) draw() {
	a.screen.Clear()

	lineStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, c := range a.m.Connectors() {
		a.drawPath(c.Path, lineStyle)
	}
	if preview, ok := a.m.Preview(); ok {
		a.drawPath(preview, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	boxStyle := tcell.StyleDefault
	for _, s := range a.store.Shapes() {
		a.drawShape(s, boxStyle)
	}

	handleStyle := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for _, h := range a.m.Handles() {
		a.setCell(int(h.Position.X), int(h.Position.Y), 'o', handleStyle)
	}

	a.drawText(0, 0, a.status, tcell.StyleDefault.Foreground(tcell.ColorGreen))
	a.screen.Show()
}

func (a *App) drawShape(s core.Shape, style tcell.Style) {
	left, top := int(s.Bounds.Left), int(s.Bounds.Top)
	right, bottom := int(s.Bounds.Right()), int(s.Bounds.Bottom())

	a.setCell(left, top, '╭', style)
	a.setCell(right, top, '╮', style)
	a.setCell(left, bottom, '╰', style)
	a.setCell(right, bottom, '╯', style)
	for x := left + 1; x < right; x++ {
		a.setCell(x, top, '─', style)
		a.setCell(x, bottom, '─', style)
	}
	for y := top + 1; y < bottom; y++ {
		a.setCell(left, y, '│', style)
		a.setCell(right, y, '│', style)
	}

	if s.Label != "" {
		cx := (left + right - len(s.Label)) / 2
		cy := (top + bottom) / 2
		a.drawText(cx, cy, s.Label, style)
	}
}

// drawPath rasterizes an orthogonal polyline into line-drawing runes,
// with corner runes at the turns and an arrow at the destination.
func (a *App) drawPath(path core.Path, style tcell.Style) {
	points := path.Points
	if len(points) < 2 {
		return
	}

	for i := 0; i < len(points)-1; i++ {
		a.drawSegment(points[i], points[i+1], style)
	}
	for i := 1; i < len(points)-1; i++ {
		r := cornerRune(points[i-1], points[i], points[i+1])
		a.setCell(int(points[i].X), int(points[i].Y), r, style)
	}
	end := points[len(points)-1]
	a.setCell(int(end.X), int(end.Y), arrowRune(path.EndAngle), style)
}

func (a *App) drawSegment(from, to core.Point, style tcell.Style) {
	x1, y1 := int(from.X), int(from.Y)
	x2, y2 := int(to.X), int(to.Y)

	if y1 == y2 {
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		for x := x1; x <= x2; x++ {
			a.setCell(x, y1, '─', style)
		}
		return
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		a.setCell(x1, y, '│', style)
	}
}

// cornerRune picks the box-drawing corner for a turn at cur.
func cornerRune(prev, cur, next core.Point) rune {
	fromHorizontal := prev.Y == cur.Y
	if fromHorizontal == (next.Y == cur.Y) {
		// Straight through, not a corner.
		if fromHorizontal {
			return '─'
		}
		return '│'
	}

	var h, v core.Point
	if fromHorizontal {
		h, v = prev, next
	} else {
		h, v = next, prev
	}
	if h.X < cur.X {
		if v.Y < cur.Y {
			return '╯'
		}
		return '╮'
	}
	if v.Y < cur.Y {
		return '╰'
	}
	return '╭'
}

// arrowRune maps the destination angle to an arrow pointing into the
// target shape.
func arrowRune(endAngle float64) rune {
	switch endAngle {
	case 90:
		return '▼'
	case 180:
		return '◀'
	case -90:
		return '▲'
	default:
		return '▶'
	}
}

func (a *App) setCell(x, y int, r rune, style tcell.Style) {
	a.screen.SetContent(x, y, r, nil, style)
}

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		a.setCell(x+i, y, r, style)
	}
}
