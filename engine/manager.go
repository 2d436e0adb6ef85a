// Package engine contains the ConnectionManager: the orchestrator that
// owns the connector registry, drives the interactive creation state
// machine, performs alignment snapping and handles serialization.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"tether/anchor"
	"tether/core"
	"tether/log"
	"tether/obstacles"
	"tether/routing"
	"tether/waypoint"
)

var (
	// ErrSelfConnection is returned when both endpoints reference the
	// same shape.
	ErrSelfConnection = errors.New("connector endpoints reference the same shape")
	// ErrUnknownShape is returned when an endpoint shape cannot be
	// resolved.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrUnknownConnector is returned for operations on a connector id
	// that is not registered.
	ErrUnknownConnector = errors.New("unknown connector")
)

// ShapeStore provides read access to the host application's shapes. The
// engine never mutates shapes through it.
type ShapeStore interface {
	// Shape returns the shape with the given id.
	Shape(id int) (core.Shape, bool)

	// Shapes returns all current shapes.
	Shapes() []core.Shape
}

// ShapeMover is optionally implemented by a ShapeStore whose host allows
// the engine to translate shapes, which alignment snapping requires.
type ShapeMover interface {
	MoveShapeBy(id int, dx, dy float64)
}

// ShapeChangeNotifier delivers per-shape change signals. The engine
// subscribes once per shape that has connectors attached and unsubscribes
// when the last one is removed.
type ShapeChangeNotifier interface {
	// Subscribe registers a handler for changes to the given shape and
	// returns a function that cancels the subscription.
	Subscribe(shapeID int, handler func(shapeID int)) (cancel func())
}

// Tuning carries the engine's numeric knobs. Zero values fall back to the
// package defaults.
type Tuning struct {
	StubLength     float64
	AlignTolerance float64
	ObstacleMargin float64

	// ReselectSides re-evaluates the nearest side on every shape
	// movement instead of fixing sides at creation time. Off by default.
	ReselectSides bool
}

// Manager owns the connector registry and orchestrates resolution,
// routing, obstacle avoidance and waypoint reapplication. All methods
// must be called from the host's single UI thread.
type Manager struct {
	store    ShapeStore
	notifier ShapeChangeNotifier
	router   *routing.Router
	tuning   Tuning
	logger   *slog.Logger

	connectors map[int]*core.Connector
	byShape    map[int][]int // shape id -> connector ids referencing it
	subs       map[int]func()
	nextID     int

	interaction interaction
}

// NewManager creates a manager reading shapes from store.
func NewManager(store ShapeStore, tuning Tuning) *Manager {
	avoider := obstacles.NewAvoider(tuning.ObstacleMargin)
	return &Manager{
		store:      store,
		router:     routing.NewRouter(avoider, tuning.StubLength, tuning.AlignTolerance),
		tuning:     tuning,
		logger:     log.WithComponent("engine"),
		connectors: make(map[int]*core.Connector),
		byShape:    make(map[int][]int),
		subs:       make(map[int]func()),
		nextID:     1,
		interaction: interaction{
			state:   StateIdle,
			hoverID: -1,
			overID:  -1,
		},
	}
}

// SetNotifier wires a change notifier. Without one the host is expected
// to call OnShapeChanged directly.
func (m *Manager) SetNotifier(n ShapeChangeNotifier) { m.notifier = n }

// Connector returns the connector with the given id.
func (m *Manager) Connector(id int) (*core.Connector, bool) {
	c, ok := m.connectors[id]
	return c, ok
}

// Connectors returns all connectors ordered by id.
func (m *Manager) Connectors() []*core.Connector {
	out := make([]*core.Connector, 0, len(m.connectors))
	for _, c := range m.connectors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ConnectorsFor returns the ids of connectors referencing a shape.
func (m *Manager) ConnectorsFor(shapeID int) []int {
	ids := m.byShape[shapeID]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// Connect creates a connector between two shapes, choosing the initial
// side of each endpoint automatically: the side whose midpoint is closest
// to the other shape's center. Sides are fixed from then on.
func (m *Manager) Connect(fromShapeID, toShapeID int, style core.RoutingStyle) (*core.Connector, error) {
	if fromShapeID == toShapeID {
		return nil, ErrSelfConnection
	}
	fromShape, ok := m.store.Shape(fromShapeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, fromShapeID)
	}
	toShape, ok := m.store.Shape(toShapeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, toShapeID)
	}

	from := core.ConnectionPoint{
		ShapeID:  fromShapeID,
		Side:     anchor.ChooseSide(fromShape, toShape.Center()),
		Fraction: 0.5,
	}
	to := core.ConnectionPoint{
		ShapeID:  toShapeID,
		Side:     anchor.ChooseSide(toShape, fromShape.Center()),
		Fraction: 0.5,
	}
	return m.CreateConnector(from, to, style)
}

// CreateConnector registers a connector with explicit endpoints and
// computes its initial path.
func (m *Manager) CreateConnector(from, to core.ConnectionPoint, style core.RoutingStyle) (*core.Connector, error) {
	if from.ShapeID == to.ShapeID {
		return nil, ErrSelfConnection
	}
	if _, ok := m.store.Shape(from.ShapeID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, from.ShapeID)
	}
	if _, ok := m.store.Shape(to.ShapeID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, to.ShapeID)
	}

	c := &core.Connector{
		ID:          m.nextID,
		From:        from,
		To:          to,
		Style:       style,
		Adjustments: make(map[int]core.Adjustment),
	}
	m.nextID++
	m.register(c)
	m.recompute(c)
	return c, nil
}

// register adds the connector to the registry and both shapes' reference
// lists, subscribing to change notifications as needed.
func (m *Manager) register(c *core.Connector) {
	m.connectors[c.ID] = c
	m.attach(c.From.ShapeID, c.ID)
	m.attach(c.To.ShapeID, c.ID)
	if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
}

func (m *Manager) attach(shapeID, connectorID int) {
	m.byShape[shapeID] = append(m.byShape[shapeID], connectorID)
	if m.notifier != nil && m.subs[shapeID] == nil {
		m.subs[shapeID] = m.notifier.Subscribe(shapeID, m.OnShapeChanged)
	}
}

func (m *Manager) detach(shapeID, connectorID int) {
	ids := m.byShape[shapeID]
	for i, id := range ids {
		if id == connectorID {
			m.byShape[shapeID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(m.byShape[shapeID]) == 0 {
		delete(m.byShape, shapeID)
		if cancel := m.subs[shapeID]; cancel != nil {
			cancel()
			delete(m.subs, shapeID)
		}
	}
}

// Remove deletes a connector, detaching it from both shapes' reference
// lists and releasing its interaction decorations. The shapes themselves
// are untouched.
func (m *Manager) Remove(connectorID int) error {
	c, ok := m.connectors[connectorID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownConnector, connectorID)
	}
	delete(m.connectors, connectorID)
	m.detach(c.From.ShapeID, connectorID)
	m.detach(c.To.ShapeID, connectorID)
	return nil
}

// OnShapeChanged recomputes the path of every connector referencing the
// shape. Connection points are already fixed, so only routing and
// waypoint reapplication run. Safe to call on every movement tick.
func (m *Manager) OnShapeChanged(shapeID int) {
	// Iterate a snapshot: recomputation never mutates the list, but the
	// host may re-enter (e.g. delete a shape from a change handler).
	for _, id := range m.ConnectorsFor(shapeID) {
		if c, ok := m.connectors[id]; ok {
			m.recompute(c)
		}
	}
}

// OnShapeDeleted removes every connector referencing the shape, from the
// registry and from the other endpoint's reference list.
func (m *Manager) OnShapeDeleted(shapeID int) {
	for _, id := range m.ConnectorsFor(shapeID) {
		_ = m.Remove(id)
	}
}

// Route recomputes and returns a connector's path on demand.
func (m *Manager) Route(connectorID int) (core.Path, error) {
	c, ok := m.connectors[connectorID]
	if !ok {
		return core.Path{}, fmt.Errorf("%w: %d", ErrUnknownConnector, connectorID)
	}
	m.recompute(c)
	return c.Path, nil
}

// RecomputeAll recomputes every connector, e.g. after a bulk load.
func (m *Manager) RecomputeAll() {
	for _, c := range m.Connectors() {
		m.recompute(c)
	}
}

// recompute resolves the connector's endpoints, routes between them and
// reapplies any stored waypoint adjustments.
func (m *Manager) recompute(c *core.Connector) {
	fromShape, okFrom := m.store.Shape(c.From.ShapeID)
	toShape, okTo := m.store.Shape(c.To.ShapeID)
	if !okFrom || !okTo {
		// Endpoint shape disappeared without OnShapeDeleted; leave the
		// last computed path in place.
		m.logger.Warn("recompute skipped, endpoint shape missing",
			slog.Int("connector", c.ID))
		return
	}

	if m.tuning.ReselectSides {
		c.From.Side = anchor.ChooseSide(fromShape, toShape.Center())
		c.To.Side = anchor.ChooseSide(toShape, fromShape.Center())
	}

	start := anchor.ResolvePoint(fromShape, c.From)
	end := anchor.ResolvePoint(toShape, c.To)

	var path core.Path
	clean := true
	switch c.Style {
	case core.StyleStraight:
		path = m.router.RouteStraight(start, end, c.To.Side)
	case core.StyleCurved:
		path = m.router.RouteCurved(start, end, c.To.Side)
	default:
		exclude := map[int]bool{c.From.ShapeID: true, c.To.ShapeID: true}
		path, clean = m.router.Route(start, end, c.From.Side, c.To.Side, m.store.Shapes(), exclude)
	}
	if !clean {
		m.logger.Warn("no collision-free route, using default path",
			slog.Int("connector", c.ID),
			slog.Int("from", c.From.ShapeID),
			slog.Int("to", c.To.ShapeID))
	} else {
		m.logger.Debug("rerouted connector",
			slog.Int("connector", c.ID),
			slog.Int("points", path.Length()))
	}

	c.Path = waypoint.Apply(path, c.Adjustments)
}

// AdjustWaypoint captures a drag of the connector's adjustable segment to
// draggedPoint and reroutes with the new offset applied.
func (m *Manager) AdjustWaypoint(connectorID int, draggedPoint core.Point) error {
	c, ok := m.connectors[connectorID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownConnector, connectorID)
	}

	// Capture against the unadjusted path so offsets don't accumulate.
	adjustments := c.Adjustments
	c.Adjustments = nil
	m.recompute(c)
	base := c.Path
	c.Adjustments = adjustments

	seg := waypoint.AdjustableSegment(base)
	if seg < 0 {
		m.recompute(c)
		return nil
	}
	// One adjustable segment per connector: the new capture replaces any
	// previous adjustment.
	c.Adjustments = map[int]core.Adjustment{
		seg: waypoint.Capture(draggedPoint, base.Points[seg], base.Points[seg+1]),
	}
	m.recompute(c)
	return nil
}

// WaypointControl returns the draggable control for a connector: the
// adjustable segment's index and its midpoint in the current path. ok is
// false when the path has no interior segment.
func (m *Manager) WaypointControl(connectorID int) (segment int, at core.Point, ok bool) {
	c, found := m.connectors[connectorID]
	if !found {
		return 0, core.Point{}, false
	}
	seg := waypoint.AdjustableSegment(c.Path)
	if seg < 0 {
		return 0, core.Point{}, false
	}
	a, b := c.Path.Points[seg], c.Path.Points[seg+1]
	return seg, core.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}, true
}

// AlignmentSnap translates the target shape so that two nearly-aligned
// opposite-direction endpoints become exactly collinear. It is a no-op
// when the directions are not an opposite pair, the misalignment exceeds
// the tolerance, or the store does not allow moving shapes.
func (m *Manager) AlignmentSnap(fromShapeID, toShapeID int, fromDir, toDir core.Side) {
	mover, ok := m.store.(ShapeMover)
	if !ok {
		return
	}
	if fromDir != toDir.Opposite() {
		return
	}
	fromShape, okFrom := m.store.Shape(fromShapeID)
	toShape, okTo := m.store.Shape(toShapeID)
	if !okFrom || !okTo {
		return
	}

	fromPt := anchor.Resolve(fromShape, fromDir, 0.5)
	toPt := anchor.Resolve(toShape, toDir, 0.5)

	tolerance := m.tuning.AlignTolerance
	if tolerance <= 0 {
		tolerance = routing.DefaultAlignTolerance
	}

	if fromDir.IsHorizontal() {
		if d := fromPt.Y - toPt.Y; d != 0 && abs(d) < tolerance {
			mover.MoveShapeBy(toShapeID, 0, d)
			m.OnShapeChanged(toShapeID)
		}
	} else {
		if d := fromPt.X - toPt.X; d != 0 && abs(d) < tolerance {
			mover.MoveShapeBy(toShapeID, d, 0)
			m.OnShapeChanged(toShapeID)
		}
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
