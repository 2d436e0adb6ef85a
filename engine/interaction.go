package engine

import (
	"tether/anchor"
	"tether/core"
	"tether/geometry"
)

// State is the interactive connector-creation state.
type State int

const (
	// StateIdle means no interaction is in progress.
	StateIdle State = iota
	// StateHover means the pointer is over a shape and its connection
	// handles are showing.
	StateHover
	// StateDragging means a connector is being dragged from a handle.
	StateDragging
)

// String returns the state name for display.
func (s State) String() string {
	switch s {
	case StateHover:
		return "HOVER"
	case StateDragging:
		return "DRAGGING"
	default:
		return "IDLE"
	}
}

// HandleRadius is the pick distance for connection-point handles.
const HandleRadius = 8.0

// Handle is a connection-point marker surfaced while hovering or
// dragging, tagged with its owning shape and side.
type Handle struct {
	ShapeID  int
	Side     core.Side
	Position core.Point
}

// interaction holds the state machine's working data.
type interaction struct {
	state   State
	hoverID int // shape under the pointer in Hover state
	source  core.ConnectionPoint
	overID  int // candidate target shape while dragging, -1 if none
	preview core.Path
}

// InteractionState returns the current state of the creation machine.
func (m *Manager) InteractionState() State { return m.interaction.state }

// Handles returns the connection-point markers to draw: the hovered
// shape's handles in Hover state, plus the candidate target's handles
// while dragging.
func (m *Manager) Handles() []Handle {
	switch m.interaction.state {
	case StateHover:
		return m.shapeHandles(m.interaction.hoverID)
	case StateDragging:
		var handles []Handle
		handles = append(handles, m.shapeHandles(m.interaction.source.ShapeID)...)
		if m.interaction.overID >= 0 {
			handles = append(handles, m.shapeHandles(m.interaction.overID)...)
		}
		return handles
	default:
		return nil
	}
}

// Preview returns the live preview path while dragging.
func (m *Manager) Preview() (core.Path, bool) {
	if m.interaction.state != StateDragging {
		return core.Path{}, false
	}
	return m.interaction.preview, true
}

// PointerMove advances the state machine for a pointer move. In Hover it
// tracks which shape is under the pointer; in Dragging it recomputes the
// live preview using the pointer (or a candidate shape's nearest
// connection point) as the provisional end.
func (m *Manager) PointerMove(p core.Point) {
	switch m.interaction.state {
	case StateIdle, StateHover:
		shape, ok := m.shapeAt(p)
		if !ok {
			m.interaction.state = StateIdle
			m.interaction.hoverID = -1
			return
		}
		m.interaction.state = StateHover
		m.interaction.hoverID = shape.ID

	case StateDragging:
		m.updatePreview(p)
	}
}

// PointerDown starts a drag when pressed on one of the hovered shape's
// handles. Elsewhere it is ignored.
func (m *Manager) PointerDown(p core.Point) {
	if m.interaction.state != StateHover {
		return
	}
	for _, h := range m.shapeHandles(m.interaction.hoverID) {
		if geometry.Distance(h.Position, p) <= HandleRadius {
			m.interaction.state = StateDragging
			m.interaction.source = core.ConnectionPoint{
				ShapeID:  h.ShapeID,
				Side:     h.Side,
				Fraction: 0.5,
			}
			m.interaction.overID = -1
			m.updatePreview(p)
			return
		}
	}
}

// PointerUp commits or cancels a drag. Over a valid, distinct target
// shape it snaps alignment and creates a persisted connector; over empty
// space or the source shape it cancels. Either way the machine returns
// to Idle and the preview is discarded.
func (m *Manager) PointerUp(p core.Point) (*core.Connector, bool) {
	if m.interaction.state != StateDragging {
		return nil, false
	}
	source := m.interaction.source
	m.resetInteraction()

	target, ok := m.shapeAt(p)
	if !ok || target.ID == source.ShapeID {
		// Silent user no-op, not an error.
		return nil, false
	}

	to := anchor.NearestPoint(target, p)
	m.AlignmentSnap(source.ShapeID, target.ID, source.Side, to.Side)

	c, err := m.CreateConnector(source, to, core.StyleOrthogonal)
	if err != nil {
		return nil, false
	}
	return c, true
}

// CancelDrag aborts an in-progress drag (Escape mid-drag). No connector
// is created; no partial state survives.
func (m *Manager) CancelDrag() {
	if m.interaction.state == StateDragging {
		m.resetInteraction()
	}
}

func (m *Manager) resetInteraction() {
	m.interaction = interaction{state: StateIdle, hoverID: -1, overID: -1}
}

// updatePreview recomputes the live preview path for the pointer
// position. When the pointer is over a candidate shape the preview ends
// at that shape's nearest connection point instead of the raw pointer.
func (m *Manager) updatePreview(p core.Point) {
	sourceShape, ok := m.store.Shape(m.interaction.source.ShapeID)
	if !ok {
		m.resetInteraction()
		return
	}
	start := anchor.ResolvePoint(sourceShape, m.interaction.source)

	end := p
	toDir := m.interaction.source.Side.Opposite()
	exclude := map[int]bool{sourceShape.ID: true}

	m.interaction.overID = -1
	if target, over := m.shapeAt(p); over && target.ID != sourceShape.ID {
		m.interaction.overID = target.ID
		cp := anchor.NearestPoint(target, p)
		end = anchor.ResolvePoint(target, cp)
		toDir = cp.Side
		exclude[target.ID] = true
	}

	m.interaction.preview, _ = m.router.Route(start, end, m.interaction.source.Side, toDir, m.store.Shapes(), exclude)
}

// shapeHandles builds one handle per side midpoint of a shape.
func (m *Manager) shapeHandles(shapeID int) []Handle {
	shape, ok := m.store.Shape(shapeID)
	if !ok {
		return nil
	}
	sides := []core.Side{core.SideTop, core.SideRight, core.SideBottom, core.SideLeft}
	handles := make([]Handle, 0, len(sides))
	for _, side := range sides {
		handles = append(handles, Handle{
			ShapeID:  shapeID,
			Side:     side,
			Position: anchor.Resolve(shape, side, 0.5),
		})
	}
	return handles
}

// shapeAt returns the topmost shape whose bounds contain p.
func (m *Manager) shapeAt(p core.Point) (core.Shape, bool) {
	shapes := m.store.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		if shapes[i].Contains(p) {
			return shapes[i], true
		}
	}
	return core.Shape{}, false
}
