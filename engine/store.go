package engine

import (
	"sort"

	"tether/core"
)

// MemStore is an in-memory ShapeStore for hosts that have no shape model
// of their own, and for tests. It also implements ShapeMover and
// ShapeChangeNotifier, so a Manager wired to it gets alignment snapping
// and automatic recomputation on shape movement.
type MemStore struct {
	shapes   map[int]core.Shape
	order    []int
	handlers map[int]map[int]func(int)
	nextSub  int
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		shapes:   make(map[int]core.Shape),
		handlers: make(map[int]map[int]func(int)),
	}
}

// AddShape inserts or replaces a shape.
func (s *MemStore) AddShape(shape core.Shape) {
	if _, exists := s.shapes[shape.ID]; !exists {
		s.order = append(s.order, shape.ID)
	}
	s.shapes[shape.ID] = shape
}

// Shape returns the shape with the given id.
func (s *MemStore) Shape(id int) (core.Shape, bool) {
	shape, ok := s.shapes[id]
	return shape, ok
}

// Shapes returns all shapes in insertion order.
func (s *MemStore) Shapes() []core.Shape {
	out := make([]core.Shape, 0, len(s.shapes))
	for _, id := range s.order {
		if shape, ok := s.shapes[id]; ok {
			out = append(out, shape)
		}
	}
	return out
}

// MoveShapeBy translates a shape's bounds (and polygon vertices) and
// fires its change handlers.
func (s *MemStore) MoveShapeBy(id int, dx, dy float64) {
	shape, ok := s.shapes[id]
	if !ok {
		return
	}
	shape.Bounds.Left += dx
	shape.Bounds.Top += dy
	if len(shape.Geometry.Vertices) > 0 {
		moved := make([]core.Point, len(shape.Geometry.Vertices))
		for i, v := range shape.Geometry.Vertices {
			moved[i] = core.Point{X: v.X + dx, Y: v.Y + dy}
		}
		shape.Geometry.Vertices = moved
	}
	s.shapes[id] = shape
	s.notify(id)
}

// DeleteShape removes a shape. The caller is responsible for telling the
// manager via OnShapeDeleted.
func (s *MemStore) DeleteShape(id int) {
	if _, ok := s.shapes[id]; !ok {
		return
	}
	delete(s.shapes, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	delete(s.handlers, id)
}

// Subscribe implements ShapeChangeNotifier.
func (s *MemStore) Subscribe(shapeID int, handler func(shapeID int)) (cancel func()) {
	if s.handlers[shapeID] == nil {
		s.handlers[shapeID] = make(map[int]func(int))
	}
	key := s.nextSub
	s.nextSub++
	s.handlers[shapeID][key] = handler
	return func() {
		delete(s.handlers[shapeID], key)
	}
}

// notify fires the handlers subscribed to a shape, over a snapshot so a
// handler may unsubscribe mid-iteration.
func (s *MemStore) notify(id int) {
	entries := s.handlers[id]
	keys := make([]int, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if handler, ok := entries[k]; ok {
			handler(id)
		}
	}
}
