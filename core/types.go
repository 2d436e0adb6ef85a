// Package core contains the fundamental types used throughout the tether
// connector routing engine.
package core

// Point represents a 2D coordinate in host (pixel) space.
type Point struct {
	X, Y float64
}

// Side represents one of the four sides of a shape's boundary.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// String returns the string representation of a Side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return s
	}
}

// IsHorizontal reports whether a connector leaving this side travels
// horizontally (left and right sides do, top and bottom do not).
func (s Side) IsHorizontal() bool {
	return s == SideLeft || s == SideRight
}

// Vector returns the outward unit vector for the side.
func (s Side) Vector() Point {
	switch s {
	case SideTop:
		return Point{0, -1}
	case SideRight:
		return Point{1, 0}
	case SideBottom:
		return Point{0, 1}
	case SideLeft:
		return Point{-1, 0}
	default:
		return Point{}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values
// default to the top side.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "right":
		*s = SideRight
	case "bottom":
		*s = SideBottom
	case "left":
		*s = SideLeft
	default:
		*s = SideTop
	}
	return nil
}

// Bounds represents an axis-aligned bounding box.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (b Bounds) Right() float64 { return b.Left + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Bounds) Bottom() float64 { return b.Top + b.Height }

// Center returns the center point of the bounds.
func (b Bounds) Center() Point {
	return Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// Contains checks if a point is inside the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right() &&
		p.Y >= b.Top && p.Y <= b.Bottom()
}

// Expand returns the bounds grown outward by margin on every side.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		Left:   b.Left - margin,
		Top:    b.Top - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// GeometryKind discriminates the variants of Geometry.
type GeometryKind int

const (
	KindRectangle GeometryKind = iota
	KindPolygon
	KindEllipse
)

// String returns the string representation of a GeometryKind.
func (k GeometryKind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindPolygon:
		return "polygon"
	case KindEllipse:
		return "ellipse"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k GeometryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values
// default to rectangle.
func (k *GeometryKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "polygon":
		*k = KindPolygon
	case "ellipse":
		*k = KindEllipse
	default:
		*k = KindRectangle
	}
	return nil
}

// Geometry is a tagged variant describing a shape's collision and boundary
// geometry. Vertices is populated only for KindPolygon; rectangles and
// ellipses are fully described by the owning shape's bounds.
type Geometry struct {
	Kind     GeometryKind `json:"kind"`
	Vertices []Point      `json:"vertices,omitempty"`
}

// Shape is a read-only view of a host shape. The engine never mutates
// shapes; it only resolves points against them and reacts to change
// notifications.
type Shape struct {
	ID       int      `json:"id"`
	Bounds   Bounds   `json:"bounds"`
	Geometry Geometry `json:"geometry"`
	Label    string   `json:"label,omitempty"`
}

// Center returns the center point of the shape's bounds.
func (s Shape) Center() Point { return s.Bounds.Center() }

// Contains checks if a point is inside the shape's bounds.
func (s Shape) Contains(p Point) bool { return s.Bounds.Contains(p) }

// ConnectionPoint is a normalized attachment location on a shape's
// boundary: a side plus a fractional position along it. It is resolved to
// an absolute coordinate on demand so it stays correct as the shape moves.
type ConnectionPoint struct {
	ShapeID  int     `json:"shapeId"`
	Side     Side    `json:"side"`
	Fraction float64 `json:"fraction"`
}

// RoutingStyle selects how a connector's path is computed.
type RoutingStyle int

const (
	StyleOrthogonal RoutingStyle = iota
	StyleStraight
	StyleCurved
)

// String returns the string representation of a RoutingStyle.
func (r RoutingStyle) String() string {
	switch r {
	case StyleStraight:
		return "straight"
	case StyleCurved:
		return "curved"
	default:
		return "orthogonal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r RoutingStyle) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values
// default to orthogonal.
func (r *RoutingStyle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "straight":
		*r = StyleStraight
	case "curved":
		*r = StyleCurved
	default:
		*r = StyleOrthogonal
	}
	return nil
}

// Axis identifies the axis along which a waypoint adjustment shifts a
// segment.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// String returns the string representation of an Axis.
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	if string(text) == "y" {
		*a = AxisY
	} else {
		*a = AxisX
	}
	return nil
}

// Adjustment is a stored manual offset applied to one interior path
// segment, reapplied after automatic recomputation. The offset is along
// the axis perpendicular to the segment.
type Adjustment struct {
	Axis   Axis    `json:"axis"`
	Offset float64 `json:"offset"`
}

// Stroke carries the visual stroke attributes of a connector.
type Stroke struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Path is a routed polyline plus the arrow angle at its destination.
// EndAngle is in degrees with 0 along +x, so the arrowhead always points
// into the destination shape.
type Path struct {
	Points   []Point
	EndAngle float64
}

// Length returns the number of points in the path.
func (p Path) Length() int { return len(p.Points) }

// IsEmpty returns true if the path has no points.
func (p Path) IsEmpty() bool { return len(p.Points) == 0 }

// Start returns the first point of the path.
func (p Path) Start() Point {
	if len(p.Points) == 0 {
		return Point{}
	}
	return p.Points[0]
}

// End returns the last point of the path.
func (p Path) End() Point {
	if len(p.Points) == 0 {
		return Point{}
	}
	return p.Points[len(p.Points)-1]
}

// Connector is a routed link between two distinct shapes. From and To are
// fixed at creation time; Path is recomputed whenever either endpoint
// shape changes.
type Connector struct {
	ID          int                `json:"id"`
	From        ConnectionPoint    `json:"fromPoint"`
	To          ConnectionPoint    `json:"toPoint"`
	Style       RoutingStyle       `json:"routingStyle"`
	Adjustments map[int]Adjustment `json:"waypointAdjustments,omitempty"`
	Stroke      Stroke             `json:"stroke,omitempty"`
	Label       string             `json:"label,omitempty"`

	// Path is the most recently computed polyline. It is derived state
	// and not serialized.
	Path Path `json:"-"`
}
