// Package waypoint captures manual drag corrections to a routed path and
// reapplies them after the path is recomputed.
package waypoint

import (
	"tether/core"
	"tether/geometry"
)

// Capture classifies the dragged segment as horizontal or vertical and
// records the signed offset of the drag along the perpendicular axis.
// Drag components along the segment's own axis are discarded.
func Capture(draggedPoint core.Point, segStart, segEnd core.Point) core.Adjustment {
	if geometry.IsHorizontalSegment(segStart, segEnd) {
		return core.Adjustment{Axis: core.AxisY, Offset: draggedPoint.Y - segStart.Y}
	}
	return core.Adjustment{Axis: core.AxisX, Offset: draggedPoint.X - segStart.X}
}

// Apply shifts the segments of a freshly routed path by their stored
// adjustments. An adjustment is applied only when its segment index still
// exists and the segment's orientation matches the adjustment's axis;
// stale adjustments are dropped silently and removed from the map.
//
// The first and last points of the path are never moved, so the path
// still touches both shapes exactly.
func Apply(path core.Path, adjustments map[int]core.Adjustment) core.Path {
	if len(adjustments) == 0 || path.Length() < 2 {
		return path
	}

	points := make([]core.Point, path.Length())
	copy(points, path.Points)

	for index, adj := range adjustments {
		// Only interior segments are adjustable; the first and last
		// segments anchor the path to the shapes.
		if index < 1 || index > len(points)-3 {
			delete(adjustments, index)
			continue
		}
		horizontal := geometry.IsHorizontalSegment(points[index], points[index+1])
		if horizontal != (adj.Axis == core.AxisY) {
			// Topology changed underneath the adjustment.
			delete(adjustments, index)
			continue
		}
		shiftSegment(points, index, adj)
	}

	return core.Path{Points: points, EndAngle: path.EndAngle}
}

// shiftSegment moves both endpoints of segment index along the
// adjustment's axis.
func shiftSegment(points []core.Point, index int, adj core.Adjustment) {
	if adj.Axis == core.AxisY {
		points[index].Y += adj.Offset
		points[index+1].Y += adj.Offset
	} else {
		points[index].X += adj.Offset
		points[index+1].X += adj.Offset
	}
}

// AdjustableSegment returns the index of the one interior segment exposed
// as a drag target: the longest segment strictly between the first and
// last segments, ties broken by first occurrence. Returns -1 when the
// path has no interior segment.
func AdjustableSegment(path core.Path) int {
	segments := path.Length() - 1
	if segments < 3 {
		return -1
	}
	best := -1
	bestLen := -1.0
	for i := 1; i < segments-1; i++ {
		length := geometry.Distance(path.Points[i], path.Points[i+1])
		if length > bestLen+geometry.Eps {
			best = i
			bestLen = length
		}
	}
	return best
}
