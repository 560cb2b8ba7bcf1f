package group

import "github.com/symbolscape/symbolscape/pkg/layout"

// Origins builds a container-origin lookup for converting grouped nodes back
// to absolute coordinates.
func Origins(containers []Container) map[string]layout.Point {
	m := make(map[string]layout.Point, len(containers))
	for _, c := range containers {
		m[c.ID] = layout.Point{X: c.Bounds.X, Y: c.Bounds.Y}
	}
	return m
}

// Absolute returns a copy of the node with its position expressed in
// absolute layout coordinates. Ungrouped nodes are returned unchanged, so
// route geometry is identical whether or not grouping is enabled.
func Absolute(n layout.PositionedNode, origins map[string]layout.Point) layout.PositionedNode {
	if n.ParentID == "" {
		return n
	}
	origin, ok := origins[n.ParentID]
	if !ok {
		return n
	}
	n.Position.X += origin.X
	n.Position.Y += origin.Y
	return n
}
