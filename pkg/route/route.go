package route

import (
	"github.com/symbolscape/symbolscape/pkg/bundle"
	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// RoutedEdge is a seed edge with its renderable path. Path is an SVG-style
// command string; LabelAnchor is the arc-length midpoint where bundle-count
// badges and tooltips attach.
type RoutedEdge struct {
	seed.SeedEdge
	Path        string
	LabelAnchor layout.Point
	Trunk       *float64
}

// Edges routes every edge between its two anchor points. Edges holding a
// trunk coordinate get a rounded orthogonal polyline through the trunk;
// everything else gets the direct smooth fallback. Edges whose endpoints are
// missing from the node table (hidden by overrides) are dropped.
//
// For fixed nodes, trunks, and orientation the output is byte-identical
// across calls: waypoints derive only from node geometry and iteration runs
// over the (already deterministic) edge slice.
func Edges(nodes map[string]layout.PositionedNode, edges []seed.SeedEdge, trunks bundle.Assignment, o layout.Orientation) []RoutedEdge {
	out := make([]RoutedEdge, 0, len(edges))
	for _, e := range edges {
		src, okS := nodes[e.SourceID]
		dst, okD := nodes[e.TargetID]
		if !okS || !okD {
			continue
		}

		re := RoutedEdge{SeedEdge: e}
		a, b := anchors(&src, &dst, &e, o)

		if t, ok := trunks.Trunk(e.ID); ok && o == layout.Horizontal {
			trunk := t
			re.Trunk = &trunk
			points := []layout.Point{
				a,
				{X: trunk, Y: a.Y},
				{X: trunk, Y: b.Y},
				b,
			}
			re.Path = OrthogonalPath(points)
			re.LabelAnchor = PolylineMidpoint(points)
		} else {
			re.Path = SmoothPath(a, b, o)
			re.LabelAnchor = smoothLabelAnchor(a, b, o)
		}
		out = append(out, re)
	}
	return out
}

// anchors resolves the adjusted endpoint pair for an edge: member-level
// handles when the endpoint was folded into a host card, node-level handles
// otherwise, with the source pushed off its boundary and the target pulled
// back for the arrowhead.
func anchors(src, dst *layout.PositionedNode, e *seed.SeedEdge, o layout.Orientation) (layout.Point, layout.Point) {
	srcSide, dstSide := facingSides(src, dst, o)

	a := src.MemberAnchor(e.SourceMemberID, srcSide)
	b := dst.MemberAnchor(e.TargetMemberID, dstSide)

	a = offset(a, srcSide, SourceOutset)
	b = offset(b, dstSide, ArrowheadSize)
	return a, b
}

// facingSides picks which node edges the path attaches to, from the relative
// placement of the two nodes along the primary axis.
func facingSides(src, dst *layout.PositionedNode, o layout.Orientation) (layout.Side, layout.Side) {
	if o == layout.Horizontal {
		if dst.Position.X >= src.Position.X+src.Width {
			return layout.SideRight, layout.SideLeft
		}
		if dst.Position.X+dst.Width <= src.Position.X {
			return layout.SideLeft, layout.SideRight
		}
		// Same layer: connect vertically.
		if dst.Position.Y >= src.Position.Y {
			return layout.SideBottom, layout.SideTop
		}
		return layout.SideTop, layout.SideBottom
	}

	if dst.Position.Y >= src.Position.Y+src.Height {
		return layout.SideBottom, layout.SideTop
	}
	if dst.Position.Y+dst.Height <= src.Position.Y {
		return layout.SideTop, layout.SideBottom
	}
	if dst.Position.X >= src.Position.X {
		return layout.SideRight, layout.SideLeft
	}
	return layout.SideLeft, layout.SideRight
}

// offset moves an anchor outward from the node boundary along its side.
func offset(p layout.Point, side layout.Side, by float64) layout.Point {
	switch side {
	case layout.SideLeft:
		p.X -= by
	case layout.SideRight:
		p.X += by
	case layout.SideTop:
		p.Y -= by
	default:
		p.Y += by
	}
	return p
}

func smoothLabelAnchor(a, b layout.Point, o layout.Orientation) layout.Point {
	var c1, c2 layout.Point
	if o == layout.Horizontal {
		mid := (a.X + b.X) / 2
		c1 = layout.Point{X: mid, Y: a.Y}
		c2 = layout.Point{X: mid, Y: b.Y}
	} else {
		mid := (a.Y + b.Y) / 2
		c1 = layout.Point{X: a.X, Y: mid}
		c2 = layout.Point{X: b.X, Y: mid}
	}
	return CubicMidpoint(a, c1, c2, b)
}
