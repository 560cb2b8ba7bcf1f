package layout

import (
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// =============================================================================
// Orientation
// =============================================================================

// Orientation selects the primary flow axis of the layout.
type Orientation int

const (
	// Horizontal places layers left to right (primary axis = x).
	Horizontal Orientation = iota
	// Vertical places layers top to bottom (primary axis = y).
	Vertical
)

// String returns the serialization name of the orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return graph.OrientationVertical
	}
	return graph.OrientationHorizontal
}

// ParseOrientation maps a serialized orientation name to an Orientation.
// Unknown values fall back to Horizontal.
func ParseOrientation(s string) Orientation {
	if s == graph.OrientationVertical {
		return Vertical
	}
	return Horizontal
}

// =============================================================================
// Geometry
// =============================================================================

// Point is a position in layout-engine coordinate space.
type Point struct {
	X float64
	Y float64
}

// Spacing constants, in layout units.
const (
	// LayerSpacing is the fixed distance between layer origins along the
	// primary axis.
	LayerSpacing = 320.0

	// NodeGap is the gap between neighboring nodes along the secondary axis.
	NodeGap = 48.0

	// Card band sizes, shared with the seed measurement step.
	CardHeaderHeight = seed.CardHeaderHeight
	MemberRowHeight  = seed.MemberRowHeight
)

// PositionedNode is a seed node with an absolute position assigned.
// Position is the node's top-left corner. ParentID is set by the grouping
// stage; when non-empty, Position is relative to the container's top-left.
type PositionedNode struct {
	seed.SeedNode
	Position Point
	ParentID string
}

// =============================================================================
// Solver
// =============================================================================

// Solve assigns every seed node an absolute position using layered DAG
// placement: layer rank along the primary axis with fixed spacing, intra-layer
// order along the secondary axis with spacing derived from measured sizes.
// Each layer is centered about the secondary axis, then the whole layout is
// translated so the center node's top-left lands at the origin.
//
// Solve is a pure function: identical seed and orientation reproduce
// byte-identical positions.
func Solve(s *seed.GraphSeed, o Orientation) []PositionedNode {
	if s == nil || len(s.Nodes) == 0 {
		return nil
	}

	// Seed nodes arrive sorted by (rank, order); group them per layer.
	layers := make(map[int][]int) // rank -> indexes into s.Nodes
	var ranks []int
	for i := range s.Nodes {
		r := s.Nodes[i].LayerRank
		if _, seen := layers[r]; !seen {
			ranks = append(ranks, r)
		}
		layers[r] = append(layers[r], i)
	}

	nodes := make([]PositionedNode, len(s.Nodes))
	for _, r := range ranks {
		placeLayer(s, layers[r], o, nodes)
	}

	centerOn(s.CenterID, nodes)
	return nodes
}

// placeLayer stacks one layer's nodes along the secondary axis, centered
// about zero, at the layer's primary-axis offset.
func placeLayer(s *seed.GraphSeed, idxs []int, o Orientation, out []PositionedNode) {
	var extent float64
	for i, idx := range idxs {
		if i > 0 {
			extent += NodeGap
		}
		extent += secondarySize(&s.Nodes[idx], o)
	}

	cursor := -extent / 2
	for _, idx := range idxs {
		n := &s.Nodes[idx]
		primary := float64(n.LayerRank) * LayerSpacing

		var pos Point
		if o == Horizontal {
			pos = Point{X: primary, Y: cursor}
		} else {
			pos = Point{X: cursor, Y: primary}
		}
		out[idx] = PositionedNode{SeedNode: *n, Position: pos}
		cursor += secondarySize(n, o) + NodeGap
	}
}

func secondarySize(n *seed.SeedNode, o Orientation) float64 {
	if o == Horizontal {
		return n.Height
	}
	return n.Width
}

// centerOn translates all positions so the center node's top-left is the
// origin. A center folded into a host card anchors on the host; the anchor
// offset stays stable regardless of total node count.
func centerOn(centerID string, nodes []PositionedNode) {
	var origin Point
	found := false
	for i := range nodes {
		if nodes[i].ID == centerID {
			origin = nodes[i].Position
			found = true
			break
		}
	}
	if !found {
		// Folded center: anchor on the host card carrying it as a member.
		for i := range nodes {
			if _, ok := nodes[i].SeedNode.Member(centerID); ok {
				origin = nodes[i].Position
				found = true
				break
			}
		}
	}
	if !found {
		return
	}
	for i := range nodes {
		nodes[i].Position.X -= origin.X
		nodes[i].Position.Y -= origin.Y
	}
}
