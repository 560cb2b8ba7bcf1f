package layout

// Side names a node-level attachment edge.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// Anchor returns the attachment point for a node-level handle on the given
// side, in the node's coordinate space (absolute when the node is ungrouped,
// container-relative after grouping).
func (n *PositionedNode) Anchor(side Side) Point {
	x, y := n.Position.X, n.Position.Y
	switch side {
	case SideLeft:
		return Point{X: x, Y: y + n.Height/2}
	case SideRight:
		return Point{X: x + n.Width, Y: y + n.Height/2}
	case SideTop:
		return Point{X: x + n.Width/2, Y: y}
	default:
		return Point{X: x + n.Width/2, Y: y + n.Height}
	}
}

// MemberAnchor returns the attachment point for a member-level handle: the
// left or right end of the member's row on a card. Unknown member ids and
// non-lateral sides degrade to the node-level handle.
func (n *PositionedNode) MemberAnchor(memberID string, side Side) Point {
	if memberID == "" || (side != SideLeft && side != SideRight) {
		return n.Anchor(side)
	}
	row := -1
	for i, m := range n.Members {
		if m.ID == memberID {
			row = i
			break
		}
	}
	if row < 0 {
		return n.Anchor(side)
	}

	y := n.Position.Y + CardHeaderHeight + float64(row)*MemberRowHeight + MemberRowHeight/2
	if max := n.Position.Y + n.Height; y > max {
		y = max
	}
	if side == SideLeft {
		return Point{X: n.Position.X, Y: y}
	}
	return Point{X: n.Position.X + n.Width, Y: y}
}
