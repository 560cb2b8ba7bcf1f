package layout

// Overrides is the per-graph side table of host-driven adjustments: manual
// drag positions and hidden nodes. It is merged into solver output as an
// explicit post-layout step so the solver itself stays a pure function.
type Overrides struct {
	// Positions maps node id to a manually dragged position.
	Positions map[string]Point

	// HiddenNodes marks nodes the host has hidden.
	HiddenNodes map[string]bool

	// ExpandedNodes marks cards the host has expanded.
	ExpandedNodes map[string]bool

	// HiddenEdges marks edges the host has hidden.
	HiddenEdges map[string]bool
}

// NewOverrides returns an empty override table.
func NewOverrides() *Overrides {
	return &Overrides{
		Positions:     make(map[string]Point),
		HiddenNodes:   make(map[string]bool),
		ExpandedNodes: make(map[string]bool),
		HiddenEdges:   make(map[string]bool),
	}
}

// Apply merges the override table into solver output, returning a new slice.
// Hidden nodes are dropped; manual positions replace solved ones. A nil
// receiver passes nodes through unchanged.
func (o *Overrides) Apply(nodes []PositionedNode) []PositionedNode {
	if o == nil {
		return nodes
	}
	out := make([]PositionedNode, 0, len(nodes))
	for _, n := range nodes {
		if o.HiddenNodes[n.ID] {
			continue
		}
		if p, ok := o.Positions[n.ID]; ok {
			n.Position = p
		}
		out = append(out, n)
	}
	return out
}
