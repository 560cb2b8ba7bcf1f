// Package style derives per-edge visual weight from interaction state. It is
// the only stage recomputed on hover, selection, and legend changes, and it
// never touches positions or paths - which is what lets hosts restyle a
// diagram without re-running layout.
package style

import (
	"github.com/symbolscape/symbolscape/pkg/route"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// Density thresholds. A graph is dense above DenseNodeCount nodes, or when
// the edge count exceeds the node count times a depth-scaled ceiling -
// deeper traversals tolerate proportionally more edges before de-emphasis
// kicks in.
const (
	DenseNodeCount       = 48
	DenseEdgeBaseFactor  = 2
	DenseEdgeDepthFactor = 1
)

// Stroke palette.
const (
	ColorHierarchy = "#7c6fd0"
	ColorFlow      = "#4a8fd4"
	ColorUncertain = "#9aa0a6"
	ColorSelected  = "#e0663d"
)

// State is the interaction input to the overlay. It is passed explicitly -
// never read from ambient globals - so the no-relayout-on-hover property
// stays enforceable.
type State struct {
	SelectedEdgeID string
	HoveredEdgeID  string

	// HiddenKinds holds edge kinds toggled off in the legend.
	HiddenKinds map[string]bool

	// FocalNodeID is the center node; in dense graphs, edges not touching
	// it and not on a bundle trunk are de-emphasized.
	FocalNodeID string

	// Dense is the precomputed density flag, see IsDense.
	Dense bool
}

// Attrs are the visual weight attributes for one edge.
type Attrs struct {
	Opacity     float64
	StrokeWidth float64
	Color       string
}

// IsDense computes the graph density flag from node/edge counts and the
// current traversal depth.
func IsDense(nodeCount, edgeCount, depth int) bool {
	if nodeCount > DenseNodeCount {
		return true
	}
	if depth < 1 {
		depth = 1
	}
	ceiling := nodeCount * (DenseEdgeBaseFactor + DenseEdgeDepthFactor*depth)
	return edgeCount > ceiling
}

// Edge derives the visual weight of one routed edge. Pure function of edge
// and state; geometry is read, never written.
func Edge(e *route.RoutedEdge, st State) Attrs {
	a := baseAttrs(e)

	if st.HiddenKinds[e.Kind] {
		a.Opacity = 0.05
		return a
	}

	switch e.ID {
	case st.SelectedEdgeID:
		a.Opacity = 1.0
		a.StrokeWidth += 1.25
		a.Color = ColorSelected
		return a
	case st.HoveredEdgeID:
		a.Opacity = 1.0
		a.StrokeWidth += 0.75
		return a
	}

	if st.Dense && !touchesFocal(e, st.FocalNodeID) && e.Trunk == nil {
		a.Opacity *= 0.35
	}
	return a
}

func baseAttrs(e *route.RoutedEdge) Attrs {
	a := Attrs{StrokeWidth: 1.25, Color: ColorFlow}
	if e.Family == seed.FamilyHierarchy {
		a.StrokeWidth = 1.75
		a.Color = ColorHierarchy
	}

	switch e.Certainty {
	case seed.CertaintyProbable:
		a.Opacity = 0.7
	case seed.CertaintyUncertain:
		a.Opacity = 0.45
		a.Color = ColorUncertain
	default:
		a.Opacity = 0.9
	}
	return a
}

func touchesFocal(e *route.RoutedEdge, focal string) bool {
	if focal == "" {
		return false
	}
	return e.SourceID == focal || e.TargetID == focal ||
		e.SourceMemberID == focal || e.TargetMemberID == focal
}
