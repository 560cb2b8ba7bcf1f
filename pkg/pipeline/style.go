package pipeline

import (
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/route"
	"github.com/symbolscape/symbolscape/pkg/seed"
	"github.com/symbolscape/symbolscape/pkg/style"
)

// Restyle returns a copy of the layout with edge style attributes recomputed
// for the given interaction state. Positions, paths, trunks, and label
// anchors are carried over byte-for-byte; only opacity, stroke width, and
// color change.
func Restyle(l graph.Layout, st style.State) graph.Layout {
	edges := make([]graph.LayoutEdge, len(l.Edges))
	for i, e := range l.Edges {
		a := style.Edge(overlayEdge(&e), st)
		e.Opacity = a.Opacity
		e.StrokeWidth = a.StrokeWidth
		e.Color = a.Color
		edges[i] = e
	}
	l.Edges = edges
	return l
}

// overlayEdge lifts a serialized edge back into the overlay's input shape.
// Geometry fields are left zero; the overlay never reads them.
func overlayEdge(e *graph.LayoutEdge) *route.RoutedEdge {
	return &route.RoutedEdge{
		SeedEdge: seed.SeedEdge{
			ID:             e.ID,
			SourceID:       e.Source,
			TargetID:       e.Target,
			Kind:           e.Kind,
			Family:         seed.ParseFamily(e.Family),
			Certainty:      seed.ParseCertainty(e.Certainty),
			SourceMemberID: e.SourceMemberID,
			TargetMemberID: e.TargetMemberID,
		},
		Trunk: e.Trunk,
	}
}

// overridesEmpty reports whether the override table carries no adjustments.
func overridesEmpty(o *layout.Overrides) bool {
	if o == nil {
		return true
	}
	return len(o.Positions) == 0 && len(o.HiddenNodes) == 0 &&
		len(o.ExpandedNodes) == 0 && len(o.HiddenEdges) == 0
}
