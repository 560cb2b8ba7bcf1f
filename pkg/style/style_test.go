package style

import (
	"testing"

	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/route"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

func flowEdge(id string) *route.RoutedEdge {
	return &route.RoutedEdge{
		SeedEdge: seed.SeedEdge{
			ID: id, SourceID: "a", TargetID: "b",
			Kind: graph.EdgeCall, Family: seed.FamilyFlow,
		},
	}
}

func TestIsDense(t *testing.T) {
	tests := []struct {
		nodes, edges, depth int
		want                bool
	}{
		{10, 20, 2, false},
		{49, 0, 2, true},              // node count trips the flag alone
		{10, 41, 2, true},             // 41 > 10*(2+2)
		{10, 40, 2, false},            // exactly at the ceiling
		{10, 35, 1, true},             // shallower traversals tolerate less
		{10, 35, 0, true},             // depth clamps to 1
		{10, 50, 3, false},            // deeper traversals tolerate more
	}
	for _, tt := range tests {
		if got := IsDense(tt.nodes, tt.edges, tt.depth); got != tt.want {
			t.Errorf("IsDense(%d, %d, %d) = %v, want %v", tt.nodes, tt.edges, tt.depth, got, tt.want)
		}
	}
}

func TestEdgeBaseAttrs(t *testing.T) {
	// Flow + certain
	a := Edge(flowEdge("e"), State{})
	if a.Color != ColorFlow || a.StrokeWidth != 1.25 || a.Opacity != 0.9 {
		t.Errorf("flow base attrs = %+v", a)
	}

	// Hierarchy edges are heavier and violet
	h := flowEdge("e")
	h.Family = seed.FamilyHierarchy
	a = Edge(h, State{})
	if a.Color != ColorHierarchy || a.StrokeWidth != 1.75 {
		t.Errorf("hierarchy base attrs = %+v", a)
	}

	// Probable keeps its family color at lower opacity
	p := flowEdge("e")
	p.Certainty = seed.CertaintyProbable
	a = Edge(p, State{})
	if a.Opacity != 0.7 || a.Color != ColorFlow {
		t.Errorf("probable attrs = %+v", a)
	}

	// Uncertain goes grey
	u := flowEdge("e")
	u.Certainty = seed.CertaintyUncertain
	a = Edge(u, State{})
	if a.Opacity != 0.45 || a.Color != ColorUncertain {
		t.Errorf("uncertain attrs = %+v", a)
	}
}

func TestEdgeHiddenKind(t *testing.T) {
	st := State{HiddenKinds: map[string]bool{graph.EdgeCall: true}}
	a := Edge(flowEdge("e"), st)
	if a.Opacity != 0.05 {
		t.Errorf("hidden kind opacity = %g, want 0.05", a.Opacity)
	}

	// Hiding wins over selection.
	st.SelectedEdgeID = "e"
	a = Edge(flowEdge("e"), st)
	if a.Opacity != 0.05 || a.Color == ColorSelected {
		t.Errorf("hidden kind should win over selection: %+v", a)
	}
}

func TestEdgeSelection(t *testing.T) {
	a := Edge(flowEdge("e"), State{SelectedEdgeID: "e"})
	if a.Color != ColorSelected || a.Opacity != 1.0 {
		t.Errorf("selected attrs = %+v", a)
	}
	if a.StrokeWidth != 1.25+1.25 {
		t.Errorf("selected stroke = %g", a.StrokeWidth)
	}
}

func TestEdgeHover(t *testing.T) {
	a := Edge(flowEdge("e"), State{HoveredEdgeID: "e"})
	if a.Opacity != 1.0 || a.StrokeWidth != 1.25+0.75 {
		t.Errorf("hovered attrs = %+v", a)
	}
	// Hover keeps the family color.
	if a.Color != ColorFlow {
		t.Errorf("hover should not recolor: %s", a.Color)
	}
}

func TestEdgeDenseDeEmphasis(t *testing.T) {
	st := State{Dense: true, FocalNodeID: "focal"}

	// An edge away from the focal node fades.
	a := Edge(flowEdge("e"), st)
	if a.Opacity != 0.9*0.35 {
		t.Errorf("dense non-focal opacity = %g", a.Opacity)
	}

	// Touching the focal node keeps full weight.
	f := flowEdge("e")
	f.SourceID = "focal"
	a = Edge(f, st)
	if a.Opacity != 0.9 {
		t.Errorf("focal edge should not fade: %g", a.Opacity)
	}

	// Member handles count as touching.
	m := flowEdge("e")
	m.TargetMemberID = "focal"
	a = Edge(m, st)
	if a.Opacity != 0.9 {
		t.Errorf("member handle should count as focal: %g", a.Opacity)
	}

	// Bundled trunk edges stay readable.
	trunk := 250.0
	b := flowEdge("e")
	b.Trunk = &trunk
	a = Edge(b, st)
	if a.Opacity != 0.9 {
		t.Errorf("trunk edge should not fade: %g", a.Opacity)
	}
}
