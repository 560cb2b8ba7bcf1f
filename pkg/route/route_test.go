package route

import (
	"strings"
	"testing"

	"github.com/symbolscape/symbolscape/pkg/bundle"
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

func routeNodes() map[string]layout.PositionedNode {
	return map[string]layout.PositionedNode{
		"A": {
			SeedNode: seed.SeedNode{ID: "A", Width: 200, Height: 100},
			Position: layout.Point{X: 0, Y: 0},
		},
		"B": {
			SeedNode: seed.SeedNode{ID: "B", Width: 200, Height: 100},
			Position: layout.Point{X: 320, Y: 200},
		},
	}
}

func TestEdgesSmoothFallback(t *testing.T) {
	edges := []seed.SeedEdge{
		{ID: "e1", SourceID: "A", TargetID: "B", Kind: graph.EdgeCall, Family: seed.FamilyFlow},
	}
	routed := Edges(routeNodes(), edges, bundle.Assignment{}, layout.Horizontal)
	if len(routed) != 1 {
		t.Fatalf("expected 1 routed edge, got %d", len(routed))
	}

	re := routed[0]
	if re.Trunk != nil {
		t.Error("unbundled edge should carry no trunk")
	}
	if !strings.HasPrefix(re.Path, "M ") || !strings.Contains(re.Path, " C ") {
		t.Errorf("expected a cubic path, got %q", re.Path)
	}

	// Source anchor pushed off the right edge of A.
	if !strings.HasPrefix(re.Path, "M 204.00 50.00") {
		t.Errorf("source anchor wrong in %q", re.Path)
	}
	// Target anchor pulled back from the left edge of B for the arrowhead.
	if !strings.HasSuffix(re.Path, "314.00 250.00") {
		t.Errorf("target anchor wrong in %q", re.Path)
	}
}

func TestEdgesTrunkOrthogonal(t *testing.T) {
	edges := []seed.SeedEdge{
		{ID: "e1", SourceID: "A", TargetID: "B", Kind: graph.EdgeCall, Family: seed.FamilyFlow},
	}
	trunks := bundle.Assignment{Trunks: map[string]float64{"e1": 260}}
	routed := Edges(routeNodes(), edges, trunks, layout.Horizontal)
	if len(routed) != 1 {
		t.Fatalf("expected 1 routed edge, got %d", len(routed))
	}

	re := routed[0]
	if re.Trunk == nil || *re.Trunk != 260 {
		t.Fatalf("trunk not carried on routed edge: %v", re.Trunk)
	}
	// The path runs through the trunk coordinate as an orthogonal polyline.
	if !strings.Contains(re.Path, "260.00") {
		t.Errorf("path should pass through trunk x: %q", re.Path)
	}
	if !strings.Contains(re.Path, " A ") {
		t.Errorf("orthogonal path should round its corners: %q", re.Path)
	}
	if re.LabelAnchor == (layout.Point{}) {
		t.Error("trunk edge should carry a label anchor")
	}
}

func TestEdgesMemberAnchors(t *testing.T) {
	nodes := routeNodes()
	a := nodes["A"]
	a.Members = []seed.Member{{ID: "A.m", Label: "m"}}
	nodes["A"] = a

	edges := []seed.SeedEdge{
		{ID: "e1", SourceID: "A", TargetID: "B", SourceMemberID: "A.m", Kind: graph.EdgeCall, Family: seed.FamilyFlow},
	}
	routed := Edges(nodes, edges, bundle.Assignment{}, layout.Horizontal)

	// Member row 0: header band plus half a row, on the right edge plus the
	// source outset.
	wantY := layout.CardHeaderHeight + layout.MemberRowHeight/2
	prefix := "M 204.00 " + fmtCoord(wantY)
	if !strings.HasPrefix(routed[0].Path, prefix) {
		t.Errorf("member anchor wrong: %q, want prefix %q", routed[0].Path, prefix)
	}
}

func TestEdgesDropMissingEndpoints(t *testing.T) {
	nodes := routeNodes()
	delete(nodes, "B")
	edges := []seed.SeedEdge{
		{ID: "e1", SourceID: "A", TargetID: "B", Kind: graph.EdgeCall},
	}
	routed := Edges(nodes, edges, bundle.Assignment{}, layout.Horizontal)
	if len(routed) != 0 {
		t.Errorf("edges with hidden endpoints should be dropped, got %d", len(routed))
	}
}

func TestEdgesSameLayerConnectVertically(t *testing.T) {
	nodes := map[string]layout.PositionedNode{
		"A": {SeedNode: seed.SeedNode{ID: "A", Width: 200, Height: 100}, Position: layout.Point{X: 0, Y: 0}},
		"B": {SeedNode: seed.SeedNode{ID: "B", Width: 200, Height: 100}, Position: layout.Point{X: 0, Y: 200}},
	}
	edges := []seed.SeedEdge{
		{ID: "e1", SourceID: "A", TargetID: "B", Kind: graph.EdgeCall},
	}
	routed := Edges(nodes, edges, bundle.Assignment{}, layout.Horizontal)

	// Bottom of A to top of B, through the outsets.
	if !strings.HasPrefix(routed[0].Path, "M 100.00 104.00") {
		t.Errorf("same-layer edge should leave the bottom side: %q", routed[0].Path)
	}
}

func TestEdgesDeterministic(t *testing.T) {
	edges := []seed.SeedEdge{
		{ID: "e1", SourceID: "A", TargetID: "B", Kind: graph.EdgeCall, Family: seed.FamilyFlow},
		{ID: "e2", SourceID: "B", TargetID: "A", Kind: graph.EdgeUses, Family: seed.FamilyFlow},
	}
	first := Edges(routeNodes(), edges, bundle.Assignment{}, layout.Horizontal)
	second := Edges(routeNodes(), edges, bundle.Assignment{}, layout.Horizontal)

	for i := range first {
		if first[i].Path != second[i].Path {
			t.Errorf("edge %s path differs across runs", first[i].ID)
		}
		if first[i].LabelAnchor != second[i].LabelAnchor {
			t.Errorf("edge %s label anchor differs across runs", first[i].ID)
		}
	}
}
