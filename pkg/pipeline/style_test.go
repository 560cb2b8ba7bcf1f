package pipeline

import (
	"reflect"
	"testing"

	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/style"
)

func TestRestyleLeavesGeometryUntouched(t *testing.T) {
	s, err := BuildSeed(testRaw(), quietOptions())
	if err != nil {
		t.Fatalf("BuildSeed error: %v", err)
	}
	l, err := ComputeLayout(s, quietOptions())
	if err != nil {
		t.Fatalf("ComputeLayout error: %v", err)
	}

	restyled := Restyle(l, style.State{SelectedEdgeID: l.Edges[0].ID})

	// Nodes and containers are the same values.
	if !reflect.DeepEqual(restyled.Nodes, l.Nodes) {
		t.Error("nodes changed during restyle")
	}
	if !reflect.DeepEqual(restyled.Containers, l.Containers) {
		t.Error("containers changed during restyle")
	}

	// Edge geometry is byte-identical; only style attrs move.
	for i := range l.Edges {
		before, after := l.Edges[i], restyled.Edges[i]
		if after.Path != before.Path || after.LabelX != before.LabelX || after.LabelY != before.LabelY {
			t.Errorf("edge %s geometry changed during restyle", before.ID)
		}
		if after.Trunk != before.Trunk {
			t.Errorf("edge %s trunk changed during restyle", before.ID)
		}
	}

	// The selected edge recolors.
	if restyled.Edges[0].Color != style.ColorSelected {
		t.Errorf("selected edge color = %q", restyled.Edges[0].Color)
	}

	// The input layout is not mutated.
	if l.Edges[0].Color == style.ColorSelected {
		t.Error("Restyle must not mutate its input")
	}
}

func TestRestyleHiddenKind(t *testing.T) {
	s, err := BuildSeed(testRaw(), quietOptions())
	if err != nil {
		t.Fatalf("BuildSeed error: %v", err)
	}
	l, err := ComputeLayout(s, quietOptions())
	if err != nil {
		t.Fatalf("ComputeLayout error: %v", err)
	}

	restyled := Restyle(l, style.State{HiddenKinds: map[string]bool{"CALL": true}})
	for _, e := range restyled.Edges {
		if e.Kind == "CALL" && e.Opacity != 0.05 {
			t.Errorf("hidden kind edge opacity = %g", e.Opacity)
		}
		if e.Kind != "CALL" && e.Opacity == 0.05 {
			t.Errorf("unrelated edge faded: %s", e.ID)
		}
	}
}

func TestOverridesEmpty(t *testing.T) {
	if !overridesEmpty(nil) {
		t.Error("nil overrides are empty")
	}
	if !overridesEmpty(layout.NewOverrides()) {
		t.Error("fresh overrides are empty")
	}

	ov := layout.NewOverrides()
	ov.HiddenNodes["x"] = true
	if overridesEmpty(ov) {
		t.Error("overrides with a hidden node are not empty")
	}

	ov = layout.NewOverrides()
	ov.Positions["x"] = layout.Point{X: 1}
	if overridesEmpty(ov) {
		t.Error("overrides with a drag position are not empty")
	}
}
