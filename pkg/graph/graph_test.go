package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsStructuralKind(t *testing.T) {
	for _, kind := range []string{KindClass, KindStruct, KindInterface, KindUnion, KindEnum, KindNamespace, KindModule, KindPackage, KindFile} {
		if !IsStructuralKind(kind) {
			t.Errorf("%s should be structural", kind)
		}
	}
	for _, kind := range []string{KindFunction, KindMethod, KindField, KindPrimitive, KindUnresolved, "bogus"} {
		if IsStructuralKind(kind) {
			t.Errorf("%s should not be structural", kind)
		}
	}
}

func TestIsHierarchyKind(t *testing.T) {
	for _, kind := range []string{EdgeInherits, EdgeOverrides, EdgeTypeArgument, EdgeSpecialization} {
		if !IsHierarchyKind(kind) {
			t.Errorf("%s should be hierarchy", kind)
		}
	}
	for _, kind := range []string{EdgeCall, EdgeUses, EdgeReads, EdgeWrites, EdgeMember} {
		if IsHierarchyKind(kind) {
			t.Errorf("%s should be flow", kind)
		}
	}
}

func TestRawGraphRoundtrip(t *testing.T) {
	g := RawGraph{
		CenterNodeID: "a",
		Nodes:        []RawNode{{ID: "a", Kind: KindClass, Label: "A"}},
		Edges:        []RawEdge{{ID: "e", Source: "a", Target: "a", Kind: EdgeCall}},
		Truncated:    true,
	}

	data, err := MarshalRawGraph(g)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	got, err := UnmarshalRawGraph(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.CenterNodeID != "a" || len(got.Nodes) != 1 || !got.Truncated {
		t.Errorf("roundtrip lost fields: %+v", got)
	}

	if _, err := UnmarshalRawGraph([]byte("not json")); err == nil {
		t.Error("invalid JSON should error")
	}
}

func TestRawGraphFileIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	g := RawGraph{CenterNodeID: "a", Nodes: []RawNode{{ID: "a", Kind: KindClass}}}

	if err := WriteRawGraphFile(g, path); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	got, err := ReadRawGraphFile(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got.CenterNodeID != "a" {
		t.Errorf("CenterNodeID = %q", got.CenterNodeID)
	}

	if _, err := ReadRawGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}
}

func TestLayoutRoundtrip(t *testing.T) {
	l := Layout{
		CenterID:     "a",
		Orientation:  OrientationHorizontal,
		GroupingMode: GroupingNone,
		Nodes:        []LayoutNode{{ID: "a", Kind: KindClass, Style: StyleCard, X: 1, Y: 2}},
		Edges:        []LayoutEdge{{ID: "e", Source: "a", Target: "a", Path: "M 0 0"}},
		Focus:        []string{"a"},
	}

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.CenterID != "a" || len(got.Nodes) != 1 || len(got.Edges) != 1 {
		t.Errorf("roundtrip lost fields: %+v", got)
	}

	// A layout without a center id is rejected.
	if _, err := UnmarshalLayout([]byte(`{"nodes":[],"edges":[]}`)); err == nil {
		t.Error("layout without center_id should error")
	}
}

func TestLayoutFileIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := Layout{CenterID: "a", Orientation: OrientationHorizontal, GroupingMode: GroupingNone}

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("layout file missing: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got.CenterID != "a" {
		t.Errorf("CenterID = %q", got.CenterID)
	}
}
