package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Downstream Serialization Format
// =============================================================================

// Layout is the serialization format handed to the rendering host. It carries
// everything the host needs to paint a diagram: positioned nodes, synthetic
// group containers, routed edges with path strings, the center id and the
// focus set used to fit the viewport.
//
// Style attributes (opacity, stroke width, color) are part of LayoutEdge but
// are recomputed independently of geometry - see pkg/style.
type Layout struct {
	GraphID      string `json:"graph_id,omitempty"`
	CenterID     string `json:"center_id"`
	Orientation  string `json:"orientation"`
	GroupingMode string `json:"grouping_mode"`

	Nodes      []LayoutNode      `json:"nodes"`
	Containers []LayoutContainer `json:"containers,omitempty"`
	Edges      []LayoutEdge      `json:"edges"`

	// Focus is the center node plus its direct neighbors, expanded through
	// bundle containers. Hosts use it to fit the viewport.
	Focus []string `json:"focus,omitempty"`

	Truncated bool `json:"truncated,omitempty"`
}

// LayoutNode is a positioned node ready for painting.
type LayoutNode struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Style    string  `json:"style"` // card, pill, bundle
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	ParentID string  `json:"parent_id,omitempty"`

	Members []LayoutMember `json:"members,omitempty"`
}

// LayoutMember is one member row on a card node.
type LayoutMember struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Kind       string `json:"kind"`
	Visibility string `json:"visibility"`
}

// LayoutContainer is a synthetic group container. Containers render below
// content, are not draggable or selectable, and resolve clicks through
// AnchorNodeID to a real symbol.
type LayoutContainer struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Mode         string  `json:"mode"` // namespace or file
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	AnchorNodeID string  `json:"anchor_node_id"`
}

// LayoutEdge is a routed edge with its path string and style attributes.
type LayoutEdge struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Family    string `json:"family"`
	Certainty string `json:"certainty,omitempty"`

	// SourceMemberID/TargetMemberID select a member-level anchor handle
	// when the endpoint was folded into a host card.
	SourceMemberID string `json:"source_member_id,omitempty"`
	TargetMemberID string `json:"target_member_id,omitempty"`

	Path       string   `json:"path"`
	LabelX     float64  `json:"label_x"`
	LabelY     float64  `json:"label_y"`
	Trunk      *float64 `json:"trunk,omitempty"`
	BundleSize int      `json:"bundle_size,omitempty"`

	// Style attributes from the interaction overlay.
	Opacity     float64 `json:"opacity"`
	StrokeWidth float64 `json:"stroke_width"`
	Color       string  `json:"color"`
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.CenterID == "" {
		return Layout{}, fmt.Errorf("layout missing center_id")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
