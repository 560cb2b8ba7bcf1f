package group

import (
	"path"
	"slices"
	"strings"

	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// Mode selects how nodes are clustered into synthetic containers.
type Mode int

const (
	// None passes nodes through ungrouped.
	None Mode = iota
	// Namespace groups by qualified name with the last segment stripped.
	Namespace
	// File groups by basename of the node's file path.
	File
)

// String returns the serialization name of the mode.
func (m Mode) String() string {
	switch m {
	case Namespace:
		return graph.GroupingNamespace
	case File:
		return graph.GroupingFile
	default:
		return graph.GroupingNone
	}
}

// ParseMode maps a serialized grouping mode name to a Mode.
// Unknown values fall back to None.
func ParseMode(s string) Mode {
	switch s {
	case graph.GroupingNamespace:
		return Namespace
	case graph.GroupingFile:
		return File
	default:
		return None
	}
}

// Container padding, in layout units.
const (
	PadX       = 20.0 // horizontal padding around member bounds
	PadY       = 16.0 // vertical padding around member bounds
	HeaderBand = 34.0 // label band above the padded bounds
)

// Rect is an axis-aligned bounding box.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Container is a synthetic node clustering otherwise-unrelated graph nodes.
// Containers live for one layout pass: they are discarded and recomputed
// whenever the grouping mode, seed, or orientation changes. They render
// below content and are neither draggable nor selectable; AnchorNodeID
// resolves container clicks to a real underlying symbol.
type Container struct {
	ID           string
	Label        string
	Mode         Mode
	Bounds       Rect
	AnchorNodeID string
}

// Apply re-parents nodes into synthetic group containers and converts child
// positions to container-relative space. Nodes without a resolvable group
// key, virtual nodes, and already-grouped nodes pass through untouched.
// Groups with zero eligible members are never emitted.
//
// The returned node slice is newly allocated; the input is not mutated.
func Apply(nodes []layout.PositionedNode, mode Mode) ([]layout.PositionedNode, []Container) {
	out := slices.Clone(nodes)
	if mode == None {
		return out, nil
	}

	groups := make(map[string][]int) // group key -> indexes into out
	var keys []string
	for i := range out {
		key, ok := groupKey(&out[i], mode)
		if !ok {
			continue
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], i)
	}
	slices.Sort(keys)

	var containers []Container
	for _, key := range keys {
		idxs := groups[key]
		bounds := memberBounds(out, idxs)

		c := Container{
			ID:           "group:" + mode.String() + ":" + key,
			Label:        key,
			Mode:         mode,
			Bounds:       bounds,
			AnchorNodeID: anchorNode(out, idxs),
		}
		containers = append(containers, c)

		for _, i := range idxs {
			out[i].ParentID = c.ID
			out[i].Position.X -= bounds.X
			out[i].Position.Y -= bounds.Y
		}
	}
	return out, containers
}

// groupKey resolves the grouping key for a node, or false when the node is
// ineligible: virtual styles, already-grouped nodes, and nodes lacking the
// metadata the mode keys on.
func groupKey(n *layout.PositionedNode, mode Mode) (string, bool) {
	if n.ParentID != "" || !n.ContainerEligible {
		return "", false
	}
	if n.Style == seed.StyleBundle || n.Style == seed.StyleGroupContainer {
		return "", false
	}

	switch mode {
	case File:
		if n.FilePath == "" {
			return "", false
		}
		return path.Base(n.FilePath), true
	case Namespace:
		ns, ok := namespaceOf(n.QualifiedName)
		return ns, ok
	}
	return "", false
}

// namespaceOf strips the last ::- or .-delimited segment of a qualified
// name. Names without a delimiter have no resolvable namespace.
func namespaceOf(qualified string) (string, bool) {
	if qualified == "" {
		return "", false
	}
	if i := strings.LastIndex(qualified, "::"); i > 0 {
		return qualified[:i], true
	}
	if i := strings.LastIndex(qualified, "."); i > 0 {
		return qualified[:i], true
	}
	return "", false
}

// memberBounds computes the padded container box over member positions and
// measured sizes, including the header band.
func memberBounds(nodes []layout.PositionedNode, idxs []int) Rect {
	first := nodes[idxs[0]]
	minX, minY := first.Position.X, first.Position.Y
	maxX := first.Position.X + first.Width
	maxY := first.Position.Y + first.Height
	for _, i := range idxs[1:] {
		n := nodes[i]
		minX = min(minX, n.Position.X)
		minY = min(minY, n.Position.Y)
		maxX = max(maxX, n.Position.X+n.Width)
		maxY = max(maxY, n.Position.Y+n.Height)
	}
	return Rect{
		X: minX - PadX,
		Y: minY - PadY - HeaderBand,
		W: maxX - minX + 2*PadX,
		H: maxY - minY + 2*PadY + HeaderBand,
	}
}

// anchorNode picks the member a container click resolves to: a file-kind
// node if present, else any structural-kind node, else the first member.
func anchorNode(nodes []layout.PositionedNode, idxs []int) string {
	for _, i := range idxs {
		if nodes[i].Kind == graph.KindFile {
			return nodes[i].ID
		}
	}
	for _, i := range idxs {
		if graph.IsStructuralKind(nodes[i].Kind) {
			return nodes[i].ID
		}
	}
	return nodes[idxs[0]].ID
}
