package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/symbolscape/symbolscape/pkg/bundle"
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/group"
	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/route"
	"github.com/symbolscape/symbolscape/pkg/seed"
	"github.com/symbolscape/symbolscape/pkg/style"
)

// =============================================================================
// Stage 1: Seed
// =============================================================================

// BuildSeed validates and normalizes a raw indexer graph into a canonical
// seed. The node kind filter is applied first; edges touching a filtered
// node are dropped with it. The center node is never filtered.
func BuildSeed(raw graph.RawGraph, opts Options) (*seed.GraphSeed, error) {
	opts.SetSeedDefaults()
	raw = filterRaw(raw, opts.filteredKinds())
	return seed.Build(raw)
}

// filterRaw drops raw nodes whose kind is in the filter set, plus every edge
// touching a dropped node. A nil filter passes the graph through unchanged.
func filterRaw(raw graph.RawGraph, filter map[string]bool) graph.RawGraph {
	if len(filter) == 0 {
		return raw
	}

	kept := make(map[string]bool, len(raw.Nodes))
	nodes := make([]graph.RawNode, 0, len(raw.Nodes))
	for _, n := range raw.Nodes {
		if filter[strings.ToLower(n.Kind)] && n.ID != raw.CenterNodeID {
			continue
		}
		kept[n.ID] = true
		nodes = append(nodes, n)
	}

	edges := make([]graph.RawEdge, 0, len(raw.Edges))
	for _, e := range raw.Edges {
		if !kept[e.Source] || !kept[e.Target] {
			continue
		}
		edges = append(edges, e)
	}

	raw.Nodes = nodes
	raw.Edges = edges
	return raw
}

// =============================================================================
// Stage 2: Layout
// =============================================================================

// ComputeLayout runs placement, grouping, bundling, and routing over a seed
// and exports the serializable layout. The solver is pure; host overrides
// are merged as an explicit post-layout step.
//
// A solver result with non-finite coordinates falls back silently to a
// single-row placement: the diagram stays usable and no error surfaces.
func ComputeLayout(s *seed.GraphSeed, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	o := layout.ParseOrientation(opts.Orientation)

	nodes := layout.Solve(s, o)
	if degenerate(nodes) {
		opts.Logger.Debug("degenerate placement, falling back to single row",
			"nodes", len(nodes))
		nodes = fallbackRow(s, o)
	}
	nodes = opts.Overrides.Apply(nodes)

	mode := group.ParseMode(opts.GroupingMode)
	grouped, containers := group.Apply(nodes, mode)

	// Routing always works in absolute coordinates, so enabling grouping
	// never moves an edge.
	origins := group.Origins(containers)
	absolute := make(map[string]layout.PositionedNode, len(grouped))
	for _, n := range grouped {
		absolute[n.ID] = group.Absolute(n, origins)
	}

	edges := visibleEdges(s.Edges, opts.Overrides)
	var trunks bundle.Assignment
	if opts.BundleEdges {
		trunks = bundle.Assign(absolute, edges, o)
	}
	routed := route.Edges(absolute, edges, trunks, o)

	return exportLayout(s, opts, grouped, containers, routed), nil
}

// degenerate reports whether the solver output is unusable: any non-finite
// coordinate poisons every downstream stage.
func degenerate(nodes []layout.PositionedNode) bool {
	for _, n := range nodes {
		if !finite(n.Position.X) || !finite(n.Position.Y) ||
			!finite(n.Width) || !finite(n.Height) {
			return true
		}
	}
	return false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fallbackRow places all nodes in a single line along the primary axis, in
// seed order. It cannot produce non-finite coordinates.
func fallbackRow(s *seed.GraphSeed, o layout.Orientation) []layout.PositionedNode {
	out := make([]layout.PositionedNode, 0, len(s.Nodes))
	offset := 0.0
	for _, n := range s.Nodes {
		pn := layout.PositionedNode{SeedNode: n}
		if o == layout.Horizontal {
			pn.Position = layout.Point{X: offset}
			offset += n.Width + layout.NodeGap
		} else {
			pn.Position = layout.Point{Y: offset}
			offset += n.Height + layout.NodeGap
		}
		out = append(out, pn)
	}
	return out
}

// visibleEdges drops edges hidden by the override table.
func visibleEdges(edges []seed.SeedEdge, ov *layout.Overrides) []seed.SeedEdge {
	if ov == nil || len(ov.HiddenEdges) == 0 {
		return edges
	}
	out := make([]seed.SeedEdge, 0, len(edges))
	for _, e := range edges {
		if ov.HiddenEdges[e.ID] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// =============================================================================
// Export
// =============================================================================

// exportLayout flattens the staged results into the serialization format,
// applying the initial style overlay and computing the focus set.
func exportLayout(s *seed.GraphSeed, opts Options, nodes []layout.PositionedNode, containers []group.Container, routed []route.RoutedEdge) graph.Layout {
	l := graph.Layout{
		GraphID:      opts.GraphID,
		CenterID:     s.CenterID,
		Orientation:  opts.Orientation,
		GroupingMode: opts.GroupingMode,
		Truncated:    s.Truncated,
	}

	for _, n := range nodes {
		ln := graph.LayoutNode{
			ID:       n.ID,
			Kind:     n.Kind,
			Style:    n.Style.String(),
			Label:    n.Label,
			X:        n.Position.X,
			Y:        n.Position.Y,
			Width:    n.Width,
			Height:   n.Height,
			ParentID: n.ParentID,
		}
		for _, m := range n.Members {
			ln.Members = append(ln.Members, graph.LayoutMember{
				ID:         m.ID,
				Label:      m.Label,
				Kind:       m.Kind,
				Visibility: m.Visibility.String(),
			})
		}
		l.Nodes = append(l.Nodes, ln)
	}

	for _, c := range containers {
		l.Containers = append(l.Containers, graph.LayoutContainer{
			ID:           c.ID,
			Label:        c.Label,
			Mode:         c.Mode.String(),
			X:            c.Bounds.X,
			Y:            c.Bounds.Y,
			Width:        c.Bounds.W,
			Height:       c.Bounds.H,
			AnchorNodeID: c.AnchorNodeID,
		})
	}

	st := initialStyle(s, opts)
	for i := range routed {
		re := &routed[i]
		a := style.Edge(re, st)
		le := graph.LayoutEdge{
			ID:             re.ID,
			Source:         re.SourceID,
			Target:         re.TargetID,
			Kind:           re.Kind,
			Family:         re.Family.String(),
			Certainty:      re.Certainty.String(),
			SourceMemberID: re.SourceMemberID,
			TargetMemberID: re.TargetMemberID,
			Path:           re.Path,
			LabelX:         re.LabelAnchor.X,
			LabelY:         re.LabelAnchor.Y,
			Trunk:          re.Trunk,
			Opacity:        a.Opacity,
			StrokeWidth:    a.StrokeWidth,
			Color:          a.Color,
		}
		if n := re.BundleSize(); n > 1 {
			le.BundleSize = n
		}
		l.Edges = append(l.Edges, le)
	}

	l.Focus = focusSet(s, l.Edges)
	return l
}

// initialStyle builds the overlay state for a fresh layout: no selection, no
// hover, focal node set to the center's host card.
func initialStyle(s *seed.GraphSeed, opts Options) style.State {
	if opts.Style != nil {
		return *opts.Style
	}
	return style.State{
		FocalNodeID: centerHost(s),
		Dense:       style.IsDense(s.NodeCount(), s.EdgeCount(), opts.Depth),
	}
}

// neutralStyle is the overlay state cached layouts are stored with. It is a
// function of the seed alone - no session state, no depth-scaled density -
// so cached bytes vary only with seed content and geometry options. Readers
// restyle with their own effective state.
func neutralStyle(s *seed.GraphSeed) style.State {
	return style.State{FocalNodeID: centerHost(s)}
}

// centerHost resolves the node carrying the center symbol: the center itself
// when top-level, or the card it was folded into.
func centerHost(s *seed.GraphSeed) string {
	if _, ok := s.Node(s.CenterID); ok {
		return s.CenterID
	}
	for i := range s.Nodes {
		if _, ok := s.Nodes[i].Member(s.CenterID); ok {
			return s.Nodes[i].ID
		}
	}
	return s.CenterID
}

// focusSet returns the center host plus every node sharing an edge with it,
// sorted for deterministic output. Hosts use it to fit the viewport.
func focusSet(s *seed.GraphSeed, edges []graph.LayoutEdge) []string {
	host := centerHost(s)
	set := map[string]bool{host: true}
	for _, e := range edges {
		if e.Source == host {
			set[e.Target] = true
		}
		if e.Target == host {
			set[e.Source] = true
		}
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
