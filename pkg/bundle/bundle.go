package bundle

import (
	"slices"
	"strings"

	"github.com/symbolscape/symbolscape/pkg/layout"
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// Gutter widths reserved around a trunk, in layout units. The source gutter
// keeps the trunk clear of source node edges; the target gutter leaves room
// for arrowheads fanning into targets.
const (
	SourceGutter = 22.0
	TargetGutter = 34.0
)

// Assignment maps edge ids to their shared trunk coordinate along the
// primary layout axis. Edges absent from the map route individually.
type Assignment struct {
	Trunks map[string]float64
}

// Trunk returns the trunk coordinate assigned to the edge, or false.
func (a Assignment) Trunk(edgeID string) (float64, bool) {
	t, ok := a.Trunks[edgeID]
	return t, ok
}

// side distinguishes fan-out (shared source) from fan-in (shared target).
type side int

const (
	bySource side = iota
	byTarget
)

// groupKey identifies one bundling candidate group: flow edges of one kind
// sharing one endpoint.
type groupKey struct {
	s    side
	kind string
	node string
}

// Assign detects fan-out/fan-in groups of flow edges and computes one shared
// trunk coordinate per feasible group. Only the Horizontal orientation is
// bundled; vertical flow routes every edge individually rather than
// approximating an axis mapping that does not generalize.
//
// An edge eligible under both its source-side and target-side group goes to
// the larger group; ties prefer the tighter (smaller endpoint span) group.
// Groups left with fewer than two members after resolution dissolve, and
// groups whose endpoints leave no feasible coordinate between the gutters
// are skipped. Both outcomes are expected, not errors.
func Assign(nodes map[string]layout.PositionedNode, edges []seed.SeedEdge, o layout.Orientation) Assignment {
	out := Assignment{Trunks: make(map[string]float64)}
	if o != layout.Horizontal {
		return out
	}

	groups := make(map[groupKey][]int) // key -> indexes into edges
	for i, e := range edges {
		if e.Family != seed.FamilyFlow {
			continue
		}
		if _, ok := nodes[e.SourceID]; !ok {
			continue
		}
		if _, ok := nodes[e.TargetID]; !ok {
			continue
		}
		groups[groupKey{bySource, e.Kind, e.SourceID}] = append(groups[groupKey{bySource, e.Kind, e.SourceID}], i)
		groups[groupKey{byTarget, e.Kind, e.TargetID}] = append(groups[groupKey{byTarget, e.Kind, e.TargetID}], i)
	}

	// Resolve each edge to at most one group.
	chosen := make(map[groupKey][]int)
	for i, e := range edges {
		sk := groupKey{bySource, e.Kind, e.SourceID}
		tk := groupKey{byTarget, e.Kind, e.TargetID}
		sOK := len(groups[sk]) >= 2
		tOK := len(groups[tk]) >= 2
		switch {
		case sOK && tOK:
			k := preferGroup(nodes, edges, groups, sk, tk)
			chosen[k] = append(chosen[k], i)
		case sOK:
			chosen[sk] = append(chosen[sk], i)
		case tOK:
			chosen[tk] = append(chosen[tk], i)
		}
	}

	// Deterministic group order.
	keys := make([]groupKey, 0, len(chosen))
	for k := range chosen {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)

	for _, k := range keys {
		idxs := chosen[k]
		if len(idxs) < 2 {
			continue // dissolved by conflict resolution
		}
		trunk, ok := trunkCoordinate(nodes, edges, idxs)
		if !ok {
			continue // no feasible coordinate; members route individually
		}
		for _, i := range idxs {
			out.Trunks[edges[i].ID] = trunk
		}
	}
	return out
}

// preferGroup picks between an edge's source-side and target-side group:
// larger wins, tie goes to the smaller endpoint span, and a full tie keeps
// the source side for determinism.
func preferGroup(nodes map[string]layout.PositionedNode, edges []seed.SeedEdge, groups map[groupKey][]int, sk, tk groupKey) groupKey {
	sn, tn := len(groups[sk]), len(groups[tk])
	if sn != tn {
		if sn > tn {
			return sk
		}
		return tk
	}
	if fanSpan(nodes, edges, groups[tk], byTarget) < fanSpan(nodes, edges, groups[sk], bySource) {
		return tk
	}
	return sk
}

// fanSpan measures the secondary-axis spread of a group's fan endpoints:
// the targets of a shared-source group, the sources of a shared-target one.
func fanSpan(nodes map[string]layout.PositionedNode, edges []seed.SeedEdge, idxs []int, s side) float64 {
	lo, hi := 0.0, 0.0
	for i, idx := range idxs {
		e := edges[idx]
		id := e.TargetID
		if s == byTarget {
			id = e.SourceID
		}
		n := nodes[id]
		y := n.Position.Y + n.Height/2
		if i == 0 {
			lo, hi = y, y
			continue
		}
		lo = min(lo, y)
		hi = max(hi, y)
	}
	return hi - lo
}

// trunkCoordinate computes a shared x strictly between the farthest source
// edge and the nearest target edge, honoring both gutters. Returns false
// when the endpoints are too close for any feasible coordinate.
func trunkCoordinate(nodes map[string]layout.PositionedNode, edges []seed.SeedEdge, idxs []int) (float64, bool) {
	first := edges[idxs[0]]
	src := nodes[first.SourceID]
	dst := nodes[first.TargetID]
	maxSrc := src.Position.X + src.Width
	minDst := dst.Position.X
	for _, i := range idxs[1:] {
		e := edges[i]
		s, d := nodes[e.SourceID], nodes[e.TargetID]
		maxSrc = max(maxSrc, s.Position.X+s.Width)
		minDst = min(minDst, d.Position.X)
	}

	lo := maxSrc + SourceGutter
	hi := minDst - TargetGutter
	if lo > hi {
		return 0, false
	}
	return (lo + hi) / 2, true
}

func compareKeys(a, b groupKey) int {
	if a.s != b.s {
		return int(a.s) - int(b.s)
	}
	if c := strings.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	return strings.Compare(a.node, b.node)
}
