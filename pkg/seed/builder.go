package seed

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/symbolscape/symbolscape/pkg/graph"
)

var (
	// ErrMissingCenter is returned by [Build] when the raw graph has no
	// resolvable center node id. The caller must render an error state
	// instead of a partial layout.
	ErrMissingCenter = errors.New("graph has no resolvable center node")

	// ErrDanglingEdge is returned by [Build] when an edge references a node
	// id that does not exist in the raw graph.
	ErrDanglingEdge = errors.New("edge references unknown node")
)

// Build validates and normalizes a raw indexer graph into a canonical
// GraphSeed: member folding, style resolution, family and certainty
// classification, layer ranks and deterministic intra-layer ordering.
//
// Build fails closed: a missing center node or a dangling edge endpoint
// returns an error and no seed. Expected edge cases (empty graphs, nodes
// without members) produce well-formed seeds, not errors.
func Build(raw graph.RawGraph) (*GraphSeed, error) {
	byID := make(map[string]graph.RawNode, len(raw.Nodes))
	for _, n := range raw.Nodes {
		byID[n.ID] = n
	}

	if raw.CenterNodeID == "" {
		return nil, ErrMissingCenter
	}
	if _, ok := byID[raw.CenterNodeID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingCenter, raw.CenterNodeID)
	}

	for _, e := range raw.Edges {
		if _, ok := byID[e.Source]; !ok {
			return nil, fmt.Errorf("%w: edge %s source %q", ErrDanglingEdge, e.ID, e.Source)
		}
		if _, ok := byID[e.Target]; !ok {
			return nil, fmt.Errorf("%w: edge %s target %q", ErrDanglingEdge, e.ID, e.Target)
		}
	}

	hostOf := foldMembers(raw, byID)

	s := &GraphSeed{
		CenterID:  raw.CenterNodeID,
		Truncated: raw.Truncated,
		index:     make(map[string]int),
	}

	buildNodes(s, raw, hostOf)
	buildEdges(s, raw, hostOf)

	return s, nil
}

// foldMembers resolves MEMBER edges into host/member ownership. A member
// node is folded when it has exactly one structural host; members with zero
// or multiple hosts stay top-level. The returned map sends each folded
// member id to its host id.
func foldMembers(raw graph.RawGraph, byID map[string]graph.RawNode) map[string]string {
	// Candidate hosts are a set: duplicate MEMBER edges naming the same
	// host count as one host.
	hosts := make(map[string]map[string]bool)
	for _, e := range raw.Edges {
		if e.Kind != graph.EdgeMember {
			continue
		}
		host, member := byID[e.Source], byID[e.Target]
		if !graph.IsStructuralKind(host.Kind) {
			continue
		}
		if graph.IsStructuralKind(member.Kind) {
			// Nested structural symbols stay top-level nodes.
			continue
		}
		if hosts[member.ID] == nil {
			hosts[member.ID] = make(map[string]bool)
		}
		hosts[member.ID][host.ID] = true
	}

	hostOf := make(map[string]string, len(hosts))
	for member, candidates := range hosts {
		if len(candidates) == 1 {
			for host := range candidates {
				hostOf[member] = host
			}
		}
	}
	return hostOf
}

func buildNodes(s *GraphSeed, raw graph.RawGraph, hostOf map[string]string) {
	members := make(map[string][]Member) // host id -> folded members
	for _, n := range raw.Nodes {
		host, folded := hostOf[n.ID]
		if !folded {
			continue
		}
		members[host] = append(members[host], Member{
			ID:         n.ID,
			Label:      n.Label,
			Kind:       n.Kind,
			Visibility: inferVisibility(n.Kind, n.Label),
		})
	}
	for _, ms := range members {
		slices.SortFunc(ms, func(a, b Member) int {
			if c := strings.Compare(a.Label, b.Label); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	}

	for _, n := range raw.Nodes {
		if _, folded := hostOf[n.ID]; folded {
			continue
		}
		style := StylePill
		if graph.IsStructuralKind(n.Kind) {
			style = StyleCard
		}
		w, h := measure(style, len(members[n.ID]))
		rank := n.Depth
		if rank < 0 {
			rank = 0
		}
		s.Nodes = append(s.Nodes, SeedNode{
			ID:                n.ID,
			Kind:              n.Kind,
			Label:             n.Label,
			Style:             style,
			LayerRank:         rank,
			Width:             w,
			Height:            h,
			FilePath:          n.FilePath,
			QualifiedName:     n.QualifiedName,
			Members:           members[n.ID],
			ContainerEligible: true,
		})
	}

	// Deterministic intra-layer order: label, then id.
	slices.SortFunc(s.Nodes, func(a, b SeedNode) int {
		if a.LayerRank != b.LayerRank {
			return a.LayerRank - b.LayerRank
		}
		if c := strings.Compare(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	order := make(map[int]int)
	for i := range s.Nodes {
		n := &s.Nodes[i]
		n.OrderInLayer = order[n.LayerRank]
		order[n.LayerRank]++
		s.index[n.ID] = i
	}
}

// buildEdges re-points folded endpoints at their host card (recording the
// member handle), folds duplicate raw edges into one canonical edge, and
// classifies family and certainty. MEMBER edges are consumed by folding.
func buildEdges(s *GraphSeed, raw graph.RawGraph, hostOf map[string]string) {
	type key struct {
		source, target, kind    string
		srcMember, targetMember string
	}
	folded := make(map[key]int) // key -> index into s.Edges

	for _, e := range raw.Edges {
		if e.Kind == graph.EdgeMember {
			continue
		}

		srcID, srcMember := e.Source, ""
		if host, ok := hostOf[e.Source]; ok {
			srcID, srcMember = host, e.Source
		}
		dstID, dstMember := e.Target, ""
		if host, ok := hostOf[e.Target]; ok {
			dstID, dstMember = host, e.Target
		}
		if srcID == dstID {
			// Folding can collapse an edge onto a single card; self loops
			// carry no route.
			continue
		}

		k := key{srcID, dstID, e.Kind, srcMember, dstMember}
		if i, ok := folded[k]; ok {
			s.Edges[i].SourceEdgeIDs = append(s.Edges[i].SourceEdgeIDs, e.ID)
			continue
		}

		family := FamilyFlow
		if graph.IsHierarchyKind(e.Kind) {
			family = FamilyHierarchy
		}
		folded[k] = len(s.Edges)
		s.Edges = append(s.Edges, SeedEdge{
			ID:             e.ID,
			SourceID:       srcID,
			TargetID:       dstID,
			Kind:           e.Kind,
			Family:         family,
			Certainty:      ParseCertainty(e.Certainty),
			SourceMemberID: srcMember,
			TargetMemberID: dstMember,
			SourceEdgeIDs:  []string{e.ID},
		})
	}

	slices.SortFunc(s.Edges, func(a, b SeedEdge) int {
		return strings.Compare(a.ID, b.ID)
	})
}

func measure(style NodeStyle, memberCount int) (w, h float64) {
	if style != StyleCard {
		return PillWidth, PillHeight
	}
	// Cards grow past the base height so every member row keeps its own
	// anchor point instead of clamping onto the bottom edge.
	h = CardHeight
	if needed := CardHeaderHeight + float64(memberCount)*MemberRowHeight + cardBottomPad; needed > h {
		h = needed
	}
	return CardWidth, h
}

