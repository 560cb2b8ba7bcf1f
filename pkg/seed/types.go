package seed

// =============================================================================
// Enumerations
// =============================================================================

// Family classifies an edge by whether it expresses a static type
// relationship or a dynamic/usage relationship. Family affects bundling
// eligibility and route style.
type Family int

const (
	// FamilyHierarchy covers inheritance, override, type-argument and
	// template-specialization edges.
	FamilyHierarchy Family = iota
	// FamilyFlow covers everything else (calls, uses, reads, writes, ...).
	FamilyFlow
)

// String returns the serialization name of the family.
func (f Family) String() string {
	if f == FamilyHierarchy {
		return "hierarchy"
	}
	return "flow"
}

// ParseFamily maps a serialization name back to a Family.
func ParseFamily(s string) Family {
	if s == "hierarchy" {
		return FamilyHierarchy
	}
	return FamilyFlow
}

// Certainty is the indexer's confidence in an edge.
type Certainty int

const (
	CertaintyCertain Certainty = iota
	CertaintyProbable
	CertaintyUncertain
)

// String returns the serialization name of the certainty level.
func (c Certainty) String() string {
	switch c {
	case CertaintyProbable:
		return "probable"
	case CertaintyUncertain:
		return "uncertain"
	default:
		return "certain"
	}
}

// ParseCertainty maps a serialization name back to a Certainty. Unknown
// names resolve to certain.
func ParseCertainty(s string) Certainty {
	switch s {
	case "probable":
		return CertaintyProbable
	case "uncertain":
		return CertaintyUncertain
	default:
		return CertaintyCertain
	}
}

// NodeStyle is the closed set of visual variants a node resolves to.
// Resolved once here so downstream stages never re-branch on raw kinds.
type NodeStyle int

const (
	// StyleCard is a structural container-style node with member rows.
	StyleCard NodeStyle = iota
	// StylePill is a leaf-style node (primitive, unresolved symbol, ...).
	StylePill
	// StyleBundle is a synthetic node standing in for a folded bundle.
	StyleBundle
	// StyleGroupContainer is a synthetic grouping container.
	StyleGroupContainer
)

// String returns the serialization name of the style.
func (s NodeStyle) String() string {
	switch s {
	case StylePill:
		return "pill"
	case StyleBundle:
		return "bundle"
	case StyleGroupContainer:
		return "container"
	default:
		return "card"
	}
}

// Visibility is the access bucket a member is partitioned into.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityPrivate
	VisibilityDefault
)

// String returns the serialization name of the visibility bucket.
func (v Visibility) String() string {
	switch v {
	case VisibilityProtected:
		return "protected"
	case VisibilityPrivate:
		return "private"
	case VisibilityDefault:
		return "default"
	default:
		return "public"
	}
}

// =============================================================================
// Measured Sizes
// =============================================================================

// Default measured sizes per node style, in layout units. CardHeight is
// a minimum: cards grow to fit their member rows.
const (
	CardWidth  = 240.0
	CardHeight = 160.0
	PillWidth  = 132.0
	PillHeight = 42.0

	// CardHeaderHeight is the title band at the top of a card node.
	CardHeaderHeight = 34.0

	// MemberRowHeight is the height of one member row on a card.
	MemberRowHeight = 22.0

	// cardBottomPad sits under the last member row. A five-row card lands
	// exactly on CardHeight.
	cardBottomPad = 16.0
)

// =============================================================================
// Seed Types
// =============================================================================

// Member is a symbol folded into its host card.
type Member struct {
	ID         string
	Label      string
	Kind       string
	Visibility Visibility
}

// SeedNode is a canonical, layout-ready node.
type SeedNode struct {
	ID            string
	Kind          string
	Label         string
	Style         NodeStyle
	LayerRank     int
	OrderInLayer  int
	Width         float64
	Height        float64
	FilePath      string
	QualifiedName string
	Members       []Member

	// ContainerEligible marks nodes that the grouping stage may re-parent.
	ContainerEligible bool
}

// Member returns the member with the given id, or false if not present.
func (n *SeedNode) Member(id string) (Member, bool) {
	for _, m := range n.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// SeedEdge is a canonical edge. Endpoints always reference top-level seed
// nodes; when a raw endpoint was folded into a host card, the member handle
// selects the member-level anchor on that host.
type SeedEdge struct {
	ID        string
	SourceID  string
	TargetID  string
	Kind      string
	Family    Family
	Certainty Certainty

	// SourceMemberID/TargetMemberID select member-level anchor handles.
	// Empty means the node-level handle.
	SourceMemberID string
	TargetMemberID string

	// SourceEdgeIDs lists the raw edge ids folded into this edge (1..n).
	SourceEdgeIDs []string
}

// BundleSize returns the number of raw edges folded into this edge.
func (e *SeedEdge) BundleSize() int {
	if len(e.SourceEdgeIDs) == 0 {
		return 1
	}
	return len(e.SourceEdgeIDs)
}

// GraphSeed is the canonical, immutable input to the layout stages. All
// downstream stages derive new structures from it; none mutate it.
type GraphSeed struct {
	CenterID string
	Nodes    []SeedNode
	Edges    []SeedEdge

	// Truncated is carried through from the raw graph.
	Truncated bool

	index map[string]int
}

// Node returns the seed node with the given id, or false if not present.
func (s *GraphSeed) Node(id string) (*SeedNode, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.Nodes[i], true
}

// NodeCount returns the number of top-level nodes in the seed.
func (s *GraphSeed) NodeCount() int { return len(s.Nodes) }

// EdgeCount returns the number of canonical edges in the seed.
func (s *GraphSeed) EdgeCount() int { return len(s.Edges) }
