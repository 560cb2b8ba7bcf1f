package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds produced by the source-code indexer. Structural kinds become
// card nodes; everything else renders as a pill.
const (
	KindClass     = "class"
	KindStruct    = "struct"
	KindInterface = "interface"
	KindUnion     = "union"
	KindEnum      = "enum"
	KindNamespace = "namespace"
	KindModule    = "module"
	KindPackage   = "package"
	KindFile      = "file"

	KindFunction   = "function"
	KindMethod     = "method"
	KindField      = "field"
	KindVariable   = "variable"
	KindTypedef    = "typedef"
	KindPrimitive  = "primitive"
	KindUnresolved = "unresolved"
)

// Edge kinds. MEMBER edges are folded into host/member ownership by the seed
// builder; the hierarchy kinds classify an edge into the hierarchy family.
const (
	EdgeMember         = "MEMBER"
	EdgeInherits       = "INHERITS"
	EdgeOverrides      = "OVERRIDES"
	EdgeTypeArgument   = "TYPE_ARGUMENT"
	EdgeSpecialization = "TEMPLATE_SPECIALIZATION"
	EdgeCall           = "CALL"
	EdgeUses           = "USES"
	EdgeReads          = "READS"
	EdgeWrites         = "WRITES"
	EdgeIncludes       = "INCLUDES"
)

// Edge certainty levels reported by the indexer.
const (
	CertaintyCertain   = "certain"
	CertaintyProbable  = "probable"
	CertaintyUncertain = "uncertain"
)

// Layout orientations.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Grouping modes.
const (
	GroupingNone      = "none"
	GroupingNamespace = "namespace"
	GroupingFile      = "file"
)

// Node visual styles resolved by the seed builder. Closed variant set:
// every layout node is exactly one of these.
const (
	StyleCard      = "card"
	StylePill      = "pill"
	StyleBundle    = "bundle"
	StyleContainer = "container"
)

// =============================================================================
// RawGraph - Upstream Indexer Output
// =============================================================================

// RawGraph is the read-only graph snapshot handed to the engine by the
// source-code indexer. The engine never mutates it.
type RawGraph struct {
	CenterNodeID string    `json:"center_node_id"`
	Nodes        []RawNode `json:"nodes"`
	Edges        []RawEdge `json:"edges"`
	Truncated    bool      `json:"truncated,omitempty"`
}

// RawNode is a single indexed symbol.
type RawNode struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Label         string `json:"label"`
	FilePath      string `json:"file_path,omitempty"`
	QualifiedName string `json:"qualified_name,omitempty"`
	Depth         int    `json:"depth"`
}

// RawEdge is a single indexed relationship.
type RawEdge struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Certainty string `json:"certainty,omitempty"`
}

// IsStructuralKind reports whether kind hosts members and renders as a card.
func IsStructuralKind(kind string) bool {
	switch kind {
	case KindClass, KindStruct, KindInterface, KindUnion, KindEnum,
		KindNamespace, KindModule, KindPackage, KindFile:
		return true
	}
	return false
}

// IsHierarchyKind reports whether an edge kind expresses a static type
// relationship (hierarchy family) rather than a usage relationship (flow).
func IsHierarchyKind(kind string) bool {
	switch kind {
	case EdgeInherits, EdgeOverrides, EdgeTypeArgument, EdgeSpecialization:
		return true
	}
	return false
}
