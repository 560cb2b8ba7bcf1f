// Package seed builds the canonical layout-ready representation of a graph.
//
// The seed builder is the first pipeline stage: it validates the raw indexer
// graph, folds MEMBER edges into host/member ownership, resolves each node's
// visual style (card, pill), classifies edges into the hierarchy or flow
// family, and assigns deterministic layer ranks and intra-layer orders.
//
// The resulting [GraphSeed] is immutable for the lifetime of one graph
// snapshot. Downstream stages (pkg/layout, pkg/group, pkg/bundle, pkg/route)
// derive new structures from it and never mutate it, which is what keeps the
// interaction overlay (pkg/style) recomputable without re-running layout.
//
// Build fails closed on malformed input:
//
//	s, err := seed.Build(raw)
//	if errors.Is(err, seed.ErrMissingCenter) { ... }
//	if errors.Is(err, seed.ErrDanglingEdge) { ... }
package seed
