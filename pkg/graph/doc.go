// Package graph provides the serialization types at both boundaries of the
// layout engine.
//
// This package defines the canonical wire format for symbolscape's graph data,
// used for JSON files, API requests and responses, and cache entries.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [RawGraph]: the upstream indexer output (read-only input)
//   - [Layout]: the downstream format handed to the rendering host
//   - pkg/seed.GraphSeed: internal canonical representation
//   - pkg/layout.PositionedNode, pkg/route.RoutedEdge: internal geometry
//
// # Constants
//
// This package is the single source of truth for node kinds, edge kinds,
// orientations, grouping modes, and node visual styles:
//
//	graph.OrientationHorizontal  // "horizontal"
//	graph.GroupingFile           // "file"
//	graph.StyleCard              // "card"
//
// # Raw graph format
//
//	{
//	  "center_node_id": "n1",
//	  "nodes": [{"id": "n1", "kind": "class", "label": "Parser", "depth": 0}],
//	  "edges": [{"id": "e1", "source": "n1", "target": "n2", "kind": "CALL"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadRawGraphFile("graph.json")   // File → RawGraph
//	l, _ := graph.ReadLayoutFile("out.layout.json")
//	data, _ := graph.MarshalLayout(l)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
