package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// RawGraph Serialization API
// =============================================================================

// MarshalRawGraph converts a RawGraph to pretty-printed JSON bytes.
func MarshalRawGraph(g RawGraph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalRawGraph deserializes JSON bytes into a RawGraph.
func UnmarshalRawGraph(data []byte) (RawGraph, error) {
	var g RawGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return RawGraph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	return g, nil
}

// ReadRawGraph decodes a JSON raw graph from an io.Reader.
// Use ReadRawGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadRawGraph(r io.Reader) (RawGraph, error) {
	var g RawGraph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return RawGraph{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

// ReadRawGraphFile reads a JSON file and returns the decoded RawGraph.
func ReadRawGraphFile(path string) (RawGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawGraph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRawGraph(f)
}

// WriteRawGraphFile writes a RawGraph to a JSON file.
// The file is created with 0644 permissions.
func WriteRawGraphFile(g RawGraph, path string) error {
	data, err := MarshalRawGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
