package seed

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes a seed to JSON bytes for caching.
func Marshal(s *GraphSeed) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes JSON bytes into a seed and rebuilds the node index.
func Unmarshal(data []byte) (*GraphSeed, error) {
	var s GraphSeed
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal seed: %w", err)
	}
	if s.CenterID == "" {
		return nil, fmt.Errorf("seed missing center id")
	}
	s.rebuildIndex()
	return &s, nil
}

func (s *GraphSeed) rebuildIndex() {
	s.index = make(map[string]int, len(s.Nodes))
	for i := range s.Nodes {
		s.index[s.Nodes[i].ID] = i
	}
}
