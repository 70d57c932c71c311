package model

import "time"

// SearchConfig represents configuration for a fused search query
type SearchConfig struct {
	// Maximum number of combined results to return
	MaxResults int `json:"max_results"`

	// Minimum similarity for vector hits (after clamping to [0, 1])
	MinSimilarity float64 `json:"min_similarity,omitempty"`

	// Deadline for the vector search call; a slow embedding backend must
	// not stall the fusion layer
	VectorTimeout time.Duration `json:"vector_timeout,omitempty"`

	// Retrieval path toggles
	UseGraph  bool `json:"use_graph"`
	UseVector bool `json:"use_vector"`
}

// DefaultSearchConfig returns a sensible default configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxResults:    5,
		MinSimilarity: 0.3,
		VectorTimeout: 3 * time.Second,
		UseGraph:      true,
		UseVector:     true,
	}
}
