package pipeline

import "github.com/codelore/codelore/model"

// FeatureMatch is one feature detected in a commit message, with the
// relationship type and confidence the match context implies.
type FeatureMatch struct {
	Name         string
	Relationship model.RelationshipType
	Confidence   float64
	Description  string
}

// FeatureExtractFunc scans a commit subject and body and returns the
// feature matches. Implementations must be deterministic; the extractor
// runs once per ingested commit.
type FeatureExtractFunc func(subject string, body string) []FeatureMatch

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)
