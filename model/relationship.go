package model

import "time"

// RelationshipType represents the type of a directed edge in the graph
type RelationshipType string

const (
	// RelationshipAuthored links a developer to a commit they wrote.
	RelationshipAuthored RelationshipType = "AUTHORED"
	// RelationshipModified links a commit to a file it changed.
	RelationshipModified RelationshipType = "MODIFIED"
	// RelationshipImplements links a commit to a feature named in its
	// subject (strong signal).
	RelationshipImplements RelationshipType = "IMPLEMENTS"
	// RelationshipMentions links a commit to a feature named only in its
	// body (weak signal).
	RelationshipMentions RelationshipType = "MENTIONS"
)

// Confidence defaults per relationship type. IMPLEMENTS is stronger than
// MENTIONS because a subject-line match usually means the commit delivers
// the feature rather than referring to it.
const (
	ImplementsConfidence = 0.9
	MentionsConfidence   = 0.5
)

// Relationship represents a typed, directed edge between two nodes.
// From and To hold the natural keys of the endpoints: developer name,
// commit hash, file path or normalized feature name, depending on Type.
type Relationship struct {
	Type       RelationshipType `json:"type"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	Confidence float64          `json:"confidence,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
