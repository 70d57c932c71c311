package model

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Developer represents a commit author in the knowledge graph.
// Identity is resolved by exact name match; emails seen for the same
// name accumulate as aliases.
type Developer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	EmailAliases []string  `json:"email_aliases,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasEmail reports whether the given email is a known alias of the developer.
func (d *Developer) HasEmail(email string) bool {
	email = strings.ToLower(email)
	for _, alias := range d.EmailAliases {
		if alias == email {
			return true
		}
	}
	return false
}

// Commit represents a single commit node. Commits are immutable once
// created; the hash is the natural key.
type Commit struct {
	Hash         string    `json:"hash"`
	AuthorID     uuid.UUID `json:"author_id"`
	Author       string    `json:"author"`
	Timestamp    time.Time `json:"timestamp"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body,omitempty"`
	FilesChanged []string  `json:"files_changed"`
}

// Message returns the full commit message (subject and body).
func (c *Commit) Message() string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}

// File represents a file node. History holds the hashes of all commits
// that touched the file, ordered by commit timestamp ascending; the last
// element is the most recent modification.
type File struct {
	Path      string    `json:"path"`
	Language  string    `json:"language,omitempty"`
	History   []string  `json:"history,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Feature represents a feature node derived from commit messages.
// Names are normalized to lowercase and unique across the graph.
type Feature struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NormalizeFeatureName normalizes a feature name for lookup-or-create so
// that "Authentication" and "authentication" resolve to the same node.
func NormalizeFeatureName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// WorkItem pairs a commit with the files it changed, as returned by
// developer work queries.
type WorkItem struct {
	Commit *Commit `json:"commit"`
	Files  []*File `json:"files"`
}

// Contribution groups the commits a single developer made towards a
// feature.
type Contribution struct {
	Developer *Developer `json:"developer"`
	Commits   []*Commit  `json:"commits"`
}

// NodeStats counts nodes by type.
type NodeStats struct {
	Developers int `json:"developers"`
	Commits    int `json:"commits"`
	Files      int `json:"files"`
	Features   int `json:"features"`
	Total      int `json:"total"`
}

// RelationshipStats counts relationships by type.
type RelationshipStats struct {
	ByType map[RelationshipType]int `json:"by_type"`
	Total  int                      `json:"total"`
}

// GraphStats describes the size and shape of a graph snapshot.
type GraphStats struct {
	Nodes         NodeStats         `json:"nodes"`
	Relationships RelationshipStats `json:"relationships"`
}

var extensionLanguages = map[string]string{
	".dart": "dart",
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".md":   "markdown",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".sh":   "bash",
	".toml": "toml",
}

// LanguageFromPath derives the language of a file from its extension.
// Unknown extensions return an empty string.
func LanguageFromPath(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}
