package pipeline

import (
	"log/slog"
	"os"
	"strings"

	"github.com/codelore/codelore/core/graph"
	"github.com/codelore/codelore/helper"
	"github.com/codelore/codelore/model"
)

// Builder turns a batch of commit feed records into a knowledge graph.
// Each build pass starts from an empty graph; malformed records are
// skipped with a warning and never abort the batch.
type Builder struct {
	extract FeatureExtractFunc
	policy  graph.DuplicatePolicy
	log     *slog.Logger
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithBuilderLogger sets the builder logger
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = logger
	}
}

// WithDuplicatePolicy sets the re-ingestion policy of built graphs
func WithDuplicatePolicy(policy graph.DuplicatePolicy) BuilderOption {
	return func(b *Builder) {
		b.policy = policy
	}
}

// NewBuilder creates a builder. A nil extractor disables feature edges.
func NewBuilder(extract FeatureExtractFunc, options ...BuilderOption) *Builder {
	b := &Builder{
		extract: extract,
		log:     helper.NewDefaultLogger(os.Stdout),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Build runs a full, single-threaded ingestion pass and returns the new
// graph. The returned graph is not published anywhere; callers swap it
// into a graph.Holder once the pass completes, so concurrent readers
// never observe a half-built graph.
func (b *Builder) Build(records []model.CommitRecord) (*graph.KnowledgeGraph, error) {
	g := graph.NewKnowledgeGraph(
		graph.WithLogger(b.log),
		graph.WithDuplicatePolicy(b.policy),
	)

	ingested := 0
	skipped := 0

	for _, record := range records {
		if record.Hash == "" || strings.TrimSpace(record.Author) == "" {
			skipped++
			b.log.Warn("Skipping malformed commit record",
				slog.String("hash", record.Hash),
				slog.String("author", record.Author),
			)
			continue
		}

		commit := &model.Commit{
			Hash:         record.Hash,
			Author:       strings.TrimSpace(record.Author),
			Timestamp:    record.Timestamp.Time,
			Subject:      record.Subject,
			Body:         record.Body,
			FilesChanged: record.FilesChanged,
		}

		if err := g.AddCommit(commit); err != nil {
			skipped++
			b.log.Warn("Skipping commit rejected by graph",
				slog.String("hash", record.Hash),
				slog.String("error", err.Error()),
			)
			continue
		}
		g.UpsertDeveloper(commit.Author, record.Email)

		if b.extract != nil {
			for _, match := range b.extract(record.Subject, record.Body) {
				if err := g.LinkFeature(commit.Hash, match.Name, match.Relationship, match.Confidence, match.Description); err != nil {
					b.log.Warn("Failed to link feature",
						slog.String("hash", commit.Hash),
						slog.String("feature", match.Name),
						slog.String("error", err.Error()),
					)
				}
			}
		}

		ingested++
	}

	stats := g.Stats()
	b.log.Info("Built knowledge graph",
		slog.Int("ingested", ingested),
		slog.Int("skipped", skipped),
		slog.Int("nodes", stats.Nodes.Total),
		slog.Int("relationships", stats.Relationships.Total),
	)

	return g, nil
}
