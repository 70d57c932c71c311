package codelore

import (
	"context"
	"log/slog"
	"os"

	"github.com/codelore/codelore/core/graph"
	"github.com/codelore/codelore/core/pipeline"
	"github.com/codelore/codelore/core/retrieval"
	"github.com/codelore/codelore/database"
	"github.com/codelore/codelore/helper"
	"github.com/codelore/codelore/model"
	loadSql "github.com/codelore/codelore/sql"
)

// Codelore indexes a repository's commit history into a knowledge graph
// and answers natural-language questions about who changed what, when
// and why, combining graph traversal with vector similarity search.
type Codelore struct {
	Graphs     *graph.Holder
	Builder    *pipeline.Builder
	Classifier *retrieval.Classifier
	Engine     *retrieval.GraphEngine
	Searcher   *retrieval.Searcher
	Vectors    retrieval.VectorSearcher
	// Logging
	log *slog.Logger
	db  *helper.Database
}

// New creates a Codelore instance with an empty graph. The vector
// searcher may be nil for graph-only operation; config controls fusion
// behavior.
func New(vectors retrieval.VectorSearcher, config model.SearchConfig) *Codelore {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	vocabulary := pipeline.DefaultVocabulary()
	extractor := pipeline.DefaultFeatureExtractor(vocabulary)

	graphs := graph.NewHolder(graph.NewKnowledgeGraph(graph.WithLogger(logger)))
	builder := pipeline.NewBuilder(extractor, pipeline.WithBuilderLogger(logger))
	classifier := retrieval.NewClassifier(graphs, vocabulary)
	engine := retrieval.NewGraphEngine(graphs)
	searcher := retrieval.NewSearcher(classifier, engine, vectors, config, retrieval.WithSearcherLogger(logger))

	return &Codelore{
		Graphs:     graphs,
		Builder:    builder,
		Classifier: classifier,
		Engine:     engine,
		Searcher:   searcher,
		Vectors:    vectors,
		log:        logger,
	}
}

// NewWithPgVector creates a Codelore instance whose vector searcher is a
// pgvector-backed chunk index with the default sentence transformer
// embedder.
func NewWithPgVector(dbConfig *helper.DatabaseConfiguration, embeddingDim int, config model.SearchConfig) (*Codelore, error) {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	db := helper.NewDatabase("codelore", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return nil, helper.NewError("create default embedder", err)
	}

	// force=false to not reload if functions already exist
	vectors, err := database.NewVectorsDBHandler(db, embedder, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create vectors handler", err)
	}

	c := New(vectors, config)
	c.db = db
	return c, nil
}

// Close closes the database connection if one was opened
func (c *Codelore) Close() error {
	if c.db != nil && c.db.Instance != nil {
		return c.db.Instance.Close()
	}
	return nil
}

// IngestCommits rebuilds the knowledge graph from a full batch of commit
// feed records and atomically publishes the new graph. Readers running
// concurrently keep the previous snapshot until the swap. Returns the
// stats of the new graph.
func (c *Codelore) IngestCommits(records []model.CommitRecord) (model.GraphStats, error) {
	g, err := c.Builder.Build(records)
	if err != nil {
		return model.GraphStats{}, helper.NewError("ingest commits", err)
	}

	c.Graphs.Swap(g)
	stats := g.Stats()

	c.log.Info("Published new graph snapshot",
		slog.Int("commits", stats.Nodes.Commits),
		slog.Int("developers", stats.Nodes.Developers),
	)

	return stats, nil
}

// Search answers a natural-language query with fused graph and vector
// results.
func (c *Codelore) Search(ctx context.Context, query string, maxResults int) (*model.SearchResponse, error) {
	return c.Searcher.Search(ctx, query, maxResults)
}

// Explain reports how a query would be classified and processed without
// executing it.
func (c *Codelore) Explain(query string) *retrieval.Explanation {
	return c.Classifier.Explain(query)
}

// Stats returns node and relationship counts for the current snapshot
func (c *Codelore) Stats() model.GraphStats {
	return c.Graphs.Graph().Stats()
}

// SampleQueries returns example queries demonstrating each retrieval
// strategy.
func SampleQueries() []string {
	return []string{
		"What has Peter worked on related to authentication?",
		"Who was the last person to change leaderboard_service.dart and when?",
		"Show me all contributors to the trading feature",
		"What has John worked on recently?",
		"How does the XP system work?",
	}
}
