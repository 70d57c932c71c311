package main

import (
	"context"
	"fmt"
	"log"

	"github.com/codelore/codelore"
	"github.com/codelore/codelore/database"
	"github.com/codelore/codelore/helper"
	"github.com/codelore/codelore/model"
)

// Hybrid demo: commit graph plus a pgvector chunk index inside a
// disposable PostgreSQL container.
func main() {
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := teardown(context.Background()); err != nil {
			log.Printf("teardown failed: %v", err)
		}
	}()

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	c, err := codelore.NewWithPgVector(dbConfig, 384, model.DefaultSearchConfig())
	if err != nil {
		log.Fatalf("Failed to create codelore: %v", err)
	}
	defer c.Close()

	records := []model.CommitRecord{
		{
			Hash:         "f4a1b2c",
			Author:       "Maya",
			Email:        "maya@example.com",
			Timestamp:    unix(1700001000),
			Subject:      "Add XP system progression curve",
			Body:         "Levels now follow a quadratic XP curve with achievement bonuses.",
			FilesChanged: []string{"lib/game/xp_system.dart"},
		},
		{
			Hash:         "e5b2c3d",
			Author:       "Maya",
			Email:        "maya@example.com",
			Timestamp:    unix(1700002000),
			Subject:      "Wire trading API to exchange backend",
			FilesChanged: []string{"lib/services/trading_service.dart"},
		},
	}

	if _, err := c.IngestCommits(records); err != nil {
		log.Fatalf("Failed to ingest commits: %v", err)
	}

	// Index supporting documentation chunks for the vector side. In
	// production these come from the chunking service.
	vectors := c.Vectors.(*database.VectorsDBHandler)
	chunks := []struct {
		content  string
		metadata model.Metadata
	}{
		{
			content:  "The XP system awards experience points per trade; levels follow a quadratic curve.",
			metadata: model.Metadata{"file_path": "docs/xp_system.md"},
		},
		{
			content:  "Commit f4a1b2c introduced the progression curve used by the leveling screen.",
			metadata: model.Metadata{"commit_hash": "f4a1b2c"},
		},
	}
	for _, chunk := range chunks {
		if _, err := vectors.InsertChunk(context.Background(), chunk.content, chunk.metadata); err != nil {
			log.Fatalf("Failed to index chunk: %v", err)
		}
	}

	response, err := c.Search(context.Background(), "How does the XP system work?", 5)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("Query type: %s (%.4fs)\n", response.QueryType, response.ExecutionTime)
	for i, result := range response.CombinedResults {
		switch r := result.(type) {
		case *model.VectorResult:
			fmt.Printf("  %d. (%.2f) %s\n", i+1, r.Similarity, r.Content)
		case *model.EnhancedCommitResult:
			fmt.Printf("  %d. [%s] %s\n", i+1, r.Commit.Hash, r.Commit.Subject)
		}
	}
}

func unix(ts int64) model.FlexTime {
	var t model.FlexTime
	if err := t.UnmarshalJSON([]byte(fmt.Sprint(ts))); err != nil {
		log.Fatalf("bad timestamp: %v", err)
	}
	return t
}
