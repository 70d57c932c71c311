package main

import (
	"context"
	"fmt"
	"log"

	"github.com/codelore/codelore"
	"github.com/codelore/codelore/model"
)

func sampleCommits() []model.CommitRecord {
	return []model.CommitRecord{
		{
			Hash:         "a1f8c3d",
			Author:       "Peter",
			Email:        "peter@example.com",
			Timestamp:    unix(1700000100),
			Subject:      "Implement Web3Auth authentication flow",
			Body:         "Adds login and signup screens wired to Web3Auth.",
			FilesChanged: []string{"lib/services/auth_service.dart", "lib/screens/login_screen.dart"},
		},
		{
			Hash:         "b2e9d4a",
			Author:       "Sarah",
			Email:        "sarah@example.com",
			Timestamp:    unix(1700000200),
			Subject:      "Add leaderboard ranking service",
			Body:         "Initial leaderboard with weekly score reset.",
			FilesChanged: []string{"lib/services/leaderboard_service.dart"},
		},
		{
			Hash:         "c3d0e5b",
			Author:       "Peter",
			Email:        "peter@example.com",
			Timestamp:    unix(1700000300),
			Subject:      "Fix leaderboard sort order",
			Body:         "Scores were ascending; the leaderboard now ranks descending.",
			FilesChanged: []string{"lib/services/leaderboard_service.dart"},
		},
	}
}

func unix(ts int64) model.FlexTime {
	var t model.FlexTime
	if err := t.UnmarshalJSON([]byte(fmt.Sprint(ts))); err != nil {
		log.Fatalf("bad timestamp: %v", err)
	}
	return t
}

func main() {
	// Graph-only instance: no vector index attached
	c := codelore.New(nil, model.DefaultSearchConfig())

	stats, err := c.IngestCommits(sampleCommits())
	if err != nil {
		log.Fatalf("Failed to ingest commits: %v", err)
	}
	fmt.Printf("Graph: %d nodes, %d relationships\n", stats.Nodes.Total, stats.Relationships.Total)

	queries := []string{
		"What has Peter worked on related to leaderboard?",
		"Who was the last person to change lib/services/leaderboard_service.dart?",
		"Show me all contributors to the authentication feature",
	}

	for _, query := range queries {
		explanation := c.Explain(query)
		fmt.Printf("\nQuery: %s\nType: %s, Params: %v\n", query, explanation.DetectedType, explanation.Parameters)

		response, err := c.Search(context.Background(), query, 5)
		if err != nil {
			log.Printf("search failed: %v", err)
			continue
		}

		for i, result := range response.CombinedResults {
			switch r := result.(type) {
			case *model.EnhancedCommitResult:
				fmt.Printf("  %d. [%s] %s by %s\n", i+1, r.Commit.Hash, r.Commit.Subject, r.Commit.Author)
			case *model.FileChangeResult:
				fmt.Printf("  %d. last changed by %s in [%s] %s\n", i+1, r.Commit.Author, r.Commit.Hash, r.Commit.Subject)
			case *model.FeatureContributionResult:
				fmt.Printf("  %d. %s (%d commits)\n", i+1, r.Developer.Name, r.ContributionCount)
			}
		}
		fmt.Printf("  took %.4fs\n", response.ExecutionTime)
	}
}
