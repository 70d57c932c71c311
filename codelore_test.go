package codelore

import (
	"context"
	"testing"
	"time"

	"github.com/codelore/codelore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVectorSearcher struct {
	hits []*model.VectorResult
}

func (f *fakeVectorSearcher) Query(ctx context.Context, text string, maxResults int) ([]*model.VectorResult, error) {
	if maxResults > 0 && len(f.hits) > maxResults {
		return f.hits[:maxResults], nil
	}
	return f.hits, nil
}

func unixTime(unix int64) model.FlexTime {
	return model.FlexTime{Time: time.Unix(unix, 0).UTC()}
}

func testRecords() []model.CommitRecord {
	return []model.CommitRecord{
		{
			Hash:         "a1",
			Author:       "Peter",
			Email:        "peter@example.com",
			Timestamp:    unixTime(100),
			Subject:      "Implement Web3Auth authentication",
			FilesChanged: []string{"lib/services/auth_service.dart"},
		},
		{
			Hash:         "b2",
			Author:       "Sarah",
			Timestamp:    unixTime(100),
			Subject:      "Create leaderboard screen",
			FilesChanged: []string{"leaderboard_service.dart"},
		},
		{
			Hash:         "c3",
			Author:       "Maya",
			Timestamp:    unixTime(200),
			Subject:      "Fix leaderboard ranking tie-break",
			FilesChanged: []string{"leaderboard_service.dart"},
		},
	}
}

func TestIngestCommits(t *testing.T) {
	t.Run("Ingestion builds and publishes a graph snapshot", func(t *testing.T) {
		c := New(nil, model.DefaultSearchConfig())

		stats, err := c.IngestCommits(testRecords())
		require.NoError(t, err)

		assert.Equal(t, 3, stats.Nodes.Commits)
		assert.Equal(t, 3, stats.Nodes.Developers)
		assert.Equal(t, stats, c.Stats())
	})

	t.Run("Re-ingestion replaces the previous snapshot", func(t *testing.T) {
		c := New(nil, model.DefaultSearchConfig())

		_, err := c.IngestCommits(testRecords())
		require.NoError(t, err)

		stats, err := c.IngestCommits(testRecords()[:1])
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Nodes.Commits)
		assert.Equal(t, 1, c.Stats().Nodes.Commits)
	})
}

func TestCodeloreSearch(t *testing.T) {
	t.Run("Developer work query end to end", func(t *testing.T) {
		c := New(&fakeVectorSearcher{}, model.DefaultSearchConfig())
		_, err := c.IngestCommits(testRecords())
		require.NoError(t, err)

		response, err := c.Search(context.Background(), "What has Peter worked on related to authentication?", 5)
		require.NoError(t, err)

		assert.Equal(t, model.QueryTypeDeveloperWork, response.QueryType)
		assert.Equal(t, "Peter", response.Parameters["name"])
		assert.Equal(t, "authentication", response.Parameters["feature_keyword"])
		require.Len(t, response.GraphResults, 1)
		commit, ok := response.GraphResults[0].(*model.EnhancedCommitResult)
		require.True(t, ok)
		assert.Equal(t, "a1", commit.Commit.Hash)
	})

	t.Run("File history query answers with the latest modifier", func(t *testing.T) {
		c := New(&fakeVectorSearcher{}, model.DefaultSearchConfig())
		_, err := c.IngestCommits(testRecords())
		require.NoError(t, err)

		response, err := c.Search(context.Background(), "Who was the last person to change leaderboard_service.dart and when?", 5)
		require.NoError(t, err)

		assert.Equal(t, model.QueryTypeFileHistory, response.QueryType)
		require.Len(t, response.GraphResults, 1)
		change, ok := response.GraphResults[0].(*model.FileChangeResult)
		require.True(t, ok)
		assert.Equal(t, "c3", change.Commit.Hash)
		assert.Equal(t, "Maya", change.Author.Name)
	})

	t.Run("General query is answered from vector search", func(t *testing.T) {
		vectors := &fakeVectorSearcher{hits: []*model.VectorResult{
			{Content: "XP is granted per completed lesson.", Similarity: 0.9},
		}}
		c := New(vectors, model.DefaultSearchConfig())
		_, err := c.IngestCommits(testRecords())
		require.NoError(t, err)

		response, err := c.Search(context.Background(), "How does the XP system work?", 5)
		require.NoError(t, err)

		assert.Equal(t, model.QueryTypeGeneral, response.QueryType)
		assert.Empty(t, response.GraphResults)
		require.Len(t, response.CombinedResults, 1)
		assert.Equal(t, model.SourceVector, response.CombinedResults[0].Source())
	})

	t.Run("Sample queries classify without error", func(t *testing.T) {
		c := New(&fakeVectorSearcher{}, model.DefaultSearchConfig())
		_, err := c.IngestCommits(testRecords())
		require.NoError(t, err)

		for _, query := range SampleQueries() {
			explanation := c.Explain(query)
			assert.NotEmpty(t, explanation.ProcessingSteps, query)
		}
	})
}
