package pipeline

import (
	"testing"
	"time"

	"github.com/codelore/codelore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(hash string, author string, unix int64, subject string, files ...string) model.CommitRecord {
	return model.CommitRecord{
		Hash:         hash,
		Author:       author,
		Timestamp:    model.FlexTime{Time: time.Unix(unix, 0).UTC()},
		Subject:      subject,
		FilesChanged: files,
	}
}

func TestBuilderBuild(t *testing.T) {
	t.Run("Build creates nodes and feature edges from records", func(t *testing.T) {
		builder := NewBuilder(DefaultFeatureExtractor(nil))

		g, err := builder.Build([]model.CommitRecord{
			record("a1", "Peter", 100, "Implement Web3Auth authentication", "lib/services/auth_service.dart"),
			record("b2", "Sarah", 200, "Refactor leaderboard pagination", "lib/services/leaderboard_service.dart"),
		})
		require.NoError(t, err)

		stats := g.Stats()
		assert.Equal(t, 2, stats.Nodes.Developers)
		assert.Equal(t, 2, stats.Nodes.Commits)
		assert.Equal(t, 2, stats.Nodes.Files)
		assert.Greater(t, stats.Nodes.Features, 0)

		items := g.FindDeveloperWork("Peter", "")
		require.Len(t, items, 1)
		assert.Equal(t, "a1", items[0].Commit.Hash)
	})

	t.Run("Malformed records are skipped without aborting the batch", func(t *testing.T) {
		builder := NewBuilder(nil)

		g, err := builder.Build([]model.CommitRecord{
			record("", "Peter", 100, "No hash"),
			record("b2", "", 200, "No author"),
			record("c3", "Sarah", 300, "Valid commit"),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, g.Stats().Nodes.Commits)
	})

	t.Run("Ingesting the same record twice yields identical stats", func(t *testing.T) {
		builder := NewBuilder(DefaultFeatureExtractor(nil))
		batch := []model.CommitRecord{
			record("a1", "Peter", 100, "Implement Web3Auth authentication", "lib/services/auth_service.dart"),
		}

		once, err := builder.Build(batch)
		require.NoError(t, err)

		twice, err := builder.Build(append(batch, batch...))
		require.NoError(t, err)

		assert.Equal(t, once.Stats(), twice.Stats())
	})

	t.Run("Ingestion order does not change the graph shape", func(t *testing.T) {
		builder := NewBuilder(DefaultFeatureExtractor(nil))
		first := record("b2", "Peter", 200, "Fix leaderboard ranking", "leaderboard_service.dart")
		second := record("c1", "Sarah", 100, "Create leaderboard screen", "leaderboard_service.dart")

		forward, err := builder.Build([]model.CommitRecord{first, second})
		require.NoError(t, err)
		reversed, err := builder.Build([]model.CommitRecord{second, first})
		require.NoError(t, err)

		assert.Equal(t, forward.Stats(), reversed.Stats())

		forwardHistory := forward.FindFileHistory("leaderboard_service.dart")
		reversedHistory := reversed.FindFileHistory("leaderboard_service.dart")
		require.Len(t, forwardHistory, 2)
		require.Len(t, reversedHistory, 2)
		assert.Equal(t, forwardHistory[0].Hash, reversedHistory[0].Hash)
		assert.Equal(t, forwardHistory[1].Hash, reversedHistory[1].Hash)
	})

	t.Run("Record email accumulates as developer alias", func(t *testing.T) {
		builder := NewBuilder(nil)
		withEmail := record("a1", "Peter", 100, "Implement auth")
		withEmail.Email = "peter@example.com"

		g, err := builder.Build([]model.CommitRecord{withEmail})
		require.NoError(t, err)

		assert.Len(t, g.FindDeveloperWork("peter@example.com", ""), 1)
	})

	t.Run("Each build pass starts from an empty graph", func(t *testing.T) {
		builder := NewBuilder(nil)

		_, err := builder.Build([]model.CommitRecord{record("a1", "Peter", 100, "Implement auth")})
		require.NoError(t, err)

		g, err := builder.Build([]model.CommitRecord{record("b2", "Sarah", 200, "Fix leaderboard")})
		require.NoError(t, err)

		assert.Empty(t, g.FindDeveloperWork("Peter", ""))
		assert.Len(t, g.FindDeveloperWork("Sarah", ""), 1)
	})
}
