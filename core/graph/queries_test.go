package graph

import (
	"testing"

	"github.com/codelore/codelore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph(t *testing.T) *KnowledgeGraph {
	t.Helper()
	g := NewKnowledgeGraph()

	require.NoError(t, g.AddCommit(newCommit("a1", "Peter", 100, "Implement Web3Auth authentication", "lib/services/auth_service.dart")))
	require.NoError(t, g.AddCommit(newCommit("b2", "Peter", 300, "Fix leaderboard ranking tie-break", "lib/services/leaderboard_service.dart")))
	require.NoError(t, g.AddCommit(newCommit("c3", "Sarah", 200, "Refactor leaderboard pagination", "lib/services/leaderboard_service.dart")))
	require.NoError(t, g.AddCommit(newCommit("d4", "Sarah", 400, "Top up session tokens", "lib/services/auth_service.dart")))

	require.NoError(t, g.LinkFeature("a1", "authentication", model.RelationshipImplements, model.ImplementsConfidence, ""))
	require.NoError(t, g.LinkFeature("b2", "leaderboard", model.RelationshipImplements, model.ImplementsConfidence, ""))
	require.NoError(t, g.LinkFeature("c3", "leaderboard", model.RelationshipImplements, model.ImplementsConfidence, ""))
	require.NoError(t, g.LinkFeature("d4", "authentication", model.RelationshipMentions, model.MentionsConfidence, ""))

	return g
}

func TestFindDeveloperWork(t *testing.T) {
	t.Run("All work for a developer most recent first", func(t *testing.T) {
		g := testGraph(t)

		items := g.FindDeveloperWork("Peter", "")
		require.Len(t, items, 2)
		assert.Equal(t, "b2", items[0].Commit.Hash)
		assert.Equal(t, "a1", items[1].Commit.Hash)
		require.Len(t, items[1].Files, 1)
		assert.Equal(t, "lib/services/auth_service.dart", items[1].Files[0].Path)
	})

	t.Run("Keyword filters by message content", func(t *testing.T) {
		g := testGraph(t)

		items := g.FindDeveloperWork("Peter", "authentication")
		require.Len(t, items, 1)
		assert.Equal(t, "a1", items[0].Commit.Hash)
	})

	t.Run("Keyword matches through feature edges when message misses it", func(t *testing.T) {
		g := testGraph(t)

		// The d4 subject never says "authentication"; only its MENTIONS edge does.
		items := g.FindDeveloperWork("Sarah", "authentication")
		require.Len(t, items, 1)
		assert.Equal(t, "d4", items[0].Commit.Hash)
	})

	t.Run("Developer name matching is case-insensitive", func(t *testing.T) {
		g := testGraph(t)

		items := g.FindDeveloperWork("peter", "")
		assert.Len(t, items, 2)
	})

	t.Run("Known email alias resolves the developer", func(t *testing.T) {
		g := testGraph(t)
		g.UpsertDeveloper("Peter", "peter@example.com")

		items := g.FindDeveloperWork("peter@example.com", "")
		assert.Len(t, items, 2)
	})

	t.Run("Unknown developer yields empty result not error", func(t *testing.T) {
		g := testGraph(t)

		assert.Empty(t, g.FindDeveloperWork("Zorro", ""))
	})
}

func TestFindFileHistory(t *testing.T) {
	t.Run("History is timestamp ascending and the last entry is the latest modifier", func(t *testing.T) {
		g := testGraph(t)

		history := g.FindFileHistory("lib/services/leaderboard_service.dart")
		require.Len(t, history, 2)
		assert.Equal(t, "c3", history[0].Hash)
		assert.Equal(t, "b2", history[1].Hash)
		assert.Equal(t, "Peter", history[1].Author)
	})

	t.Run("Unknown path yields empty result not error", func(t *testing.T) {
		g := testGraph(t)

		assert.Empty(t, g.FindFileHistory("lib/missing.dart"))
	})
}

func TestFindFeatureContributors(t *testing.T) {
	t.Run("Contributors grouped by developer with ascending commits", func(t *testing.T) {
		g := testGraph(t)

		contributions := g.FindFeatureContributors("authentication")
		require.Len(t, contributions, 2)

		names := []string{contributions[0].Developer.Name, contributions[1].Developer.Name}
		assert.ElementsMatch(t, []string{"Peter", "Sarah"}, names)
		for _, contribution := range contributions {
			assert.Len(t, contribution.Commits, 1)
		}
	})

	t.Run("Groups ordered by contribution count then name", func(t *testing.T) {
		g := testGraph(t)
		require.NoError(t, g.AddCommit(newCommit("e5", "Sarah", 500, "Add leaderboard cache")))
		require.NoError(t, g.LinkFeature("e5", "leaderboard", model.RelationshipImplements, model.ImplementsConfidence, ""))

		contributions := g.FindFeatureContributors("leaderboard")
		require.Len(t, contributions, 2)
		assert.Equal(t, "Sarah", contributions[0].Developer.Name)
		assert.Len(t, contributions[0].Commits, 2)
		assert.Equal(t, "Peter", contributions[1].Developer.Name)
	})

	t.Run("A commit linked to several matching features counts once", func(t *testing.T) {
		g := testGraph(t)
		require.NoError(t, g.LinkFeature("a1", "auth", model.RelationshipImplements, model.ImplementsConfidence, ""))

		contributions := g.FindFeatureContributors("auth")
		for _, contribution := range contributions {
			seen := map[string]bool{}
			for _, commit := range contribution.Commits {
				assert.False(t, seen[commit.Hash])
				seen[commit.Hash] = true
			}
		}
	})

	t.Run("Unknown feature yields empty result not error", func(t *testing.T) {
		g := testGraph(t)

		assert.Empty(t, g.FindFeatureContributors("holography"))
	})
}

func TestGraphLookups(t *testing.T) {
	t.Run("Author of a commit", func(t *testing.T) {
		g := testGraph(t)

		author := g.AuthorOf("c3")
		require.NotNil(t, author)
		assert.Equal(t, "Sarah", author.Name)
		assert.Nil(t, g.AuthorOf("missing"))
	})

	t.Run("Features for a commit", func(t *testing.T) {
		g := testGraph(t)

		assert.Equal(t, []string{"authentication"}, g.FeaturesForCommit("a1"))
		assert.Empty(t, g.FeaturesForCommit("missing"))
	})

	t.Run("Name listings are sorted", func(t *testing.T) {
		g := testGraph(t)

		assert.Equal(t, []string{"Peter", "Sarah"}, g.DeveloperNames())
		assert.Equal(t, []string{"authentication", "leaderboard"}, g.FeatureNames())
	})
}
