package retrieval

import (
	"github.com/codelore/codelore/core/graph"
	"github.com/codelore/codelore/model"
)

// GraphEngine dispatches classified queries to the knowledge graph and
// wraps the hits in typed result envelopes.
type GraphEngine struct {
	graphs *graph.Holder
}

// NewGraphEngine creates an engine over the given graph holder
func NewGraphEngine(graphs *graph.Holder) *GraphEngine {
	return &GraphEngine{graphs: graphs}
}

// Execute runs the graph traversal for the classification and returns
// the wrapped results, capped at maxResults. General queries and unknown
// entities return an empty slice; absence is a valid answer.
func (e *GraphEngine) Execute(classification Classification, maxResults int) []model.Result {
	g := e.graphs.Graph()

	switch classification.Type {
	case model.QueryTypeDeveloperWork:
		return e.developerWork(g, classification.Parameters, maxResults)
	case model.QueryTypeFileHistory:
		return e.fileHistory(g, classification.Parameters)
	case model.QueryTypeFeatureContributors:
		return e.featureContributors(g, classification.Parameters, maxResults)
	default:
		return nil
	}
}

// developerWork wraps work items as enhanced commits, most recent first.
func (e *GraphEngine) developerWork(g *graph.KnowledgeGraph, params map[string]string, maxResults int) []model.Result {
	items := g.FindDeveloperWork(params["name"], params["feature_keyword"])
	if maxResults > 0 && len(items) > maxResults {
		items = items[:maxResults]
	}

	results := make([]model.Result, 0, len(items))
	for _, item := range items {
		results = append(results, &model.EnhancedCommitResult{
			Commit:   item.Commit,
			Files:    item.Files,
			Features: g.FeaturesForCommit(item.Commit.Hash),
		})
	}
	return results
}

// fileHistory surfaces the most recent change as the primary answer and
// keeps the full ascending history for context.
func (e *GraphEngine) fileHistory(g *graph.KnowledgeGraph, params map[string]string) []model.Result {
	history := g.FindFileHistory(params["path"])
	if len(history) == 0 {
		return nil
	}

	latest := history[len(history)-1]
	return []model.Result{
		&model.FileChangeResult{
			Commit:  latest,
			Author:  g.AuthorOf(latest.Hash),
			History: history,
		},
	}
}

// featureContributors wraps contributor groups, largest first.
func (e *GraphEngine) featureContributors(g *graph.KnowledgeGraph, params map[string]string, maxResults int) []model.Result {
	contributions := g.FindFeatureContributors(params["feature_keyword"])
	if maxResults > 0 && len(contributions) > maxResults {
		contributions = contributions[:maxResults]
	}

	results := make([]model.Result, 0, len(contributions))
	for _, contribution := range contributions {
		results = append(results, &model.FeatureContributionResult{
			Developer:         contribution.Developer,
			Commits:           contribution.Commits,
			ContributionCount: len(contribution.Commits),
		})
	}
	return results
}
