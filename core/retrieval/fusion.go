package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codelore/codelore/helper"
	"github.com/codelore/codelore/model"
)

// VectorSearcher is the external similarity search service over the
// chunk index. Query returns ranked hits for the raw query text;
// similarity may be distance-derived and negative.
type VectorSearcher interface {
	Query(ctx context.Context, text string, maxResults int) ([]*model.VectorResult, error)
}

// Searcher is the result fusion layer. It classifies a query, dispatches
// it to the graph engine and the vector searcher, and merges both result
// sets into one ranked, deduplicated list with latency accounting.
type Searcher struct {
	classifier *Classifier
	engine     *GraphEngine
	vectors    VectorSearcher
	config     model.SearchConfig
	log        *slog.Logger
}

// SearcherOption configures a Searcher
type SearcherOption func(*Searcher)

// WithSearcherLogger sets the searcher logger
func WithSearcherLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		s.log = logger
	}
}

// NewSearcher creates the fusion layer. A nil vector searcher yields
// graph-only operation.
func NewSearcher(classifier *Classifier, engine *GraphEngine, vectors VectorSearcher, config model.SearchConfig, options ...SearcherOption) *Searcher {
	s := &Searcher{
		classifier: classifier,
		engine:     engine,
		vectors:    vectors,
		config:     config,
		log:        helper.NewDefaultLogger(os.Stdout),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Search answers a natural-language query. Graph hits for classified
// intents rank first; vector hits fill the remaining slots, dropping any
// that restate a commit or file already answered by the graph. The
// response always carries the wall-clock execution time, even on partial
// failure. No results is not an error; Search fails only when no
// retrieval path could execute at all.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) (*model.SearchResponse, error) {
	start := time.Now()

	if maxResults <= 0 {
		maxResults = s.config.MaxResults
	}

	classification := s.classifier.Classify(query)
	response := &model.SearchResponse{
		Query:      query,
		QueryType:  classification.Type,
		Parameters: classification.Parameters,
	}
	defer func() {
		response.ExecutionTime = time.Since(start).Seconds()
	}()

	graphRan := false
	if s.config.UseGraph && classification.GraphQueryAvailable() {
		response.GraphResults = s.engine.Execute(classification, maxResults)
		graphRan = true
		s.log.Debug("Graph query executed",
			slog.String("type", string(classification.Type)),
			slog.Int("results", len(response.GraphResults)),
		)
	}

	var vectorErr error
	if s.config.UseVector && s.vectors != nil {
		response.VectorResults, vectorErr = s.vectorSearch(ctx, query, maxResults)
		if vectorErr != nil {
			s.log.Warn("Vector search failed, degrading to graph-only results",
				slog.String("error", vectorErr.Error()),
			)
		}
	} else {
		vectorErr = fmt.Errorf("vector search disabled")
	}

	if !graphRan && vectorErr != nil {
		return response, helper.NewError("search", &helper.FusionError{
			GraphErr:  fmt.Errorf("no graph query for type %s", classification.Type),
			VectorErr: vectorErr,
		})
	}

	response.CombinedResults = s.combine(response.GraphResults, response.VectorResults, maxResults)
	return response, nil
}

// vectorSearch runs the similarity search under the configured deadline
// and normalizes similarities. A caller abandoning the search cancels
// the service call through the shared context.
func (s *Searcher) vectorSearch(ctx context.Context, query string, maxResults int) ([]*model.VectorResult, error) {
	if s.config.VectorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.VectorTimeout)
		defer cancel()
	}

	hits, err := s.vectors.Query(ctx, query, maxResults)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, helper.NewError("vector search", helper.ErrRetrievalTimeout)
		}
		return nil, helper.NewError("vector search", err)
	}

	kept := make([]*model.VectorResult, 0, len(hits))
	for _, hit := range hits {
		hit.Similarity = clampSimilarity(hit.Similarity)
		if hit.Similarity < s.config.MinSimilarity {
			continue
		}
		kept = append(kept, hit)
	}
	return kept, nil
}

// clampSimilarity maps distance-derived similarities into [0, 1].
// Backends reporting 1 - cosine_distance can go as low as -1; negative
// similarity carries no ranking information here, so it clamps to zero.
func clampSimilarity(similarity float64) float64 {
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// combine places graph results first (higher precision for classified
// intents) and fills the remaining slots with vector hits that do not
// restate a commit or file the graph already answered.
func (s *Searcher) combine(graphResults []model.Result, vectorResults []*model.VectorResult, maxResults int) []model.Result {
	combined := make([]model.Result, 0, maxResults)
	hashes := map[string]bool{}
	paths := map[string]bool{}

	for _, result := range graphResults {
		if len(combined) >= maxResults {
			break
		}
		combined = append(combined, result)

		switch r := result.(type) {
		case *model.EnhancedCommitResult:
			hashes[r.Commit.Hash] = true
			for _, file := range r.Files {
				paths[file.Path] = true
			}
		case *model.FileChangeResult:
			for _, commit := range r.History {
				hashes[commit.Hash] = true
			}
			for _, path := range r.Commit.FilesChanged {
				paths[path] = true
			}
		case *model.FeatureContributionResult:
			for _, commit := range r.Commits {
				hashes[commit.Hash] = true
			}
		}
	}

	for _, hit := range vectorResults {
		if len(combined) >= maxResults {
			break
		}
		if restatesGraphResult(hit, hashes, paths) {
			continue
		}
		combined = append(combined, hit)
	}

	return combined
}

// restatesGraphResult reports whether a vector hit refers to a commit
// hash or file path already present in the graph results, by metadata
// identity or by the hash appearing in the chunk content.
func restatesGraphResult(hit *model.VectorResult, hashes map[string]bool, paths map[string]bool) bool {
	if hash, ok := hit.Metadata["commit_hash"].(string); ok && hashes[hash] {
		return true
	}
	if path, ok := hit.Metadata["file_path"].(string); ok && paths[path] {
		return true
	}
	for hash := range hashes {
		if hash == "" {
			continue
		}
		prefix := hash
		if len(prefix) > 8 {
			prefix = prefix[:8]
		}
		if strings.Contains(hit.Content, prefix) {
			return true
		}
	}
	return false
}
