package model

// QueryType represents the intent detected for a natural-language query
type QueryType string

const (
	QueryTypeDeveloperWork       QueryType = "developer_work"
	QueryTypeFileHistory         QueryType = "file_history"
	QueryTypeFeatureContributors QueryType = "feature_contributors"
	QueryTypeGeneral             QueryType = "general"
)

// ResultKind discriminates the concrete result envelope types
type ResultKind string

const (
	ResultKindEnhancedCommit      ResultKind = "enhanced_commit"
	ResultKindFileChange          ResultKind = "file_change"
	ResultKindFeatureContribution ResultKind = "feature_contribution"
	ResultKindVector              ResultKind = "vector"
)

// ResultSource identifies which retrieval path produced a result
type ResultSource string

const (
	SourceGraph  ResultSource = "graph"
	SourceVector ResultSource = "vector"
)

// Result is a tagged retrieval result. Each concrete type carries only
// the fields relevant to its kind.
type Result interface {
	Kind() ResultKind
	Source() ResultSource
}

// EnhancedCommitResult is a graph hit for developer work queries: one
// commit with its changed files and linked features.
type EnhancedCommitResult struct {
	Commit   *Commit  `json:"commit"`
	Files    []*File  `json:"files,omitempty"`
	Features []string `json:"features,omitempty"`
}

func (r *EnhancedCommitResult) Kind() ResultKind     { return ResultKindEnhancedCommit }
func (r *EnhancedCommitResult) Source() ResultSource { return SourceGraph }

// FileChangeResult is a graph hit for file history queries. Commit is the
// most recent change (the primary answer); History retains the full
// timestamp-ascending change list for context.
type FileChangeResult struct {
	Commit  *Commit    `json:"commit"`
	Author  *Developer `json:"author,omitempty"`
	History []*Commit  `json:"history,omitempty"`
}

func (r *FileChangeResult) Kind() ResultKind     { return ResultKindFileChange }
func (r *FileChangeResult) Source() ResultSource { return SourceGraph }

// FeatureContributionResult is a graph hit for feature contributor
// queries: one developer with their commits towards the feature.
type FeatureContributionResult struct {
	Developer         *Developer `json:"developer"`
	Commits           []*Commit  `json:"commits"`
	ContributionCount int        `json:"contribution_count"`
}

func (r *FeatureContributionResult) Kind() ResultKind     { return ResultKindFeatureContribution }
func (r *FeatureContributionResult) Source() ResultSource { return SourceGraph }

// VectorResult is a similarity search hit from the vector index.
// Similarity is distance-derived (1 - cosine distance) and may arrive
// negative; the fusion layer clamps it to [0, 1] before ranking.
type VectorResult struct {
	Content    string   `json:"content"`
	Similarity float64  `json:"similarity"`
	Metadata   Metadata `json:"metadata,omitempty"`
}

func (r *VectorResult) Kind() ResultKind     { return ResultKindVector }
func (r *VectorResult) Source() ResultSource { return SourceVector }

// SearchResponse is the full fusion output for one query.
type SearchResponse struct {
	Query           string            `json:"query"`
	QueryType       QueryType         `json:"query_type"`
	Parameters      map[string]string `json:"parameters,omitempty"`
	GraphResults    []Result          `json:"graph_results"`
	VectorResults   []*VectorResult   `json:"vector_results"`
	CombinedResults []Result          `json:"combined_results"`
	ExecutionTime   float64           `json:"execution_time"`
}
