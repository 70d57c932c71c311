package retrieval

import (
	"regexp"
	"strings"

	"github.com/codelore/codelore/core/graph"
	"github.com/codelore/codelore/core/pipeline"
	"github.com/codelore/codelore/model"
)

// Classification is the detected intent of a query with the parameters
// extracted for it.
type Classification struct {
	Type       model.QueryType
	Parameters map[string]string
}

// GraphQueryAvailable reports whether a graph traversal exists for the
// detected type. General queries go to vector search only.
func (c Classification) GraphQueryAvailable() bool {
	return c.Type != model.QueryTypeGeneral
}

// Explanation describes how a query would be processed, for diagnostics
// and demos.
type Explanation struct {
	Query               string            `json:"query"`
	DetectedType        model.QueryType   `json:"detected_type"`
	Parameters          map[string]string `json:"parameters,omitempty"`
	GraphQueryAvailable bool              `json:"graph_query_available"`
	ProcessingSteps     []string          `json:"processing_steps,omitempty"`
}

var (
	fileToken    = regexp.MustCompile(`[\w./\\-]*\w\.\w+`)
	changeVerbs  = regexp.MustCompile(`(?i)\b(chang\w*|modif\w*|edit\w*|touch\w*|history|updat\w*)\b`)
	workVerbs    = regexp.MustCompile(`(?i)\b(work\w*|commit\w*|chang\w*|contribut\w*|implement\w*|did|done|built?|recent\w*)\b`)
	whoPhrases   = regexp.MustCompile(`(?i)\b(who|whom|contributors?|team|everyone|people)\b`)
	wordSplitter = regexp.MustCompile(`[^\w.]+`)
)

// Classifier assigns a query type and extracts parameters from raw
// natural-language queries. It reads the current graph snapshot to
// recognize developer names, and never fails: anything unrecognized
// degrades to a general (vector-only) query.
type Classifier struct {
	graphs     *graph.Holder
	vocabulary []string
}

// NewClassifier creates a classifier over the given graph holder. An
// empty vocabulary falls back to the extractor default, keeping the
// classifier and the extractor in agreement about feature keywords.
func NewClassifier(graphs *graph.Holder, vocabulary []string) *Classifier {
	if len(vocabulary) == 0 {
		vocabulary = pipeline.DefaultVocabulary()
	}
	normalized := make([]string, 0, len(vocabulary))
	for _, keyword := range vocabulary {
		if keyword = model.NormalizeFeatureName(keyword); keyword != "" {
			normalized = append(normalized, keyword)
		}
	}
	return &Classifier{
		graphs:     graphs,
		vocabulary: normalized,
	}
}

// Classify inspects the query and picks the first matching type in
// priority order: file_history, developer_work, feature_contributors,
// general.
func (c *Classifier) Classify(query string) Classification {
	queryLower := strings.ToLower(query)

	// 1. File history: a file-like token plus change/history wording.
	if path := c.extractFilePath(query); path != "" && changeVerbs.MatchString(query) {
		return Classification{
			Type:       model.QueryTypeFileHistory,
			Parameters: map[string]string{"path": path},
		}
	}

	// 2. Developer work: a known developer name plus work wording.
	if name := c.matchDeveloper(queryLower); name != "" && workVerbs.MatchString(query) {
		parameters := map[string]string{"name": name}
		if keyword := c.matchKeyword(queryLower); keyword != "" {
			parameters["feature_keyword"] = keyword
		}
		return Classification{
			Type:       model.QueryTypeDeveloperWork,
			Parameters: parameters,
		}
	}

	// 3. Feature contributors: who/contributors wording plus a feature
	// keyword known to the vocabulary or the graph.
	if whoPhrases.MatchString(query) {
		if keyword := c.matchKeyword(queryLower); keyword != "" {
			return Classification{
				Type:       model.QueryTypeFeatureContributors,
				Parameters: map[string]string{"feature_keyword": keyword},
			}
		}
	}

	// 4. Everything else is answered by vector search alone.
	return Classification{
		Type:       model.QueryTypeGeneral,
		Parameters: map[string]string{},
	}
}

// extractFilePath finds a file-like token: something with an extension
// the language table knows, or a token containing a path separator.
func (c *Classifier) extractFilePath(query string) string {
	for _, token := range fileToken.FindAllString(query, -1) {
		token = strings.Trim(token, ".,;:!?")
		if strings.ContainsAny(token, "/\\") || model.LanguageFromPath(token) != "" {
			return token
		}
	}
	return ""
}

// matchDeveloper returns the display name of the first known developer
// mentioned in the query, preferring the longest name so "Peter Parker"
// wins over "Peter". Single-word mentions match a multi-word developer
// by first name.
func (c *Classifier) matchDeveloper(queryLower string) string {
	tokens := map[string]bool{}
	for _, token := range wordSplitter.Split(queryLower, -1) {
		if token != "" {
			tokens[strings.Trim(token, ".")] = true
		}
	}

	var best string
	for _, name := range c.graphs.Graph().DeveloperNames() {
		nameLower := strings.ToLower(name)
		matched := strings.Contains(queryLower, nameLower)
		if !matched {
			if first, _, found := strings.Cut(nameLower, " "); found {
				matched = tokens[first]
			}
		}
		if matched && len(name) > len(best) {
			best = name
		}
	}
	return best
}

// matchKeyword returns the longest vocabulary or graph feature keyword
// contained in the query.
func (c *Classifier) matchKeyword(queryLower string) string {
	var best string
	match := func(keyword string) {
		if strings.Contains(queryLower, keyword) && len(keyword) > len(best) {
			best = keyword
		}
	}
	for _, keyword := range c.vocabulary {
		match(keyword)
	}
	for _, name := range c.graphs.Graph().FeatureNames() {
		match(name)
	}
	return best
}

// Explain reports the detected type, the extracted parameters and the
// processing strategy for a query without executing it.
func (c *Classifier) Explain(query string) *Explanation {
	classification := c.Classify(query)

	explanation := &Explanation{
		Query:               query,
		DetectedType:        classification.Type,
		Parameters:          classification.Parameters,
		GraphQueryAvailable: classification.GraphQueryAvailable(),
	}

	switch classification.Type {
	case model.QueryTypeDeveloperWork:
		explanation.ProcessingSteps = []string{
			"Query knowledge graph for commits authored by the developer",
			"Filter by feature keyword if provided",
			"Attach changed files and linked features",
			"Fill remaining slots with vector search hits",
		}
	case model.QueryTypeFileHistory:
		explanation.ProcessingSteps = []string{
			"Find the file node in the knowledge graph",
			"Walk its commit history ordered by timestamp",
			"Surface the most recent change with its author",
			"Fill remaining slots with vector search hits",
		}
	case model.QueryTypeFeatureContributors:
		explanation.ProcessingSteps = []string{
			"Find features matching the keyword",
			"Collect commits with IMPLEMENTS or MENTIONS edges to them",
			"Group commits by author",
			"Fill remaining slots with vector search hits",
		}
	default:
		explanation.ProcessingSteps = []string{
			"No graph traversal matches this query",
			"Answer from vector similarity search alone",
		}
	}

	return explanation
}
