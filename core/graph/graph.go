package graph

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/codelore/codelore/helper"
	"github.com/codelore/codelore/model"
	"github.com/google/uuid"
)

// DuplicatePolicy controls what happens when a commit hash is ingested
// twice within one graph
type DuplicatePolicy int

const (
	// OverwriteDuplicates replaces the earlier commit, so re-running an
	// ingestion batch is idempotent. This is the default.
	OverwriteDuplicates DuplicatePolicy = iota
	// RejectDuplicates returns helper.ErrDuplicateCommit instead.
	RejectDuplicates
)

// KnowledgeGraph is an in-memory graph of developers, commits, files and
// features connected by typed relationships. It is append-only while a
// build pass runs and read-only afterwards; readers obtain it through a
// Holder, and rebuilds publish a fresh graph rather than mutating one
// that is already visible.
type KnowledgeGraph struct {
	log    *slog.Logger
	policy DuplicatePolicy

	developers map[string]*model.Developer // key: lowercased name
	emailIndex map[string]string           // lowercased email -> developer key
	commits    map[string]*model.Commit    // key: hash
	files      map[string]*model.File      // key: path
	features   map[string]*model.Feature   // key: normalized name

	relationships []*model.Relationship

	commitsByDeveloper map[string][]string              // developer key -> hashes, ingest order
	featureEdges       map[string][]*model.Relationship // hash -> IMPLEMENTS/MENTIONS edges
	featureCommits     map[string][]string              // feature key -> hashes
}

// Option configures a KnowledgeGraph
type Option func(*KnowledgeGraph)

// WithDuplicatePolicy sets the re-ingestion policy
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(g *KnowledgeGraph) {
		g.policy = policy
	}
}

// WithLogger sets the graph logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *KnowledgeGraph) {
		g.log = logger
	}
}

// NewKnowledgeGraph creates an empty graph
func NewKnowledgeGraph(options ...Option) *KnowledgeGraph {
	g := &KnowledgeGraph{
		log:                helper.NewDefaultLogger(os.Stdout),
		developers:         map[string]*model.Developer{},
		emailIndex:         map[string]string{},
		commits:            map[string]*model.Commit{},
		files:              map[string]*model.File{},
		features:           map[string]*model.Feature{},
		commitsByDeveloper: map[string][]string{},
		featureEdges:       map[string][]*model.Relationship{},
		featureCommits:     map[string][]string{},
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// UpsertDeveloper returns the developer with the given name, creating the
// node on first sight. A new email for a known name is recorded as an
// alias; developers are never deleted.
func (g *KnowledgeGraph) UpsertDeveloper(name string, email string) *model.Developer {
	key := strings.ToLower(strings.TrimSpace(name))
	email = strings.ToLower(strings.TrimSpace(email))

	developer, exists := g.developers[key]
	if !exists {
		developer = &model.Developer{
			ID:        uuid.New(),
			Name:      strings.TrimSpace(name),
			CreatedAt: time.Now(),
		}
		g.developers[key] = developer
	}

	if email != "" && !developer.HasEmail(email) {
		developer.EmailAliases = append(developer.EmailAliases, email)
		g.emailIndex[email] = key
	}

	return developer
}

// UpsertFile returns the file node for the given path, creating it with
// a derived language on first reference.
func (g *KnowledgeGraph) UpsertFile(path string) *model.File {
	file, exists := g.files[path]
	if !exists {
		file = &model.File{
			Path:      path,
			Language:  model.LanguageFromPath(path),
			CreatedAt: time.Now(),
		}
		g.files[path] = file
	}
	return file
}

// UpsertFeature returns the feature node for the given name, normalizing
// it so lookups are case-insensitive.
func (g *KnowledgeGraph) UpsertFeature(name string, description string) *model.Feature {
	key := model.NormalizeFeatureName(name)
	feature, exists := g.features[key]
	if !exists {
		feature = &model.Feature{
			ID:          uuid.New(),
			Name:        key,
			Description: description,
			CreatedAt:   time.Now(),
		}
		g.features[key] = feature
	}
	return feature
}

// AddCommit inserts a commit node, transitively creating its developer
// and file nodes and the AUTHORED and MODIFIED edges. Commits without a
// hash or a resolvable author are rejected. Re-ingesting a hash follows
// the duplicate policy: the default overwrites the earlier commit so the
// operation is idempotent.
func (g *KnowledgeGraph) AddCommit(commit *model.Commit) error {
	if commit == nil || commit.Hash == "" {
		return helper.NewError("add commit", fmt.Errorf("commit hash is empty"))
	}
	if strings.TrimSpace(commit.Author) == "" {
		return helper.NewError("add commit", fmt.Errorf("commit %s has no resolvable author", commit.Hash))
	}

	if _, exists := g.commits[commit.Hash]; exists {
		if g.policy == RejectDuplicates {
			return helper.NewError("add commit", helper.ErrDuplicateCommit)
		}
		g.removeCommit(commit.Hash)
		g.log.Debug("Overwrote commit on re-ingestion", slog.String("hash", commit.Hash))
	}

	developer := g.UpsertDeveloper(commit.Author, "")
	commit.AuthorID = developer.ID
	developerKey := strings.ToLower(developer.Name)

	g.commits[commit.Hash] = commit
	g.commitsByDeveloper[developerKey] = append(g.commitsByDeveloper[developerKey], commit.Hash)
	g.relationships = append(g.relationships, &model.Relationship{
		Type:      model.RelationshipAuthored,
		From:      developer.Name,
		To:        commit.Hash,
		CreatedAt: time.Now(),
	})

	for _, path := range commit.FilesChanged {
		file := g.UpsertFile(path)
		g.insertIntoHistory(file, commit)
		g.relationships = append(g.relationships, &model.Relationship{
			Type:      model.RelationshipModified,
			From:      commit.Hash,
			To:        path,
			CreatedAt: time.Now(),
		})
	}

	return nil
}

// LinkFeature connects a commit to a feature with an IMPLEMENTS or
// MENTIONS edge. The feature node is created on first use.
func (g *KnowledgeGraph) LinkFeature(hash string, featureName string, relType model.RelationshipType, confidence float64, description string) error {
	commit, exists := g.commits[hash]
	if !exists {
		return helper.NewError("link feature", fmt.Errorf("unknown commit %s", hash))
	}
	if relType != model.RelationshipImplements && relType != model.RelationshipMentions {
		return helper.NewError("link feature", fmt.Errorf("invalid feature relationship type %s", relType))
	}

	feature := g.UpsertFeature(featureName, description)

	edge := &model.Relationship{
		Type:       relType,
		From:       commit.Hash,
		To:         feature.Name,
		Confidence: confidence,
		CreatedAt:  time.Now(),
	}
	g.relationships = append(g.relationships, edge)
	g.featureEdges[commit.Hash] = append(g.featureEdges[commit.Hash], edge)
	g.featureCommits[feature.Name] = append(g.featureCommits[feature.Name], commit.Hash)

	return nil
}

// insertIntoHistory places the commit hash into the file history keeping
// the list sorted by commit timestamp ascending, not just appended.
func (g *KnowledgeGraph) insertIntoHistory(file *model.File, commit *model.Commit) {
	position := sort.Search(len(file.History), func(i int) bool {
		other := g.commits[file.History[i]]
		return other != nil && other.Timestamp.After(commit.Timestamp)
	})

	file.History = append(file.History, "")
	copy(file.History[position+1:], file.History[position:])
	file.History[position] = commit.Hash
}

// removeCommit unlinks an earlier ingestion of the same hash so the
// overwrite leaves no duplicate edges behind. Developer, file and
// feature nodes stay.
func (g *KnowledgeGraph) removeCommit(hash string) {
	commit := g.commits[hash]
	if commit == nil {
		return
	}
	delete(g.commits, hash)

	developerKey := strings.ToLower(commit.Author)
	g.commitsByDeveloper[developerKey] = removeString(g.commitsByDeveloper[developerKey], hash)

	for _, path := range commit.FilesChanged {
		if file := g.files[path]; file != nil {
			file.History = removeString(file.History, hash)
		}
	}

	for _, edge := range g.featureEdges[hash] {
		g.featureCommits[edge.To] = removeString(g.featureCommits[edge.To], hash)
	}
	delete(g.featureEdges, hash)

	kept := g.relationships[:0]
	for _, rel := range g.relationships {
		if rel.From != hash && rel.To != hash {
			kept = append(kept, rel)
		}
	}
	g.relationships = kept
}

func removeString(list []string, value string) []string {
	kept := list[:0]
	for _, item := range list {
		if item != value {
			kept = append(kept, item)
		}
	}
	return kept
}

// Stats returns node and relationship counts for the graph
func (g *KnowledgeGraph) Stats() model.GraphStats {
	byType := map[model.RelationshipType]int{}
	for _, rel := range g.relationships {
		byType[rel.Type]++
	}

	nodes := model.NodeStats{
		Developers: len(g.developers),
		Commits:    len(g.commits),
		Files:      len(g.files),
		Features:   len(g.features),
	}
	nodes.Total = nodes.Developers + nodes.Commits + nodes.Files + nodes.Features

	return model.GraphStats{
		Nodes: nodes,
		Relationships: model.RelationshipStats{
			ByType: byType,
			Total:  len(g.relationships),
		},
	}
}
