package graph

import (
	"sort"
	"strings"

	"github.com/codelore/codelore/model"
)

// FindDeveloperWork returns every commit authored by the named developer,
// each paired with its changed files, ordered most recent first. If
// featureKeyword is non-empty, commits are kept when their message
// contains the keyword or when they carry an IMPLEMENTS/MENTIONS edge to
// a matching feature. An unknown name yields an empty result, not an
// error: absence is a valid answer.
func (g *KnowledgeGraph) FindDeveloperWork(name string, featureKeyword string) []*model.WorkItem {
	developerKey := strings.ToLower(strings.TrimSpace(name))
	if _, exists := g.developers[developerKey]; !exists {
		if aliased, ok := g.emailIndex[developerKey]; ok {
			developerKey = aliased
		} else {
			return nil
		}
	}

	keyword := strings.ToLower(strings.TrimSpace(featureKeyword))

	var items []*model.WorkItem
	for _, hash := range g.commitsByDeveloper[developerKey] {
		commit := g.commits[hash]
		if commit == nil {
			continue
		}
		if keyword != "" && !g.commitMatchesKeyword(commit, keyword) {
			continue
		}

		files := make([]*model.File, 0, len(commit.FilesChanged))
		for _, path := range commit.FilesChanged {
			if file := g.files[path]; file != nil {
				files = append(files, file)
			}
		}

		items = append(items, &model.WorkItem{Commit: commit, Files: files})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Commit.Timestamp.After(items[j].Commit.Timestamp)
	})

	return items
}

// commitMatchesKeyword checks the commit message and its feature edges
// for a case-insensitive substring match.
func (g *KnowledgeGraph) commitMatchesKeyword(commit *model.Commit, keyword string) bool {
	if strings.Contains(strings.ToLower(commit.Message()), keyword) {
		return true
	}
	for _, edge := range g.featureEdges[commit.Hash] {
		if strings.Contains(edge.To, keyword) {
			return true
		}
	}
	return false
}

// FindFileHistory returns all commits that modified the given path,
// ordered by timestamp ascending. The last element is the most recent
// modifier. An unknown path yields an empty result.
func (g *KnowledgeGraph) FindFileHistory(path string) []*model.Commit {
	file, exists := g.files[path]
	if !exists {
		return nil
	}

	history := make([]*model.Commit, 0, len(file.History))
	for _, hash := range file.History {
		if commit := g.commits[hash]; commit != nil {
			history = append(history, commit)
		}
	}
	return history
}

// FindFeatureContributors groups the commits linked to features matching
// the keyword by author. Commits within each group are ordered by
// timestamp ascending; groups are ordered by contribution count
// descending, then by name for determinism.
func (g *KnowledgeGraph) FindFeatureContributors(featureKeyword string) []*model.Contribution {
	keyword := model.NormalizeFeatureName(featureKeyword)
	if keyword == "" {
		return nil
	}

	seen := map[string]bool{}
	byDeveloper := map[string][]*model.Commit{}

	for featureName, hashes := range g.featureCommits {
		if !strings.Contains(featureName, keyword) {
			continue
		}
		for _, hash := range hashes {
			commit := g.commits[hash]
			if commit == nil || seen[hash] {
				continue
			}
			seen[hash] = true
			developerKey := strings.ToLower(commit.Author)
			byDeveloper[developerKey] = append(byDeveloper[developerKey], commit)
		}
	}

	contributions := make([]*model.Contribution, 0, len(byDeveloper))
	for developerKey, commits := range byDeveloper {
		developer := g.developers[developerKey]
		if developer == nil {
			continue
		}
		sort.Slice(commits, func(i, j int) bool {
			return commits[i].Timestamp.Before(commits[j].Timestamp)
		})
		contributions = append(contributions, &model.Contribution{
			Developer: developer,
			Commits:   commits,
		})
	}

	sort.Slice(contributions, func(i, j int) bool {
		if len(contributions[i].Commits) != len(contributions[j].Commits) {
			return len(contributions[i].Commits) > len(contributions[j].Commits)
		}
		return contributions[i].Developer.Name < contributions[j].Developer.Name
	})

	return contributions
}

// AuthorOf returns the developer node that authored the given commit,
// or nil if the hash is unknown.
func (g *KnowledgeGraph) AuthorOf(hash string) *model.Developer {
	commit := g.commits[hash]
	if commit == nil {
		return nil
	}
	return g.developers[strings.ToLower(commit.Author)]
}

// FeaturesForCommit returns the names of features the commit implements
// or mentions, in link order.
func (g *KnowledgeGraph) FeaturesForCommit(hash string) []string {
	edges := g.featureEdges[hash]
	if len(edges) == 0 {
		return nil
	}
	names := make([]string, 0, len(edges))
	for _, edge := range edges {
		names = append(names, edge.To)
	}
	return names
}

// DeveloperNames returns the display names of all known developers,
// sorted for determinism.
func (g *KnowledgeGraph) DeveloperNames() []string {
	names := make([]string, 0, len(g.developers))
	for _, developer := range g.developers {
		names = append(names, developer.Name)
	}
	sort.Strings(names)
	return names
}

// FeatureNames returns the normalized names of all known features,
// sorted for determinism.
func (g *KnowledgeGraph) FeatureNames() []string {
	names := make([]string, 0, len(g.features))
	for name := range g.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
