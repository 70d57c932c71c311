package pipeline

import (
	"regexp"
	"strings"

	"github.com/codelore/codelore/model"
)

// DefaultVocabulary returns the feature keywords scanned for in commit
// messages. Callers may pass their own list to DefaultFeatureExtractor
// to tune it per repository.
func DefaultVocabulary() []string {
	return []string{
		"authentication", "auth", "login", "signup", "web3auth",
		"leaderboard", "ranking", "score", "points", "xp system", "xp",
		"trading", "exchange", "api", "trade", "order",
		"wallet", "payment", "transaction", "starknet",
		"ui", "interface", "component", "screen", "page",
		"database", "storage", "persistence", "cache",
		"security", "encryption", "validation", "sanitization",
		"notification", "alert", "message", "toast",
		"game", "level", "achievement", "progress",
		"social", "friend", "chat", "community",
		"onboarding",
	}
}

// Ticket references in commit messages become their own features, e.g.
// "FE-GAME-01" -> "ticket-fe-game-01".
var ticketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bFE-GAME-\d+\b`),
	regexp.MustCompile(`(?i)\bFEAT-\d+\b`),
	regexp.MustCompile(`(?i)\bBUG-\d+\b`),
	regexp.MustCompile(`#\d+\b`),
}

var quotedPhrase = regexp.MustCompile(`"([^"]+)"`)

// DefaultFeatureExtractor returns an extractor that matches the given
// vocabulary against commit messages by case-insensitive substring
// containment. A match in the subject yields an IMPLEMENTS edge, a match
// only in the body yields a MENTIONS edge. Matching is deliberately
// word-boundary-agnostic: vocabulary entries are whole words or phrases,
// and over-matching inside longer words is an accepted trade-off.
// Ticket references and short quoted phrases in the subject also become
// features.
func DefaultFeatureExtractor(vocabulary []string) FeatureExtractFunc {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary()
	}

	normalized := make([]string, 0, len(vocabulary))
	for _, keyword := range vocabulary {
		if keyword = model.NormalizeFeatureName(keyword); keyword != "" {
			normalized = append(normalized, keyword)
		}
	}

	return func(subject string, body string) []FeatureMatch {
		subjectLower := strings.ToLower(subject)
		bodyLower := strings.ToLower(body)

		var matches []FeatureMatch
		seen := map[string]bool{}

		add := func(name string, inSubject bool) {
			name = model.NormalizeFeatureName(name)
			if name == "" || seen[name] {
				return
			}
			seen[name] = true
			if inSubject {
				matches = append(matches, FeatureMatch{
					Name:         name,
					Relationship: model.RelationshipImplements,
					Confidence:   model.ImplementsConfidence,
				})
			} else {
				matches = append(matches, FeatureMatch{
					Name:         name,
					Relationship: model.RelationshipMentions,
					Confidence:   model.MentionsConfidence,
				})
			}
		}

		for _, keyword := range normalized {
			if strings.Contains(subjectLower, keyword) {
				add(keyword, true)
			} else if strings.Contains(bodyLower, keyword) {
				add(keyword, false)
			}
		}

		for _, pattern := range ticketPatterns {
			for _, ticket := range pattern.FindAllString(subject, -1) {
				add(ticketFeatureName(ticket), true)
			}
			for _, ticket := range pattern.FindAllString(body, -1) {
				add(ticketFeatureName(ticket), false)
			}
		}

		for _, group := range quotedPhrase.FindAllStringSubmatch(subject, -1) {
			phrase := strings.TrimSpace(group[1])
			if phrase != "" && len(strings.Fields(phrase)) <= 3 {
				add(phrase, true)
			}
		}

		return matches
	}
}

func ticketFeatureName(ticket string) string {
	ticket = strings.TrimPrefix(ticket, "#")
	return "ticket-" + strings.ToLower(ticket)
}
