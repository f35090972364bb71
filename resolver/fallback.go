package resolver

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"deskmate/model"
)

// The fallback resolver is an explicit table of trigger phrases mapped to
// action templates. It is deliberately conservative: each intent category
// emits at most one action, and no action is emitted when a required
// parameter cannot be pulled out of the utterance - under-triggering is
// always better than dispatching with bogus parameters.

// fallbackRule describes one intent category. match gates on the lowered
// utterance; build produces the action (or reports that the required
// parameters could not be extracted).
type fallbackRule struct {
	category string
	match    func(lower string) bool
	build    func(utterance, lower string) (model.Action, bool)
}

var fallbackRules = []fallbackRule{
	{
		category: "browse",
		match: func(lower string) bool {
			return containsAny(lower, "open", "launch", "run", "start") &&
				containsAny(lower, "google", "browser", "chrome")
		},
		build: func(_, _ string) (model.Action, bool) {
			return model.Action{
				Type:       "browse_url",
				Parameters: map[string]any{"url": "https://www.google.com"},
			}, true
		},
	},
	{
		category: "search",
		match: func(lower string) bool {
			return strings.Contains(lower, "search") && strings.Contains(lower, "google")
		},
		build: func(utterance, _ string) (model.Action, bool) {
			query := extractSearchQuery(utterance)
			if query == "" {
				return model.Action{}, false
			}
			return model.Action{
				Type:       "search_google",
				Parameters: map[string]any{"query": query},
			}, true
		},
	},
	{
		category: "email",
		match: func(lower string) bool {
			return containsAny(lower, "send email", "email", "mail to")
		},
		build: func(utterance, _ string) (model.Action, bool) {
			to := extractEmailAddress(utterance)
			if to == "" {
				// No recipient means no action; the reply still goes out.
				return model.Action{}, false
			}
			return model.Action{
				Type:       "send_email",
				Parameters: map[string]any{"to": to},
			}, true
		},
	},
	{
		category: "cleanup",
		match: func(lower string) bool {
			return strings.Contains(lower, "clean") && strings.Contains(lower, "download")
		},
		build: func(_, _ string) (model.Action, bool) {
			return model.Action{
				Type:       "organize_files",
				Parameters: map[string]any{"directory": "downloads", "action": "clean"},
			}, true
		},
	},
	{
		category: "reminder",
		match: func(lower string) bool {
			return strings.Contains(lower, "remind")
		},
		build: func(utterance, _ string) (model.Action, bool) {
			// The full utterance is kept as the reminder text and the time
			// is left unset; no date parsing happens on this path.
			return model.Action{
				Type:       "set_reminder",
				Parameters: map[string]any{"text": utterance},
			}, true
		},
	},
}

// extractFallbackActions scans the utterance against the trigger tables.
// Actions whose type is not registered are dropped; this path never fails.
func (r *Resolver) extractFallbackActions(utterance string) []model.Action {
	lower := strings.ToLower(utterance)

	var actions []model.Action
	for _, rule := range fallbackRules {
		if !rule.match(lower) {
			continue
		}
		action, ok := rule.build(utterance, lower)
		if !ok {
			continue
		}
		if _, err := r.registry.Resolve(action.Type); err != nil {
			r.log.Debug("fallback action not registered",
				zap.String("category", rule.category),
				zap.String("action", action.Type))
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

// searchStopwords are dropped from extracted search queries.
var searchStopwords = map[string]bool{
	"on": true, "in": true, "google": true, "the": true, "for": true,
}

// extractSearchQuery pulls the query text that follows a search keyword.
// Returns "" when nothing usable remains after stopword removal.
func extractSearchQuery(utterance string) string {
	lower := strings.ToLower(utterance)

	for _, keyword := range []string{"search", "find", "look up"} {
		idx := strings.Index(lower, keyword)
		if idx < 0 {
			continue
		}

		rest := strings.Fields(utterance[idx+len(keyword):])
		var parts []string
		for _, word := range rest {
			if searchStopwords[strings.ToLower(word)] {
				continue
			}
			parts = append(parts, word)
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}

	return ""
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// extractEmailAddress returns the first email address in the utterance.
func extractEmailAddress(utterance string) string {
	return emailPattern.FindString(utterance)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
