package services

import (
	"strings"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
)

// Ensure KeywordClassifier implements the interface.
var _ driven.Classifier = (*KeywordClassifier)(nil)

// CustomerKeywords route a question to the customer agent.
// They are checked before PolicyKeywords.
var CustomerKeywords = []string{"customer", "profile", "ticket", "history", "past support", "email", "phone"}

// PolicyKeywords route a question to the policy agent.
var PolicyKeywords = []string{"policy", "refund", "warranty", "cancellation", "support", "return", "eligible"}

// KeywordClassifier routes by substring match on the lowercased question.
// Customer keywords win over policy keywords; with no match the question
// goes to the policy agent.
type KeywordClassifier struct {
	customer []string
	policy   []string
	fallback domain.Route
}

// NewKeywordClassifier creates a classifier with the default keyword lists.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		customer: CustomerKeywords,
		policy:   PolicyKeywords,
		fallback: domain.RoutePolicy,
	}
}

// Classify returns the route for the given text.
func (c *KeywordClassifier) Classify(text string) domain.Route {
	q := strings.ToLower(text)

	if containsAny(q, c.customer) {
		return domain.RouteCustomer
	}
	if containsAny(q, c.policy) {
		return domain.RoutePolicy
	}
	return c.fallback
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
