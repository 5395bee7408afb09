package driven

import "github.com/custodia-labs/supportdesk/internal/core/domain"

// Classifier decides which agent should answer a question.
// Implementations must be pure: the same text always yields the same route.
type Classifier interface {
	Classify(text string) domain.Route
}
