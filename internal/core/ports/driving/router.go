package driving

import (
	"context"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// Router classifies a question and dispatches it to exactly one agent.
type Router interface {
	// RouteAndAnswer returns the answer together with the chosen route.
	RouteAndAnswer(ctx context.Context, question string) (domain.RoutedAnswer, error)
}
