package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Ensure RouterService implements the interface.
var _ driving.Router = (*RouterService)(nil)

// ErrMissingAgent is returned when the router is built without an agent.
var ErrMissingAgent = errors.New("router: policy and customer agents are required")

// RouterService chooses one agent per question and returns its answer.
// A question moves START -> ROUTE_CHOSEN -> ANSWERED; the route is never
// revisited once chosen.
type RouterService struct {
	classifier driven.Classifier
	policy     driving.PolicyAgent
	customer   driving.CustomerAgent
}

// NewRouterService creates a router. A nil classifier selects the keyword classifier.
func NewRouterService(
	classifier driven.Classifier,
	policy driving.PolicyAgent,
	customer driving.CustomerAgent,
) (*RouterService, error) {
	if policy == nil || customer == nil {
		return nil, ErrMissingAgent
	}
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}

	return &RouterService{
		classifier: classifier,
		policy:     policy,
		customer:   customer,
	}, nil
}

// RouteAndAnswer classifies the question and dispatches it.
func (s *RouterService) RouteAndAnswer(ctx context.Context, question string) (domain.RoutedAnswer, error) {
	logger.Section("Routing")

	result := domain.RoutedAnswer{
		Question: question,
		Route:    s.classifier.Classify(question),
	}
	logger.Debug("Route chosen: %s", result.Route)

	var err error
	switch result.Route {
	case domain.RouteCustomer:
		result.Answer, err = s.customer.Answer(ctx, question)
	case domain.RoutePolicy:
		result.Answer, err = s.policy.Answer(ctx, question, driving.AnswerOptions{})
	default:
		return result, fmt.Errorf("%w: route %q", domain.ErrUnsupportedType, result.Route)
	}
	if err != nil {
		return result, fmt.Errorf("%s agent: %w", result.Route, err)
	}

	logger.Debug("Answered by %s agent (%d chars)", result.Route, len(result.Answer))
	return result, nil
}
