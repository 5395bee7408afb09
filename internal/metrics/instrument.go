package metrics

import (
	"context"
	"time"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// Ensure wrappers implement the interfaces.
var (
	_ driving.Router        = (*router)(nil)
	_ driving.PolicyAgent   = (*policyAgent)(nil)
	_ driving.CustomerAgent = (*customerAgent)(nil)
)

type router struct {
	next driving.Router
	m    *Metrics
}

// InstrumentRouter counts routes and times RouteAndAnswer.
func InstrumentRouter(next driving.Router, m *Metrics) driving.Router {
	return &router{next: next, m: m}
}

func (r *router) RouteAndAnswer(ctx context.Context, question string) (domain.RoutedAnswer, error) {
	start := time.Now()
	answer, err := r.next.RouteAndAnswer(ctx, question)
	r.m.RecordAgentCall(AgentRouter, time.Since(start), err)
	if answer.Route.IsValid() {
		r.m.RoutesTotal.WithLabelValues(answer.Route.String()).Inc()
	}
	return answer, err
}

type policyAgent struct {
	next driving.PolicyAgent
	m    *Metrics
}

// InstrumentPolicyAgent times Answer and counts indexed chunks.
func InstrumentPolicyAgent(next driving.PolicyAgent, m *Metrics) driving.PolicyAgent {
	return &policyAgent{next: next, m: m}
}

func (p *policyAgent) Index(ctx context.Context, paths []string, opts driving.IndexOptions) (int, error) {
	n, err := p.next.Index(ctx, paths, opts)
	if err == nil {
		p.m.ChunksIndexed.Add(float64(n))
	}
	return n, err
}

func (p *policyAgent) Answer(ctx context.Context, question string, opts driving.AnswerOptions) (string, error) {
	start := time.Now()
	answer, err := p.next.Answer(ctx, question, opts)
	p.m.RecordAgentCall(AgentPolicy, time.Since(start), err)
	return answer, err
}

type customerAgent struct {
	next driving.CustomerAgent
	m    *Metrics
}

// InstrumentCustomerAgent times Answer.
func InstrumentCustomerAgent(next driving.CustomerAgent, m *Metrics) driving.CustomerAgent {
	return &customerAgent{next: next, m: m}
}

func (c *customerAgent) Answer(ctx context.Context, question string) (string, error) {
	start := time.Now()
	answer, err := c.next.Answer(ctx, question)
	c.m.RecordAgentCall(AgentCustomer, time.Since(start), err)
	return answer, err
}
