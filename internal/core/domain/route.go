package domain

import "strings"

// Route identifies the agent selected to answer a question.
type Route string

// Available routes.
const (
	// RoutePolicy sends the question to the PDF retrieval agent.
	RoutePolicy Route = "policy"

	// RouteCustomer sends the question to the customer lookup agent.
	RouteCustomer Route = "customer"
)

// IsValid returns true if the route is recognised.
func (r Route) IsValid() bool {
	switch r {
	case RoutePolicy, RouteCustomer:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Route) String() string {
	return string(r)
}

// Label returns the upper-case label shown next to answers.
func (r Route) Label() string {
	return strings.ToUpper(string(r))
}

// RoutedAnswer is the result of routing and answering a single question.
type RoutedAnswer struct {
	// Question is the original, unmodified question.
	Question string `json:"question"`

	// Route is the agent that produced the answer.
	Route Route `json:"route"`

	// Answer is the text returned by the agent.
	Answer string `json:"answer"`
}
