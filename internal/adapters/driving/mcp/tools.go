package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// PolicySearchInput is the input schema for the policy_search tool.
type PolicySearchInput struct {
	Question  string `json:"question" jsonschema:"the policy question to answer"`
	K         int    `json:"k,omitempty" jsonschema:"number of snippets to retrieve (default 3)"`
	Namespace string `json:"namespace,omitempty" jsonschema:"vector store namespace (default __default__)"`
}

// CustomerLookupInput is the input schema for the customer_lookup tool.
type CustomerLookupInput struct {
	Question string `json:"question" jsonschema:"a question naming a known customer"`
}

// AnswerOutput is the output schema shared by both tools.
type AnswerOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "policy_search",
		Description: "Answer a question from the indexed policy PDFs",
	}, s.handlePolicySearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "customer_lookup",
		Description: "Look up a customer's profile and support tickets",
	}, s.handleCustomerLookup)
}

// handlePolicySearch handles the policy_search tool invocation.
func (s *Server) handlePolicySearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PolicySearchInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return errorResult("question is required"), AnswerOutput{}, nil
	}

	answer, err := s.ports.Policy.Answer(ctx, input.Question, driving.AnswerOptions{
		K:         input.K,
		Namespace: input.Namespace,
	})
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	return textResult(answer), AnswerOutput{Answer: answer}, nil
}

// handleCustomerLookup handles the customer_lookup tool invocation.
func (s *Server) handleCustomerLookup(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CustomerLookupInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return errorResult("question is required"), AnswerOutput{}, nil
	}

	answer, err := s.ports.Customer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	return textResult(answer), AnswerOutput{Answer: answer}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
