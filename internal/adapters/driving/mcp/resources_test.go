package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

var created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestDirectory() *mockDirectory {
	return &mockDirectory{
		customers: []domain.Customer{
			{ID: 1, Name: "ema", Email: "ema@example.com", Phone: "+1-555-0101", City: "Toronto", CreatedAt: created},
			{ID: 2, Name: "john", Email: "john.smith@example.com", City: "Vancouver"},
		},
		tickets: map[string][]domain.Ticket{
			"ema": {
				{ID: 2, CustomerID: 1, Subject: "Delivery issue", Status: "Open", CreatedAt: created},
				{ID: 1, CustomerID: 1, Subject: "Refund request", Status: "Closed"},
			},
		},
	}
}

func TestExtractCustomerName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"plain name", "supportdesk://customers/ema/tickets", "ema"},
		{"encoded name", "supportdesk://customers/Ema%20Ali/tickets", "Ema Ali"},
		{"invalid prefix", "file://customers/ema/tickets", ""},
		{"missing suffix", "supportdesk://customers/ema", ""},
		{"empty name", "supportdesk://customers//tickets", ""},
		{"nested path", "supportdesk://customers/a/b/tickets", ""},
		{"bad escape", "supportdesk://customers/%zz/tickets", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCustomerName(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleCustomersResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists customers", func(t *testing.T) {
		ports := newTestPorts()
		ports.Directory = newTestDirectory()
		server, err := NewServer(ports)
		require.NoError(t, err)

		res, err := server.handleCustomersResource(ctx, readRequest("supportdesk://customers"))
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var got []customerInfo
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
		want := []customerInfo{
			{ID: 1, Name: "ema", Email: "ema@example.com", Phone: "+1-555-0101", City: "Toronto", CreatedAt: "2026-01-02T03:04:05Z"},
			{ID: 2, Name: "john", Email: "john.smith@example.com", City: "Vancouver"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("customers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no directory returns empty list", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)

		res, err := server.handleCustomersResource(ctx, readRequest("supportdesk://customers"))
		require.NoError(t, err)
		assert.Equal(t, "[]", res.Contents[0].Text)
	})

	t.Run("directory error", func(t *testing.T) {
		ports := newTestPorts()
		ports.Directory = &mockDirectory{err: errors.New("db locked")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleCustomersResource(ctx, readRequest("supportdesk://customers"))
		assert.ErrorContains(t, err, "db locked")
	})
}

func TestServer_handleTicketsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns customer and tickets", func(t *testing.T) {
		dir := newTestDirectory()
		ports := newTestPorts()
		ports.Directory = dir
		server, err := NewServer(ports)
		require.NoError(t, err)

		res, err := server.handleTicketsResource(ctx, readRequest("supportdesk://customers/ema/tickets"))
		require.NoError(t, err)

		var got struct {
			Customer customerInfo `json:"customer"`
			Tickets  []ticketInfo `json:"tickets"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
		assert.Equal(t, "ema", dir.lastName)
		assert.Equal(t, "ema", got.Customer.Name)
		require.Len(t, got.Tickets, 2)
		assert.Equal(t, "Delivery issue", got.Tickets[0].Subject)
		assert.Equal(t, "2026-01-02T03:04:05Z", got.Tickets[0].CreatedAt)
		assert.Empty(t, got.Tickets[1].CreatedAt)
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		ports := newTestPorts()
		ports.Directory = newTestDirectory()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleTicketsResource(ctx, readRequest("supportdesk://customers/bob/tickets"))
		assert.Error(t, err)
	})

	t.Run("no directory is not found", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)

		_, err = server.handleTicketsResource(ctx, readRequest("supportdesk://customers/ema/tickets"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		ports := newTestPorts()
		ports.Directory = newTestDirectory()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleTicketsResource(ctx, readRequest("supportdesk://customers/ema"))
		assert.Error(t, err)
	})
}

func TestServer_ReadResource_OverSession(t *testing.T) {
	ports := newTestPorts()
	ports.Directory = newTestDirectory()
	s, err := NewServer(ports)
	require.NoError(t, err)
	cs := connect(t, s)

	res, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "supportdesk://customers"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "ema@example.com")
}
