package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/supportdesk/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes two tools that call the agents directly, without routing:
  policy_search    answer a question from the indexed policy PDFs
  customer_lookup  summarise a customer's profile and tickets

and the resource supportdesk://customers listing every customer.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead; Prometheus metrics are then
available at /metrics on the same port.

Examples:
  # Stdio mode (default)
  supportdesk mcp serve

  # HTTP mode
  supportdesk mcp serve --port 8080

Desktop assistant configuration:
  {
    "mcpServers": {
      "supportdesk": {
        "command": "/path/to/supportdesk",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Annotations: validated,
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Policy:    svc.Policy,
		Customer:  svc.Customer,
		Directory: svc.Directory,
		Metrics:   svc.Metrics,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
