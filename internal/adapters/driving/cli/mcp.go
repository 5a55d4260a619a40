package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arden-labs/gsc-cli/internal/adapters/driving/mcp"
)

var mcpHTTP string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants. Use
--http to serve over HTTP instead, which enables testing with the MCP
Inspector web UI and remote access.

Examples:
  # Stdio mode (default, for Claude Desktop)
  gsc mcp

  # HTTP mode (for MCP Inspector, remote access)
  gsc mcp --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "gsc": {
        "command": "/path/to/gsc",
        "args": ["mcp", "--credentials", "/path/to/credentials.json"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTP, "http", "", "HTTP listen address (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	account, err := newAccountFunc(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Properties: account,
		Query:      account,
	})
	if err != nil {
		return err
	}

	if mcpHTTP != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s\n", mcpHTTP)
		return server.RunHTTP(cmd.Context(), mcpHTTP)
	}

	return server.Run(cmd.Context())
}
