package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documind-labs/documind-cli/internal/adapters/driven/ai"
	"github.com/documind-labs/documind-cli/internal/adapters/driving/mcp"
)

var (
	mcpOwner string
	mcpPort  int
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one owner's corpus to MCP clients",
	Long: `Serves the search_documents and ask tools for one owner's corpus so
AI assistants can query ingested documents.

Talks JSON-RPC over stdio by default, which is what Claude Desktop and
similar clients expect. With --port the server listens over HTTP
instead, useful for the MCP Inspector or remote clients.

Register with Claude Desktop (claude_desktop_config.json):
  {
    "mcpServers": {
      "documind": {
        "command": "/path/to/documind",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = stdio)")
	mcpServeCmd.Flags().StringVarP(&mcpOwner, "owner", "o", "", "owner namespace to serve (default: configured default owner)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	// A long-running server fails fast on an unreachable LLM instead of
	// surfacing the error on the first ask call.
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
		if err != nil {
			return err
		}
		if llm != nil {
			llm.Close()
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Retrieval:  retrievalService,
		Generation: generationService,
		Document:   documentService,
		Owner:      resolveOwner(mcpOwner),
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
