package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/adapters/driving/mcp"
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

The server exposes the tools search_notes, export_notes and list_tags,
and the resource yuque-export://export/latest with the last document.

By default it communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead.

Examples:
  yuque-export mcp serve
  yuque-export mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "yuque": {
        "command": "/path/to/yuque-export",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
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

	ss, err := getSettingsService()
	if err != nil {
		return err
	}
	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	pipeline, err := getPipeline(pipelineOptions{})
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Pipeline: pipeline,
		Location: settings.Export.Location(),
		Format:   settings.Export.Format,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
