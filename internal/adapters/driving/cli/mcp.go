package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docproof/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose document verification to AI assistants",
	Long: `Serve docproof's read-only ledger tools over the Model Context Protocol.

Assistants can fingerprint text, verify a document against the ledger,
list the connected account's uploads and read the exporter directory.
Uploads and deletions need the wallet passphrase and are not offered.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server on stdio, or on HTTP with --port.

Examples:
  docproof mcp serve
  docproof mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "docproof": {
        "command": "/path/to/docproof",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

var mcpToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the MCP server offers",
	RunE:  runMCPTools,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	mcpCmd.AddCommand(mcpToolsCmd)
	rootCmd.AddCommand(mcpCmd)
}

// mcpPorts wires the read-only services into the MCP adapter.
func mcpPorts() *mcp.Ports {
	return &mcp.Ports{
		Verification: verificationService,
		History:      historyService,
		Exporter:     exporterService,
		Session:      sessionService,
	}
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}
	for _, t := range server.Tools() {
		logger.Debug("mcp: tool %s", t.Name)
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

func runMCPTools(cmd *cobra.Command, _ []string) error {
	ports := mcpPorts()
	if err := ports.Validate(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, t := range mcp.Tools(ports) {
		fmt.Fprintf(out, "%-18s %s\n", t.Name, t.Description)
	}
	return nil
}
