package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docproof/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for docproof. Every tool is read-only: writes
// need a passphrase prompt and stay in the CLI and TUI.
type Server struct {
	ports  *Ports
	tools  []ToolInfo
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "docproof",
		Version: Version,
	}

	tools := Tools(ports)
	s := &Server{
		ports: ports,
		tools: tools,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: Instructions(tools),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Tools returns the tools this server registered.
func (s *Server) Tools() []ToolInfo {
	return s.tools
}

// Instructions tells a client what docproof is and which tools it offers.
func Instructions(tools []ToolInfo) string {
	var b strings.Builder
	b.WriteString("docproof proves a document existed by recording its fingerprint ")
	b.WriteString("(keccak256 of the document text) on an Ethereum contract. ")
	b.WriteString("These tools only read the ledger. Uploading or deleting a document ")
	b.WriteString("needs the wallet passphrase and is done with `docproof upload` or `docproof delete`.\n\n")
	b.WriteString("Tools:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	b.WriteString("\nResources: " + uriScheme + "session (connected account), ")
	b.WriteString(uriScheme + "documents/{fingerprint} (ledger record).\n")
	return b.String()
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		logger.Info("mcp: shutting down %s", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("mcp: serving %d tools on %s", len(s.tools), addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
