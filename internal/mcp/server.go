package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Answerer   Answerer
	Retriever  DocumentRetriever
	Ledger     LedgerReader
	Counter    VectorCounter
	Collection string
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "contract-rag-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_contracts",
		Description: "Answer a question about the ingested contract corpus. Retrieves the most relevant passages and generates an answer grounded only on them.",
	}, makeAskHandler(cfg.Answerer))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_contracts",
		Description: "Semantically search contract passages without generation. Returns raw chunks with source filename, page, and distance.",
	}, makeSearchHandler(cfg.Retriever))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ingestion_status",
		Description: "Report the ingestion ledger (every attempt with status, chunk counts, and errors) plus the live vector count.",
	}, makeStatusHandler(cfg.Ledger, cfg.Counter, cfg.Collection))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
