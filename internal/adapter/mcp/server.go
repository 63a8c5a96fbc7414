// Package mcp exposes the prompt pipeline over the Model Context Protocol,
// so agent hosts can compose prompts and inspect quota without the REST API.
package mcp

import (
	"context"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/voxpilot/voxpilot/internal/domain/prompt"
	"github.com/voxpilot/voxpilot/internal/domain/usage"
	"github.com/voxpilot/voxpilot/internal/service"
)

// PromptComposer is the slice of the pipeline the MCP tools need.
type PromptComposer interface {
	ProcessText(ctx context.Context, text string, ide prompt.IDEContext) service.Result
}

// UsageReader reports quota state for the usage tool.
type UsageReader interface {
	Stats() usage.Stats
	TimeUntilReset() usage.ResetCountdown
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Addr    string
	Name    string
	Version string
}

// ServerDeps carries the collaborators the tools call into. A nil field
// disables the corresponding tool at call time with an error result.
type ServerDeps struct {
	Composer PromptComposer
	Usage    UsageReader
}

// Server wraps an MCP server with streamable HTTP transport.
type Server struct {
	cfg        ServerConfig
	deps       ServerDeps
	mcpServer  *mcpserver.MCPServer
	httpServer *mcpserver.StreamableHTTPServer
}

// NewServer creates the MCP server and registers all tools.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	s := &Server{
		cfg:  cfg,
		deps: deps,
		mcpServer: mcpserver.NewMCPServer(
			cfg.Name,
			cfg.Version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCPServer exposes the underlying server, mainly for tests.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Start serves MCP over streamable HTTP on the configured address. It
// returns immediately; serve errors are logged.
func (s *Server) Start() error {
	s.httpServer = mcpserver.NewStreamableHTTPServer(s.mcpServer)
	go func() {
		slog.Info("mcp server listening", "addr", s.cfg.Addr)
		if err := s.httpServer.Start(s.cfg.Addr); err != nil {
			slog.Error("mcp server stopped", "error", err)
		}
	}()
	return nil
}

// Stop shuts the transport down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
