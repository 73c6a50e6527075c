// Package server implements the fcmp MCP server.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/fcmp/internal/collections"
	"github.com/d-kuro/fcmp/internal/logging"
	"github.com/d-kuro/fcmp/internal/prompts"
	"github.com/d-kuro/fcmp/internal/security"
	"github.com/d-kuro/fcmp/internal/tools"
	"github.com/d-kuro/fcmp/internal/tools/compare"
	"github.com/d-kuro/fcmp/pkg/version"
)

// Server exposes the ranking engine as MCP tools.
type Server struct {
	mcpServer *mcp.Server
	registry  *tools.Registry
	logger    *logging.Logger
}

// Options configures the server instance.
type Options struct {
	Logger    *logging.Logger
	Validator security.Validator
}

// New creates a new fcmp MCP server with the given options.
func New(opts *Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("info")
	}

	if opts.Validator == nil {
		opts.Validator = security.NewDefaultValidator()
	}

	registry := tools.NewRegistry(tools.NewContext(opts.Logger, opts.Validator))

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    version.Name,
		Version: version.GetVersion().Version,
	}, &mcp.ServerOptions{
		Instructions: prompts.ServerInstructions,
	})

	server := &Server{
		mcpServer: mcpServer,
		registry:  registry,
		logger:    opts.Logger,
	}

	if err := server.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return server, nil
}

// GetRegistry returns the tool registry.
func (s *Server) GetRegistry() *tools.Registry {
	return s.registry
}

// registerTools registers all fcmp tools with the server.
func (s *Server) registerTools() error {
	s.logger.Debug("Registering tools with MCP server")

	factories := collections.Concat(
		compare.Factories(),
	)

	if err := s.registry.Register(factories...); err != nil {
		return err
	}

	if err := s.registry.Validate(); err != nil {
		return fmt.Errorf("tool registry validation failed: %w", err)
	}

	toolNames := s.registry.Install(s.mcpServer)

	s.logger.Info("Successfully registered tools",
		slog.Int("count", len(toolNames)),
		slog.Any("tools", toolNames),
	)

	return nil
}

// Serve runs the MCP server with the specified transport.
// It connects the MCP server to the transport and waits for either
// the session to complete or the context to be cancelled.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("Starting MCP server transport",
		slog.String("transport", fmt.Sprintf("%T", transport)),
		slog.String("version", version.GetVersion().Version),
	)

	session, err := s.mcpServer.Connect(ctx, transport)
	if err != nil {
		return fmt.Errorf("failed to connect MCP server: %w", err)
	}

	sessionDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("MCP session goroutine panicked",
					slog.Any("panic", r))
				sessionDone <- fmt.Errorf("session panicked: %v", r)
			}
		}()
		sessionDone <- session.Wait()
	}()

	select {
	case err := <-sessionDone:
		s.logger.Info("MCP session finished")
		return err
	case <-ctx.Done():
		s.logger.Info("MCP server shutting down due to context cancellation")
		_ = session.Close()
		return ctx.Err()
	}
}
