package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/d-kuro/fcmp/internal/config"
	"github.com/d-kuro/fcmp/internal/errors"
	"github.com/d-kuro/fcmp/internal/logging"
	"github.com/d-kuro/fcmp/internal/server"
	"github.com/d-kuro/fcmp/pkg/version"
)

// NewServeCmd creates the command that runs the MCP server over stdio.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run a Model Context Protocol server on stdin/stdout that exposes the
compare tool. The server stops when stdin closes or on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServer,
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logLevel, err := config.LoadLogLevel(cmd.Flags(), "info")
	if err != nil {
		return err
	}

	logger := logging.NewLoggerTo(cmd.ErrOrStderr(), logLevel)

	srv, err := server.New(&server.Options{Logger: logger})
	if err != nil {
		logger.Error("Failed to create server", slog.Any("error", err))
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("fcmp MCP server starting",
		slog.String("version", version.GetVersion().Version),
		slog.Int("tools_available", srv.GetRegistry().Count()))

	if err := srv.Serve(ctx, mcp.NewStdioTransport()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", slog.Any("error", err))
		return err
	}

	logger.Info("fcmp MCP server stopped")
	return nil
}
