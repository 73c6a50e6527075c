// Package tools provides the tool registry and shared types for fcmp's MCP tools.
package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/fcmp/internal/content"
	"github.com/d-kuro/fcmp/internal/logging"
	"github.com/d-kuro/fcmp/internal/security"
	"github.com/d-kuro/fcmp/internal/storage"
)

// Context contains common dependencies needed by tools.
type Context struct {
	Logger    *logging.Logger
	Validator security.Validator
	// FileSystem is the metadata source for ranking.
	FileSystem storage.FileSystem
	// Digests is shared across calls so unchanged files are hashed once
	// per server lifetime.
	Digests *content.DigestComparer
}

// NewContext returns a Context over the host filesystem.
func NewContext(logger *logging.Logger, validator security.Validator) *Context {
	fsys := storage.NewOSFileSystem()
	return &Context{
		Logger:     logger,
		Validator:  validator,
		FileSystem: fsys,
		Digests:    content.NewDigestComparer(fsys),
	}
}

// ServerTool pairs a tool schema with the function that registers its typed
// handler on an MCP server.
type ServerTool struct {
	Tool         *mcp.Tool
	RegisterFunc func(server *mcp.Server)
}
