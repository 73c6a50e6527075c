package tools

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/fcmp/internal/errors"
)

// Failure kinds reported in the "kind" metadata of error results.
const (
	KindMissingFile      = "missing_file"
	KindEmptyResult      = "empty_result"
	KindFilesystemAccess = "filesystem_access"
	KindValidation       = "validation"
	KindSecurity         = "security"
	KindInternal         = "internal"
)

// ErrorResponse creates a standardized error response for MCP tools.
func ErrorResponse(message string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + message}},
		IsError: true,
	}
}

// ErrorResponsef creates a standardized error response with formatted message.
func ErrorResponsef(format string, args ...any) *mcp.CallToolResultFor[any] {
	return ErrorResponse(fmt.Sprintf(format, args...))
}

// FailureResponse reports err as a tool error and tags it with its kind.
func FailureResponse(err error) *mcp.CallToolResultFor[any] {
	result := ErrorResponse(err.Error())
	result.Meta = map[string]any{"kind": Kind(err)}
	return result
}

// InvalidPathError creates an error response for invalid file paths.
func InvalidPathError(path string, err error) *mcp.CallToolResultFor[any] {
	result := ErrorResponsef("Invalid path %q: %v", path, err)
	result.Meta = map[string]any{"kind": Kind(err), "path": path}
	return result
}

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	switch {
	case errors.Is(err, errors.ErrMissingFile):
		return KindMissingFile
	case errors.Is(err, errors.ErrEmptyResult):
		return KindEmptyResult
	case errors.Is(err, errors.ErrFilesystemAccess):
		return KindFilesystemAccess
	case errors.Is(err, errors.ErrValidation):
		return KindValidation
	case errors.Is(err, errors.ErrSecurity):
		return KindSecurity
	default:
		return KindInternal
	}
}

// JSONResponse creates a response with JSON content.
func JSONResponse(data any) *mcp.CallToolResultFor[any] {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return ErrorResponsef("failed to marshal JSON: %v", err)
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// ResponseWithMeta creates a text response carrying metadata.
func ResponseWithMeta(text string, meta map[string]any) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		Meta:    meta,
	}
}
