// Package compare provides the MCP tool that ranks files by modification time.
package compare

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/d-kuro/fcmp/internal/content"
	"github.com/d-kuro/fcmp/internal/errors"
	"github.com/d-kuro/fcmp/internal/prompts"
	"github.com/d-kuro/fcmp/internal/rank"
	"github.com/d-kuro/fcmp/internal/tools"
)

// ToolName is the name the tool is registered under.
const ToolName = "compare"

// CompareArgs represents the arguments for the compare tool.
type CompareArgs struct {
	Paths   []string `json:"paths" jsonschema:"Absolute paths of the files to compare, in priority order"`
	Reverse bool     `json:"reverse,omitempty" jsonschema:"Select the oldest file instead of the newest"`
	Diff    bool     `json:"diff,omitempty" jsonschema:"Compare contents of files that share a modification time"`
	Fold    bool     `json:"fold,omitempty" jsonschema:"Treat files with identical content as equal, keeping the earlier one"`
	Missing string   `json:"missing,omitempty" jsonschema:"Policy for missing files: oldest, newest, ignore or error"`
	Method  string   `json:"method,omitempty" jsonschema:"Content comparison method: digest, bytes, cmp or diff"`
	Index   bool     `json:"index,omitempty" jsonschema:"Return the position of the selected path instead of the path"`
	JSON    bool     `json:"json,omitempty" jsonschema:"Return the full ranking result as JSON"`
}

// CreateCompareTool creates the compare tool using MCP SDK patterns.
func CreateCompareTool(ctx *tools.Context) *tools.ServerTool {
	handler := NewHandler(ctx)

	tool := &mcp.Tool{
		Name:        ToolName,
		Description: prompts.Default().Compare,
	}

	return &tools.ServerTool{
		Tool: tool,
		RegisterFunc: func(server *mcp.Server) {
			mcp.AddTool(server, tool, handler)
		},
	}
}

// NewHandler returns the compare tool handler bound to ctx.
func NewHandler(ctx *tools.Context) func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[CompareArgs]) (*mcp.CallToolResultFor[any], error) {
	logger := ctx.Logger.WithTool(ToolName)

	return func(ctxReq context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[CompareArgs]) (*mcp.CallToolResultFor[any], error) {
		args := params.Arguments

		if len(args.Paths) == 0 {
			return tools.FailureResponse(errors.Validation("paths cannot be empty")), nil
		}

		paths := make([]string, len(args.Paths))
		for i, p := range args.Paths {
			sanitized, err := ctx.Validator.SanitizePath(p)
			if err != nil {
				return tools.InvalidPathError(p, err), nil
			}
			paths[i] = sanitized
		}

		cfg, method, err := buildConfig(args)
		if err != nil {
			return tools.FailureResponse(err), nil
		}

		var comparer content.Comparer = ctx.Digests
		if method != content.MethodDigest {
			comparer, err = content.New(method, ctx.FileSystem)
			if err != nil {
				return tools.FailureResponse(errors.Validation(err.Error())), nil
			}
		}

		engine := rank.New(cfg,
			rank.WithFileSystem(ctx.FileSystem),
			rank.WithComparer(comparer),
			rank.WithLogger(logger),
		)

		result, err := engine.Rank(ctxReq, paths)
		if err != nil {
			logger.Debug("Ranking failed", slog.Any("error", err), slog.Int("paths", len(paths)))
			return tools.FailureResponse(err), nil
		}

		logger.Info("Ranked files",
			slog.Int("paths", len(paths)),
			slog.Int("winner", result.Winner.Index),
			slog.Bool("ambiguous", result.Ambiguous))

		if args.JSON {
			return tools.JSONResponse(result), nil
		}

		return tools.ResponseWithMeta(result.Project(cfg.Output), map[string]any{
			"index":      result.Winner.Index,
			"path":       result.Winner.Path,
			"missing":    result.Winner.Missing,
			"ambiguous":  result.Ambiguous,
			"considered": result.Considered,
		}), nil
	}
}

func buildConfig(args CompareArgs) (rank.Config, content.Method, error) {
	cfg := rank.DefaultConfig()
	cfg.Reverse = args.Reverse
	cfg.Diff = args.Diff
	cfg.Fold = args.Fold
	if args.Index {
		cfg.Output = rank.OutputIndex
	}

	if args.Missing != "" {
		policy, err := rank.ParseMissingPolicy(args.Missing)
		if err != nil {
			return cfg, "", errors.Validation(err.Error())
		}
		cfg.Missing = policy
	}

	method := content.MethodDigest
	if args.Method != "" {
		m, err := content.ParseMethod(args.Method)
		if err != nil {
			return cfg, "", errors.Validation(err.Error())
		}
		method = m
	}

	return cfg, method, nil
}
