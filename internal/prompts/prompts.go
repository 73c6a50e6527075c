package prompts

// ToolPrompts contains the descriptions for every MCP tool.
type ToolPrompts struct {
	Compare string
}

// Default returns the default prompts configuration.
func Default() *ToolPrompts {
	return &ToolPrompts{
		Compare: CompareToolDescription,
	}
}
