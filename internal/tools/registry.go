package tools

import (
	"fmt"
	"sort"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolFactory is a function that creates a ServerTool given a context.
type ToolFactory func(*Context) *ServerTool

// Registry manages the collection of available tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*ServerTool
	ctx   *Context
}

// NewRegistry creates a new tool registry with the given context.
func NewRegistry(ctx *Context) *Registry {
	return &Registry{
		tools: make(map[string]*ServerTool),
		ctx:   ctx,
	}
}

// Register builds tools with their factories and adds them to the registry.
func (r *Registry) Register(factories ...ToolFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, factory := range factories {
		tool := factory(r.ctx)
		if tool == nil || tool.Tool == nil {
			return fmt.Errorf("tool factory returned nil tool")
		}

		name := tool.Tool.Name
		if name == "" {
			return fmt.Errorf("tool name cannot be empty")
		}
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool %s is already registered", name)
		}

		r.tools[name] = tool
	}

	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*ServerTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List returns all registered tool names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tools)
}

// Validate checks if all registered tools are properly configured.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, tool := range r.tools {
		if tool.Tool.Description == "" {
			return fmt.Errorf("tool %s has empty description", name)
		}
		if tool.RegisterFunc == nil {
			return fmt.Errorf("tool %s has nil register function", name)
		}
	}

	return nil
}

// Install registers every tool on server in name order.
func (r *Registry) Install(server *mcp.Server) []string {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range names {
		r.tools[name].RegisterFunc(server)
	}
	return names
}
