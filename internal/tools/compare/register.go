package compare

import (
	"github.com/d-kuro/fcmp/internal/tools"
)

// Factories returns the factories of every ranking tool.
func Factories() []tools.ToolFactory {
	return []tools.ToolFactory{
		CreateCompareTool,
	}
}
