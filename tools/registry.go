package tools

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/smoltalk/toolbox/pkg/llms"
)

var logger = xlog.NewPackageLogger("github.com/smoltalk/toolbox", "tools")

// Registry holds the tool descriptors of a toolbox. It is built once and
// immutable thereafter, safe for concurrent read-only use.
type Registry struct {
	tools *orderedmap.OrderedMap[string, ITool]
	names []string
	defs  []llms.Tool
}

// NewRegistry builds a registry from the given tools, in order. It fails
// with ErrDuplicateTool when two tools collide on the same name; the
// comparison is case-insensitive since models do not reliably preserve case.
func NewRegistry(list ...ITool) (*Registry, error) {
	r := &Registry{
		tools: orderedmap.New[string, ITool](),
	}
	for _, tool := range list {
		name := tool.Name()
		key := strings.ToLower(name)
		if _, ok := r.tools.Get(key); ok {
			return nil, errors.WithMessagef(ErrDuplicateTool, "%s", name)
		}
		r.tools.Set(key, tool)
		r.names = append(r.names, name)
		r.defs = append(r.defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        name,
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return r, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return r.tools.Len()
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	return r.names
}

// Get returns the tool with the given name, or nil. Lookup is
// case-insensitive.
func (r *Registry) Get(name string) ITool {
	tool, _ := r.tools.Get(strings.ToLower(name))
	return tool
}

// Definitions returns the tool schema in the shape sent to the model.
// Building the definitions never invokes a tool.
func (r *Registry) Definitions() []llms.Tool {
	return r.defs
}

// Invoke looks up the tool by name, validates the argument payload against
// its parameter list and executes it. It fails with ErrUnknownTool when the
// name is absent, ErrInvalidArguments when the payload does not satisfy the
// schema, and an error marked ErrToolExecution when the tool itself fails.
func (r *Registry) Invoke(ctx context.Context, name, arguments string) (string, error) {
	tool := r.Get(name)
	if tool == nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool", name,
			"available_tools", strings.Join(r.names, ", "),
		)
		return "", errors.WithMessagef(ErrUnknownTool, "%s", name)
	}

	res, err := tool.Call(ctx, arguments)
	if err != nil {
		if errors.Is(err, ErrInvalidArguments) {
			return "", err
		}
		return "", errors.Mark(errors.WithMessagef(err, "failed to call tool %s", name), ErrToolExecution)
	}
	return res, nil
}
