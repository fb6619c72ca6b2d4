// Package tools defines the tool abstraction exposed to chat models and the
// registry that dispatches model-requested tool calls.
package tools

import (
	"context"
)

//go:generate mockgen -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools github.com/smoltalk/toolbox/tools ITool

// ITool is a capability exposed to the model as an invocable tool.
type ITool interface {
	// Name returns the name of the Tool, unique within a registry.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result.
	// If the tool fails to parse the input, it should return an error marked
	// with ErrInvalidArguments.
	Call(ctx context.Context, input string) (string, error)
}

// MapCaller is implemented by tools that can be invoked with an already
// parsed argument payload.
type MapCaller interface {
	CallMap(ctx context.Context, args map[string]any) (string, error)
}

// Tool is a typed tool with a structured input and output.
type Tool[I any, O any] interface {
	ITool
	Run(ctx context.Context, req *I) (*O, error)
}

// Callback receives tool invocation events.
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, input string)
	OnToolEnd(ctx context.Context, tool ITool, input string, output string)
	OnToolError(ctx context.Context, tool ITool, input string, err error)
}
