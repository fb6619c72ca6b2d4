package tools

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrDuplicateTool is returned from registry construction when two tools
	// collide on the same exported name.
	ErrDuplicateTool = errors.New("tool with the same name is already registered")

	// ErrUnknownTool is returned when the requested tool name does not match
	// any registered tool.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when the argument payload does not
	// satisfy the tool's parameter schema.
	ErrInvalidArguments = errors.New("invalid tool arguments: check the schema and try again")

	// ErrToolExecution marks failures raised by the tool's own logic.
	ErrToolExecution = errors.New("tool execution failed")
)
