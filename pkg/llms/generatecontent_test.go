package llms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoltalk/toolbox/pkg/llms"
)

func Test_MessageFromTextParts(t *testing.T) {
	msg := llms.MessageFromTextParts(llms.RoleHuman, "Hello", "World")
	assert.Equal(t, llms.RoleHuman, msg.Role)
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, llms.TextContent{Text: "Hello"}, msg.Parts[0])
	assert.Equal(t, "Hello\nWorld\n", msg.GetContent())
}

func Test_MessageFromToolCalls(t *testing.T) {
	msg := llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
		ID:   "call_1",
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      "get_temperature",
			Arguments: `{"city":"Boston"}`,
		},
	})
	assert.Equal(t, llms.RoleAI, msg.Role)
	require.Len(t, msg.Parts, 1)
	tc, ok := msg.Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "call_1", tc.ID)
	assert.Equal(t, "get_temperature", tc.FunctionCall.Name)
	assert.Contains(t, msg.GetContent(), "Tool Call: ")
}

func Test_ToolCall_NoFunction(t *testing.T) {
	// a malformed tool call without a function payload must not panic
	tc := llms.ToolCall{ID: "call_1", Type: "function"}
	assert.Equal(t, "ToolCall: call_1 (function)", tc.String())

	msg := llms.MessageFromToolCalls(llms.RoleAI, tc)
	require.Len(t, msg.Parts, 1)
	part, ok := msg.Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Nil(t, part.FunctionCall)
}

func Test_MessageFromToolResponse(t *testing.T) {
	msg := llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
		ToolCallID: "call_1",
		Name:       "get_temperature",
		Content:    "72F",
	})
	assert.Equal(t, llms.RoleTool, msg.Role)
	require.Len(t, msg.Parts, 1)
	resp, ok := msg.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "72F", resp.Content)
}

func Test_CallOptions(t *testing.T) {
	opts := llms.CallOptions{}
	for _, opt := range []llms.CallOption{
		llms.WithModel("gpt-4o-mini"),
		llms.WithMaxTokens(256),
		llms.WithTemperature(0.2),
		llms.WithStopWords([]string{"stop"}),
		llms.WithSeed(42),
		llms.WithN(2),
		llms.WithToolChoice("auto"),
		llms.WithTools([]llms.Tool{
			{Type: "function", Function: &llms.FunctionDefinition{Name: "get_temperature"}},
		}),
	} {
		opt(&opts)
	}

	assert.Equal(t, "gpt-4o-mini", opts.Model)
	assert.Equal(t, 256, opts.MaxTokens)
	assert.Equal(t, 0.2, opts.Temperature)
	assert.Equal(t, []string{"stop"}, opts.StopWords)
	assert.Equal(t, 42, opts.Seed)
	assert.Equal(t, 2, opts.N)
	assert.Equal(t, "auto", opts.ToolChoice)
	require.Len(t, opts.Tools, 1)
	assert.Equal(t, "get_temperature", opts.Tools[0].Function.Name)
}
