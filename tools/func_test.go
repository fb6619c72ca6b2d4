package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoltalk/toolbox/tools"
)

type addRequest struct {
	A int `json:"a" jsonschema:"title=A,description=First operand"`
	B int `json:"b" jsonschema:"title=B,description=Second operand"`
}

type addResult struct {
	Sum int `json:"sum"`
}

func newAddTool(t *testing.T) *tools.Func[addRequest, addResult] {
	t.Helper()
	tool, err := tools.NewFunc("add", "Adds two numbers.",
		func(ctx context.Context, req *addRequest) (*addResult, error) {
			return &addResult{Sum: req.A + req.B}, nil
		})
	require.NoError(t, err)
	return tool
}

func Test_Func_Schema(t *testing.T) {
	tool := newAddTool(t)

	assert.Equal(t, "add", tool.Name())
	assert.Equal(t, "Adds two numbers.", tool.Description())

	js, err := json.Marshal(tool.Parameters())
	require.NoError(t, err)
	params := string(js)
	assert.Contains(t, params, `"a"`)
	assert.Contains(t, params, `"b"`)
	assert.Contains(t, params, `"required":["a","b"]`)
	assert.Contains(t, params, `"type":"object"`)
}

func Test_Func_Call(t *testing.T) {
	tool := newAddTool(t)
	ctx := context.Background()

	res, err := tool.Call(ctx, `{"a": 2, "b": 3}`)
	require.NoError(t, err)
	assert.Equal(t, `{"sum":5}`, res)

	// models wrap arguments in backticks or prose; the decoder is lenient
	res, err = tool.Call(ctx, "```json\n{\"a\": 1, \"b\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"sum":2}`, res)

	_, err = tool.Call(ctx, `not json at all`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
}

func Test_Func_CallMap(t *testing.T) {
	tool := newAddTool(t)
	ctx := context.Background()

	res, err := tool.CallMap(ctx, map[string]any{"a": 4, "b": 5})
	require.NoError(t, err)
	assert.Equal(t, `{"sum":9}`, res)

	// weakly typed payloads are coerced
	res, err = tool.CallMap(ctx, map[string]any{"a": "6", "b": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, `{"sum":7}`, res)
}

func Test_Func_Validation(t *testing.T) {
	type promptRequest struct {
		Prompt string `json:"prompt" validate:"required,min=3"`
	}
	tool, err := tools.NewFunc("prompt", "Validates the prompt.",
		func(ctx context.Context, req *promptRequest) (*string, error) {
			return &req.Prompt, nil
		})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = tool.Call(ctx, `{"prompt":""}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))

	_, err = tool.Call(ctx, `{"prompt":"ab"}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))

	res, err := tool.Call(ctx, `{"prompt":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, res)
}

func Test_Func_RequiresName(t *testing.T) {
	_, err := tools.NewFunc("", "No name.",
		func(ctx context.Context, req *addRequest) (*addResult, error) {
			return nil, nil
		})
	require.Error(t, err)
}
