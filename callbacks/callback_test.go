package callbacks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/smoltalk/toolbox/callbacks"
	"github.com/smoltalk/toolbox/mocks/mockllms"
	"github.com/smoltalk/toolbox/pkg/llms"
	"github.com/smoltalk/toolbox/toolbox"
	"github.com/smoltalk/toolbox/tools"
)

type temperatureRequest struct {
	City string `json:"city" validate:"required"`
}

type temperature string

func (t temperature) String() string { return string(t) }

func newToolbox(t *testing.T, ctrl *gomock.Controller, cb toolbox.Callback) *toolbox.Toolbox {
	t.Helper()

	tool, err := tools.NewFunc("get_temperature",
		"Returns the current temperature in the given city.",
		func(ctx context.Context, req *temperatureRequest) (*temperature, error) {
			res := temperature("72F")
			return &res, nil
		})
	require.NoError(t, err)
	registry, err := tools.NewRegistry(tool)
	require.NoError(t, err)

	calls := 0
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetName().Return("test-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
			calls++
			if calls == 1 {
				return &llms.ContentResponse{
					Choices: []*llms.ContentChoice{
						{
							ToolCalls: []llms.ToolCall{
								{
									ID:   "call_1",
									Type: "function",
									FunctionCall: &llms.FunctionCall{
										Name:      "get_temperature",
										Arguments: `{"city":"Boston"}`,
									},
								},
							},
						},
					},
				}, nil
			}
			return &llms.ContentResponse{
				Choices: []*llms.ContentChoice{
					{Content: "It is 72F in Boston."},
				},
			}, nil
		}).AnyTimes()

	tb, err := toolbox.New(mockLLM, registry,
		toolbox.WithSystemPrompt("You are a helpful weather assistant."),
		toolbox.WithCallback(cb))
	require.NoError(t, err)
	return tb
}

func Test_Printer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var buf bytes.Buffer
	tb := newToolbox(t, ctrl, callbacks.NewPrinter(&buf))

	_, err := tb.GetResponse(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "What is the weather in Boston?"),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Conversation Start: 1 messages")
	assert.Contains(t, out, "HUMAN: What is the weather in Boston?")
	assert.Contains(t, out, "LLM Call: test-model")
	assert.Contains(t, out, `Tool Call: get_temperature({"city":"Boston"})`)
	assert.Contains(t, out, "Tool Start: get_temperature")
	assert.Contains(t, out, "Tool End: get_temperature: 72F")
	assert.Contains(t, out, "Conversation End")
	assert.Contains(t, out, "It is 72F in Boston.")
}

func Test_PackageLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := xlog.NewPackageLogger("github.com/smoltalk/toolbox", "callbacks_test")
	tb := newToolbox(t, ctrl, callbacks.NewPackageLogger(logger))

	resp, err := tb.GetResponse(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "What is the weather in Boston?"),
	})
	require.NoError(t, err)
	assert.Equal(t, "It is 72F in Boston.", resp.Choices[0].Content)
}

func Test_Fanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var buf1, buf2 bytes.Buffer
	fanout := callbacks.NewFanout(callbacks.NewNoop(), callbacks.NewPrinter(&buf1))
	fanout.Add(callbacks.NewPrinter(&buf2))

	tb := newToolbox(t, ctrl, fanout)

	_, err := tb.GetResponse(context.Background(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "What is the weather in Boston?"),
	})
	require.NoError(t, err)

	assert.Equal(t, buf1.String(), buf2.String())
	assert.Contains(t, buf1.String(), "Conversation End")
}
