// Package toolbox implements the conversation driver: it sends chat
// messages plus the registered tool schema to an OpenAI-compatible
// chat-completions endpoint and, while the model keeps requesting tool
// invocations, executes them and feeds the results back until the model
// returns a plain answer.
package toolbox

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"

	"github.com/smoltalk/toolbox/pkg/llms"
	"github.com/smoltalk/toolbox/pkg/llmutils"
	"github.com/smoltalk/toolbox/tools"
)

var logger = xlog.NewPackageLogger("github.com/smoltalk/toolbox", "toolbox")

// Toolbox drives a bounded tool-calling conversation against a single chat
// model. The configuration and the tool registry are immutable after
// construction, so a Toolbox is safe for concurrent GetResponse calls.
type Toolbox struct {
	llm      llms.Model
	registry *tools.Registry
	cfg      *Config
}

// New creates a Toolbox over the given model and tool registry.
func New(llm llms.Model, registry *tools.Registry, opts ...Option) (*Toolbox, error) {
	if llm == nil {
		return nil, errors.New("toolbox: LLM model is required")
	}
	if registry == nil {
		var err error
		registry, err = tools.NewRegistry()
		if err != nil {
			return nil, err
		}
	}
	cfg := NewConfig(opts...)
	if cfg.SystemPrompt == "" {
		logger.KV(xlog.WARNING,
			"status", "no_system_prompt",
			"msg", "no system prompt provided, was this deliberate?",
		)
	}
	return &Toolbox{
		llm:      llm,
		registry: registry,
		cfg:      cfg,
	}, nil
}

// Registry returns the tool registry of the Toolbox.
func (t *Toolbox) Registry() *tools.Registry {
	return t.registry
}

// Config returns the immutable configuration of the Toolbox.
func (t *Toolbox) Config() *Config {
	return t.cfg
}

// GetResponse runs one conversation: the configured system prompt is
// prepended to the caller-supplied messages, the whole sequence plus the
// tool schema is sent to the model, and requested tool calls are executed
// and appended until the model answers without tool calls. The caller must
// not supply system messages. On failure no usable conversation state is
// returned.
func (t *Toolbox) GetResponse(ctx context.Context, messages []llms.Message) (*llms.ContentResponse, error) {
	callback := t.cfg.Callback
	if callback != nil {
		callback.OnConversationStart(ctx, t, messages)
	}

	resp, history, err := t.run(ctx, messages)
	if err != nil {
		if callback != nil {
			callback.OnConversationError(ctx, t, err, history)
		}
		return nil, err
	}
	if callback != nil {
		callback.OnConversationEnd(ctx, t, resp, history)
	}
	return resp, nil
}

func (t *Toolbox) run(ctx context.Context, messages []llms.Message) (*llms.ContentResponse, []llms.Message, error) {
	for _, m := range messages {
		if m.Role == llms.RoleSystem {
			return nil, nil, errors.New("toolbox: the system prompt is injected from configuration, the caller must not supply system messages")
		}
	}

	var history []llms.Message
	if t.cfg.SystemPrompt != "" {
		history = append(history, llms.MessageFromTextParts(llms.RoleSystem, t.cfg.SystemPrompt))
	}
	if t.cfg.Store != nil {
		prev := t.cfg.Store.Messages(ctx)
		if len(prev) > 0 {
			logger.ContextKV(ctx, xlog.DEBUG,
				"status", "loaded_message_history",
				"messages", len(prev),
			)
			history = append(history, prev...)
		}
	}
	history = append(history, messages...)

	// runMessages collects what this call adds to the conversation,
	// for the optional store.
	runMessages := append([]llms.Message{}, messages...)

	callOpts := t.cfg.GetCallOptions()
	if defs := t.registry.Definitions(); len(defs) > 0 {
		callOpts = append(callOpts, llms.WithTools(defs), llms.WithToolChoice("auto"))
	}

	modelName := values.StringsCoalesce(t.cfg.Model, t.llm.GetName())
	callback := t.cfg.Callback

	var resp *llms.ContentResponse
	var err error
	totalToolCalls := 0
	for {
		if len(history) >= t.cfg.MaxMessages {
			return nil, history, errors.Newf("toolbox: the messages count exceeded limit of %d", t.cfg.MaxMessages)
		}
		bytesSent := llmutils.CountMessagesContentSize(history)
		if bytesSent > t.cfg.MaxContentSize {
			return nil, history, errors.Newf("toolbox: the content size exceeded limit of %d bytes", t.cfg.MaxContentSize)
		}

		if callback != nil {
			callback.OnLLMCallStart(ctx, t, t.llm, history)
		}

		resp, err = t.llm.GenerateContent(ctx, history, callOpts...)
		if err != nil {
			return nil, history, errors.Wrap(err, "failed to generate content from LLM")
		}
		if callback != nil {
			callback.OnLLMCallEnd(ctx, t, t.llm, resp)
		}
		if len(resp.Choices) == 0 {
			return nil, history, errors.Newf("model %s returned a response with no choices", modelName)
		}

		executed, newMessages, err := t.executeToolCalls(ctx, resp)
		if err != nil {
			return nil, history, err
		}
		if executed == 0 {
			break
		}
		history = append(history, newMessages...)
		runMessages = append(runMessages, newMessages...)

		totalToolCalls += executed
		if totalToolCalls >= t.cfg.MaxToolCalls {
			return nil, history, errors.Newf("toolbox: the tool calls limit of %d is exceeded", t.cfg.MaxToolCalls)
		}
	}

	result := resp.Choices[0].Content
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "answered",
		"model", modelName,
		"tool_calls", totalToolCalls,
		"answer", slices.StringUpto(result, 64),
	)

	finalMessage := llms.MessageFromTextParts(llms.RoleAI, result)
	history = append(history, finalMessage)

	if t.cfg.Store != nil {
		runMessages = append(runMessages, finalMessage)
		if err := t.cfg.Store.Add(ctx, runMessages...); err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"status", "failed_to_store_messages",
				"err", err.Error(),
			)
		}
	}

	return resp, history, nil
}

// toolCallResult holds the outcome of a single tool call; index is the
// position in the original tool call order.
type toolCallResult struct {
	toolCall llms.ToolCall
	response string
	err      error
	index    int
}

// executeToolCalls executes all tool calls requested by the response.
// Sibling calls within one model turn run concurrently; their results are
// appended in request order once all complete. It returns the number of
// executed calls and the messages to append: the assistant tool-call
// message followed by one tool message per call.
func (t *Toolbox) executeToolCalls(ctx context.Context, resp *llms.ContentResponse) (int, []llms.Message, error) {
	callback := t.cfg.Callback

	var newMessages []llms.Message
	var toolCalls []llms.ToolCall
	for _, choice := range resp.Choices {
		var choiceToolCalls []llms.ToolCall
		for _, toolCall := range choice.ToolCalls {
			if toolCall.FunctionCall == nil {
				return 0, nil, errors.Newf("toolbox: model returned tool call %s without a function", toolCall.ID)
			}
			if toolCall.ID == "" {
				toolCall.ID = uuid.NewString()
			}
			toolCall.Type = values.StringsCoalesce(toolCall.Type, "function")
			choiceToolCalls = append(choiceToolCalls, toolCall)

			logger.ContextKV(ctx, xlog.DEBUG,
				"status", "tool_call_found",
				"tool_call_id", toolCall.ID,
				"tool", toolCall.FunctionCall.Name,
			)
		}
		if len(choiceToolCalls) == 0 {
			continue
		}
		toolCalls = append(toolCalls, choiceToolCalls...)
		newMessages = append(newMessages, llms.MessageFromToolCalls(llms.RoleAI, choiceToolCalls...))
	}

	if len(toolCalls) == 0 {
		return 0, nil, nil
	}

	results := make([]toolCallResult, len(toolCalls))

	var wg sync.WaitGroup
	wg.Add(len(toolCalls))
	for i, toolCall := range toolCalls {
		go func(index int, tc llms.ToolCall) {
			defer wg.Done()
			results[index] = t.executeToolCall(ctx, tc, index)
		}(i, toolCall)
	}
	wg.Wait()

	for _, result := range results {
		if result.err != nil {
			if errors.Is(result.err, tools.ErrUnknownTool) ||
				errors.Is(result.err, tools.ErrInvalidArguments) {
				// A nonexistent tool or a payload that fails validation is a
				// schema mismatch the caller must fix.
				if callback != nil && errors.Is(result.err, tools.ErrUnknownTool) {
					callback.OnToolNotFound(ctx, t, result.toolCall.FunctionCall.Name)
				}
				return 0, nil, result.err
			}
			if t.cfg.FailOnToolError {
				return 0, nil, result.err
			}
		}

		content := result.response
		if result.err != nil {
			// Surface the failure to the model as conversational data.
			content = "Tool call failed: " + result.err.Error()
			logger.ContextKV(ctx, xlog.WARNING,
				"status", "tool_call_failed",
				"tool", result.toolCall.FunctionCall.Name,
				"err", result.err.Error(),
			)
		}

		newMessages = append(newMessages, llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: result.toolCall.ID,
			Name:       result.toolCall.FunctionCall.Name,
			Content:    content,
		}))
	}

	return len(toolCalls), newMessages, nil
}

func (t *Toolbox) executeToolCall(ctx context.Context, tc llms.ToolCall, index int) toolCallResult {
	callback := t.cfg.Callback
	toolName := tc.FunctionCall.Name
	toolArgs := tc.FunctionCall.Arguments

	tool := t.registry.Get(toolName)
	if callback != nil && tool != nil {
		callback.OnToolStart(ctx, tool, toolArgs)
	}

	res, err := t.registry.Invoke(ctx, toolName, toolArgs)
	if err != nil {
		if callback != nil && tool != nil {
			callback.OnToolError(ctx, tool, toolArgs, err)
		}
		return toolCallResult{toolCall: tc, err: err, index: index}
	}

	if callback != nil {
		callback.OnToolEnd(ctx, tool, toolArgs, res)
	}
	return toolCallResult{toolCall: tc, response: res, index: index}
}
