// Package callbacks provides ready-made Callback handlers for the toolbox.
package callbacks

import (
	"context"
	"fmt"
	"io"

	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"

	"github.com/smoltalk/toolbox/pkg/llms"
	"github.com/smoltalk/toolbox/pkg/llmutils"
	"github.com/smoltalk/toolbox/toolbox"
	"github.com/smoltalk/toolbox/tools"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ toolbox.Callback = (*Noop)(nil)
	_ toolbox.Callback = (*Printer)(nil)
	_ toolbox.Callback = (*PackageLogger)(nil)
	_ toolbox.Callback = (*Fanout)(nil)
)

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnConversationStart(ctx context.Context, tb *toolbox.Toolbox, messages []llms.Message) {
}
func (l *Noop) OnConversationEnd(ctx context.Context, tb *toolbox.Toolbox, resp *llms.ContentResponse, messages []llms.Message) {
}
func (l *Noop) OnConversationError(ctx context.Context, tb *toolbox.Toolbox, err error, messages []llms.Message) {
}
func (l *Noop) OnLLMCallStart(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, messages []llms.Message) {
}
func (l *Noop) OnLLMCallEnd(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, resp *llms.ContentResponse) {
}
func (l *Noop) OnToolNotFound(ctx context.Context, tb *toolbox.Toolbox, name string)       {}
func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, input string)            {}
func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {}
func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {}

// Printer prints conversation events to the Writer.
type Printer struct {
	Out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out}
}

func (l *Printer) OnConversationStart(ctx context.Context, tb *toolbox.Toolbox, messages []llms.Message) {
	fmt.Fprintf(l.Out, "Conversation Start: %d messages\n", len(messages))
	llmutils.PrintMessages(l.Out, messages)
}

func (l *Printer) OnConversationEnd(ctx context.Context, tb *toolbox.Toolbox, resp *llms.ContentResponse, messages []llms.Message) {
	fmt.Fprintln(l.Out, "Conversation End")
	for _, choice := range resp.Choices {
		if choice.Content != "" {
			fmt.Fprintln(l.Out, choice.Content)
		}
	}
}

func (l *Printer) OnConversationError(ctx context.Context, tb *toolbox.Toolbox, err error, messages []llms.Message) {
	fmt.Fprintf(l.Out, "Conversation Error: %s\n", err.Error())
}

func (l *Printer) OnLLMCallStart(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, messages []llms.Message) {
	fmt.Fprintf(l.Out, "LLM Call: %s, %d messages\n", llm.GetName(), len(messages))
}

func (l *Printer) OnLLMCallEnd(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, resp *llms.ContentResponse) {
	for _, choice := range resp.Choices {
		for _, tc := range choice.ToolCalls {
			fmt.Fprintf(l.Out, "Tool Call: %s(%s)\n", tc.FunctionCall.Name, tc.FunctionCall.Arguments)
		}
	}
}

func (l *Printer) OnToolNotFound(ctx context.Context, tb *toolbox.Toolbox, name string) {
	fmt.Fprintf(l.Out, "Tool Not Found: %s\n", name)
}

func (l *Printer) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	fmt.Fprintf(l.Out, "Tool Start: %s: %s\n", tool.Name(), input)
}

func (l *Printer) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	fmt.Fprintf(l.Out, "Tool End: %s: %s\n", tool.Name(), output)
}

func (l *Printer) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	fmt.Fprintf(l.Out, "Tool Error: %s: %s\n", tool.Name(), err.Error())
}

// PackageLogger logs conversation events with the provided xlog logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnConversationStart(ctx context.Context, tb *toolbox.Toolbox, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "conversation_start",
		"messages", len(messages),
		"question", slices.StringUpto(llmutils.FindLastUserQuestion(messages), 64),
	)
}

func (l *PackageLogger) OnConversationEnd(ctx context.Context, tb *toolbox.Toolbox, resp *llms.ContentResponse, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "conversation_end",
		"messages", len(messages),
		"choices", len(resp.Choices),
	)
}

func (l *PackageLogger) OnConversationError(ctx context.Context, tb *toolbox.Toolbox, err error, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"status", "conversation_error",
		"messages", len(messages),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnLLMCallStart(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "llm_call_start",
		"model", llm.GetName(),
		"messages", len(messages),
	)
}

func (l *PackageLogger) OnLLMCallEnd(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, resp *llms.ContentResponse) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "llm_call_end",
		"model", llm.GetName(),
		"choices", len(resp.Choices),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, tb *toolbox.Toolbox, name string) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"status", "tool_not_found",
		"tool", name,
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_start",
		"tool", tool.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_end",
		"tool", tool.Name(),
		"output_size", len(output),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"status", "tool_error",
		"tool", tool.Name(),
		"err", err.Error(),
	)
}

// Fanout forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []toolbox.Callback
}

func NewFanout(callbacks ...toolbox.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback toolbox.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnConversationStart(ctx context.Context, tb *toolbox.Toolbox, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnConversationStart(ctx, tb, messages)
	}
}

func (l *Fanout) OnConversationEnd(ctx context.Context, tb *toolbox.Toolbox, resp *llms.ContentResponse, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnConversationEnd(ctx, tb, resp, messages)
	}
}

func (l *Fanout) OnConversationError(ctx context.Context, tb *toolbox.Toolbox, err error, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnConversationError(ctx, tb, err, messages)
	}
}

func (l *Fanout) OnLLMCallStart(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallStart(ctx, tb, llm, messages)
	}
}

func (l *Fanout) OnLLMCallEnd(ctx context.Context, tb *toolbox.Toolbox, llm llms.Model, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallEnd(ctx, tb, llm, resp)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, tb *toolbox.Toolbox, name string) {
	for _, callback := range l.callbacks {
		callback.OnToolNotFound(ctx, tb, name)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, input, err)
	}
}
