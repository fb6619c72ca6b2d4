package toolbox

import (
	"context"

	"github.com/smoltalk/toolbox/pkg/llms"
	"github.com/smoltalk/toolbox/tools"
)

// Callback receives conversation lifecycle and tool events.
type Callback interface {
	tools.Callback

	OnConversationStart(ctx context.Context, tb *Toolbox, messages []llms.Message)
	OnConversationEnd(ctx context.Context, tb *Toolbox, resp *llms.ContentResponse, messages []llms.Message)
	OnConversationError(ctx context.Context, tb *Toolbox, err error, messages []llms.Message)

	OnLLMCallStart(ctx context.Context, tb *Toolbox, llm llms.Model, messages []llms.Message)
	OnLLMCallEnd(ctx context.Context, tb *Toolbox, llm llms.Model, resp *llms.ContentResponse)

	OnToolNotFound(ctx context.Context, tb *Toolbox, name string)
}
