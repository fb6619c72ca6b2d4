package llms

import (
	"context"
)

//go:generate mockgen -destination=../../mocks/mockllms/llms_mock.gen.go -package mockllms github.com/smoltalk/toolbox/pkg/llms Model

// Model is an interface implemented by chat-completion providers.
type Model interface {
	// GetName returns the configured model identifier.
	GetName() string
	// GenerateContent asks the model to generate content from a sequence of
	// messages. The response may carry tool calls that the caller is
	// expected to execute and feed back as tool messages.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}
