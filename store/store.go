// Package store keeps conversation history between GetResponse calls within
// one process.
package store

import (
	"context"

	"github.com/smoltalk/toolbox/pkg/llms"
)

// MessageStore persists conversation messages per chat ID. The chat ID is
// taken from the chatmodel context; implementations must be safe for
// concurrent use.
type MessageStore interface {
	// Messages returns the stored history for the chat in the context.
	Messages(ctx context.Context) []llms.Message
	// Add appends messages to the history of the chat in the context.
	Add(ctx context.Context, msgs ...llms.Message) error
	// Reset removes the history of the chat in the context.
	Reset(ctx context.Context) error
}
