package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoltalk/toolbox/chatmodel"
	"github.com/smoltalk/toolbox/pkg/llms"
	"github.com/smoltalk/toolbox/store"
)

func chatCtx(chatID string) context.Context {
	return chatmodel.WithChatContext(context.Background(),
		chatmodel.NewChatContext(chatID, nil))
}

func Test_MemoryStore(t *testing.T) {
	s := store.NewMemoryStore()

	ctx1 := chatCtx("chat-1")
	ctx2 := chatCtx("chat-2")

	assert.Empty(t, s.Messages(ctx1))

	require.NoError(t, s.Add(ctx1,
		llms.MessageFromTextParts(llms.RoleHuman, "Hi"),
		llms.MessageFromTextParts(llms.RoleAI, "Hello!"),
	))
	require.NoError(t, s.Add(ctx2,
		llms.MessageFromTextParts(llms.RoleHuman, "Other chat"),
	))

	// histories are isolated by chat ID
	msgs := s.Messages(ctx1)
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.RoleHuman, msgs[0].Role)
	assert.Equal(t, llms.RoleAI, msgs[1].Role)
	assert.Len(t, s.Messages(ctx2), 1)

	require.NoError(t, s.Reset(ctx1))
	assert.Empty(t, s.Messages(ctx1))
	assert.Len(t, s.Messages(ctx2), 1)
}

func Test_MemoryStore_NoChatContext(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	// without a chat context the history is keyed by the empty ID
	require.NoError(t, s.Add(ctx, llms.MessageFromTextParts(llms.RoleHuman, "Hi")))
	assert.Len(t, s.Messages(ctx), 1)
	require.NoError(t, s.Reset(ctx))
	assert.Empty(t, s.Messages(ctx))
}
