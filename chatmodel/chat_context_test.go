package chatmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoltalk/toolbox/chatmodel"
)

func Test_ChatContext(t *testing.T) {
	chatCtx := chatmodel.NewChatContext("chat-1", map[string]string{"tenant": "acme"})
	assert.Equal(t, "chat-1", chatCtx.GetChatID())
	assert.Equal(t, map[string]string{"tenant": "acme"}, chatCtx.AppData())

	_, ok := chatCtx.GetMetadata("key")
	assert.False(t, ok)
	chatCtx.SetMetadata("key", 42)
	v, ok := chatCtx.GetMetadata("key")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func Test_ChatContext_GeneratedID(t *testing.T) {
	c1 := chatmodel.NewChatContext("", nil)
	c2 := chatmodel.NewChatContext("", nil)
	assert.NotEmpty(t, c1.GetChatID())
	assert.NotEqual(t, c1.GetChatID(), c2.GetChatID())
}

func Test_WithChatContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, chatmodel.GetChatContext(ctx))
	assert.Equal(t, "", chatmodel.GetChatID(ctx))

	chatCtx := chatmodel.NewChatContext("chat-1", nil)
	ctx = chatmodel.WithChatContext(ctx, chatCtx)
	assert.Equal(t, chatCtx, chatmodel.GetChatContext(ctx))
	assert.Equal(t, "chat-1", chatmodel.GetChatID(ctx))
}
