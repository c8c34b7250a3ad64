package processors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/models"
)

func topic(handle string) models.Topic {
	return models.Topic{Handle: handle, UserHandle: "me", Title: handle}
}

func topicHandles(items []models.Topic) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = t.Handle
	}
	return out
}

func TestTopics_ProjectsPendingEffects(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.CacheOutgoing(ctx, command.NewLikeTopic(topic("t1")))
	require.NoError(t, err)
	_, err = c.CacheOutgoing(ctx, command.NewPinTopic(topic("t2")))
	require.NoError(t, err)

	resp := &models.TopicsListResponse{Items: []models.Topic{topic("t1"), topic("t2"), topic("t3")}}
	p := NewTopics(c, logging.NewNop())

	require.NoError(t, p.Apply(ctx, resp))

	assert.True(t, resp.Items[0].Liked)
	assert.Equal(t, int64(1), resp.Items[0].TotalLikes)
	assert.True(t, resp.Items[1].Pinned)
	assert.False(t, resp.Items[2].Liked)
}

func TestTopics_InjectsCreatedAndHidesRemoved(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	created := command.NewCreateTopic("me", "draft", "written offline")
	_, err := c.CacheOutgoing(ctx, created)
	require.NoError(t, err)
	_, err = c.CacheOutgoing(ctx, command.NewRemoveTopic(topic("t2")))
	require.NoError(t, err)

	resp := &models.TopicsListResponse{Items: []models.Topic{topic("t1"), topic("t2")}, Cursor: "c1"}
	p := NewTopics(c, logging.NewNop())

	require.NoError(t, p.Apply(ctx, resp))

	assert.Equal(t, []string{"t1", created.Handle()}, topicHandles(resp.Items))
	assert.Equal(t, "draft", resp.Items[1].Title)
	assert.Equal(t, "c1", resp.Cursor)
}

func TestTopics_ApplyIsIdempotent(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.CacheOutgoing(ctx, command.NewLikeTopic(topic("t1")))
	require.NoError(t, err)
	_, err = c.CacheOutgoing(ctx, command.NewCreateTopic("me", "draft", "text"))
	require.NoError(t, err)

	resp := &models.TopicsListResponse{Items: []models.Topic{topic("t1")}}
	p := NewTopics(c, logging.NewNop())

	require.NoError(t, p.Apply(ctx, resp))
	once := append([]models.Topic(nil), resp.Items...)

	require.NoError(t, p.Apply(ctx, resp))
	assert.Equal(t, once, resp.Items)
}
