package redis

import (
	"context"
	"testing"

	"rooming-data/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSONToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	defer Close(client)

	ctx := context.Background()
	require.NoError(t, Ping(ctx, client))

	id, err := PublishJSONToStream(ctx, client, "rooming-lists:events", map[string]any{"event_type": "catalog.reloaded", "records": 3})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs, err := client.XRange(ctx, "rooming-lists:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.JSONEq(t, `{"event_type":"catalog.reloaded","records":3}`, msgs[0].Values["data"].(string))
	assert.NotEmpty(t, msgs[0].Values["timestamp"])
}

func TestPublishToStream_StringifiesValues(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	defer Close(client)

	ctx := context.Background()
	_, err := PublishToStream(ctx, client, "s", map[string]interface{}{
		"ok":    true,
		"count": 2,
		"tags":  []string{"a"},
	})
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, "s", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "true", msgs[0].Values["ok"])
	assert.Equal(t, "2", msgs[0].Values["count"])
	assert.Equal(t, `["a"]`, msgs[0].Values["tags"])
}
