package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbassist/internal/model"
)

func setupCache(t *testing.T) (*miniredis.Miniredis, *SessionCache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewSessionCache(client, time.Hour)
}

func TestSessionCacheRoundTrip(t *testing.T) {
	_, c := setupCache(t)
	ctx := context.Background()

	turns := []model.ChatTurn{
		{ID: "t1", Role: model.RoleUser, Content: "hello", Timestamp: time.Now().UTC().Truncate(time.Second)},
		{ID: "t2", Role: model.RoleAssistant, Content: "hi", Sources: []model.Source{{ID: "r1", Title: "Doc"}}},
	}
	require.NoError(t, c.Save(ctx, "s1", turns))

	loaded, ok, err := c.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded, 2)
	assert.Equal(t, "t1", loaded[0].ID)
	assert.Equal(t, "r1", loaded[1].Sources[0].ID)
}

func TestSessionCacheMiss(t *testing.T) {
	_, c := setupCache(t)

	_, ok, err := c.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionCacheMalformedIgnored(t *testing.T) {
	mr, c := setupCache(t)
	require.NoError(t, mr.Set("assistant:session:s1", "not json at all"))

	turns, ok, err := c.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, turns)
}

func TestSessionCacheDelete(t *testing.T) {
	_, c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "s1", []model.ChatTurn{{ID: "t1"}}))
	require.NoError(t, c.Delete(ctx, "s1"))

	_, ok, err := c.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}
