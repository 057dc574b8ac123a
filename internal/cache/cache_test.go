package cache

import (
	"context"
	"testing"
	"time"

	"devtasker/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestSessionRoundTripWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	now := time.Now()
	sess := &models.Session{ID: "abc", UserID: 7, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}

	miss, err := c.Session(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.StoreSession(ctx, sess))
	ttl := mr.TTL(sessionPrefix + "abc")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, ttl.String())

	got, err := c.Session(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))

	mr.FastForward(time.Hour + time.Second)
	got, err = c.Session(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestForgetSession(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	sess := &models.Session{ID: "abc", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, c.StoreSession(ctx, sess))

	require.NoError(t, c.ForgetSession(ctx, "abc"))
	assert.False(t, mr.Exists(sessionPrefix+"abc"))
}

func TestStoreSessionSkipsDeadSessions(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	revokedAt := time.Now()

	require.NoError(t, c.StoreSession(ctx, &models.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, c.StoreSession(ctx, &models.Session{ID: "gone", ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &revokedAt}))
	assert.False(t, mr.Exists(sessionPrefix+"old"))
	assert.False(t, mr.Exists(sessionPrefix+"gone"))
}

func TestTagsCacheAside(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Tags(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.StoreTags(ctx, nil))
	tags, ok, err := c.Tags(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "an empty list is still a hit")
	assert.Empty(t, tags)

	require.NoError(t, c.StoreTags(ctx, []models.Tag{{ID: 1, Name: "Bug"}, {ID: 2, Name: "Feature"}}))
	tags, ok, err = c.Tags(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []models.Tag{{ID: 1, Name: "Bug"}, {ID: 2, Name: "Feature"}}, tags)

	require.NoError(t, c.ForgetTags(ctx))
	_, ok, err = c.Tags(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDownSurfacesError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	c := New(client)
	mr.Close()

	_, err = c.Session(context.Background(), "abc")
	assert.Error(t, err)
	_, _, err = c.Tags(context.Background())
	assert.Error(t, err)
}
