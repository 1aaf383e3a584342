package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func exerciseSessionStore(t *testing.T, sessions SessionStore) {
	ctx := context.Background()

	token, err := sessions.Create(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, tokenPrefix))

	other, err := sessions.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	ok, err := sessions.Valid(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sessions.Valid(ctx, "sess-bolao-forged")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = sessions.Valid(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, sessions.Destroy(ctx, token))
	ok, err = sessions.Valid(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = sessions.Valid(ctx, other)
	require.NoError(t, err)
	assert.True(t, ok, "destroying one session leaves others alone")
}

func TestMemorySessions(t *testing.T) {
	exerciseSessionStore(t, NewMemorySessions(time.Hour))
}

func TestMemorySessions_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	sessions := NewMemorySessions(30 * time.Minute)
	sessions.nowFunc = func() time.Time { return now }

	token, err := sessions.Create(context.Background())
	require.NoError(t, err)

	now = now.Add(29 * time.Minute)
	ok, _ := sessions.Valid(context.Background(), token)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = sessions.Valid(context.Background(), token)
	assert.False(t, ok)
}

func TestMemorySessions_CreateSweepsExpired(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	sessions := NewMemorySessions(30 * time.Minute)
	sessions.nowFunc = func() time.Time { return now }

	stale, err := sessions.Create(context.Background())
	require.NoError(t, err)
	_, err = sessions.Create(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions.expires, 2)

	now = now.Add(time.Hour)
	fresh, err := sessions.Create(context.Background())
	require.NoError(t, err)

	assert.Len(t, sessions.expires, 1)
	assert.NotContains(t, sessions.expires, stale)
	assert.Contains(t, sessions.expires, fresh)
}

func TestNewSessionStore_DefaultsToMemory(t *testing.T) {
	config := defaultConfig()
	sessions, err := NewSessionStore(&config)
	require.NoError(t, err)
	assert.IsType(t, &MemorySessions{}, sessions)
}

func TestRedisSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	defer container.Terminate(ctx)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)

	sessions := NewRedisSessions(client, "test:session:{token}", time.Minute)
	defer sessions.Close()

	exerciseSessionStore(t, sessions)

	t.Run("keys carry a ttl", func(t *testing.T) {
		token, err := sessions.Create(ctx)
		require.NoError(t, err)

		ttl, err := client.TTL(ctx, "test:session:"+token).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}
