package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-converter/storage"
)

func TestRedisStorage(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()

	st, err := storage.NewStorage(ctx, storage.Redis, storage.RedisConfig{URL: url})
	asserts.Nil(err)
	defer st.Close()
	defer st.Drop(ctx)

	testCacheRoundTrip(t, st)
}

func TestRedisStorage_TTL(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()

	options, err := redis.ParseURL(url)
	asserts.Nil(err)
	client := redis.NewClient(options)

	st := storage.NewRedisStorageFromClient(client, time.Minute)
	defer st.Close()
	defer st.Drop(ctx)

	asserts.Nil(st.Set(ctx, "EUR-USD", "1.08"))

	ttl, err := client.TTL(ctx, "currency:EUR-USD").Result()
	asserts.Nil(err)
	asserts.True(ttl > 0 && ttl <= time.Minute)
}

func TestRedisStorage_Unreachable(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := storage.NewRedisStorage(ctx, storage.RedisConfig{URL: "redis://127.0.0.1:1/0"})
	asserts.Error(err)

	_, err = storage.NewRedisStorage(ctx, storage.RedisConfig{URL: "not a url"})
	asserts.Error(err)
}
