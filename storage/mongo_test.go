package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-converter/storage"
)

func TestMongoStorage(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}

	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()

	st, err := storage.NewStorage(ctx, storage.MongoDB, storage.MongoDBConfig{
		BaseConfig:       storage.BaseConfig{Migrate: true, TTL: time.Hour},
		ConnectionString: uri,
		Database:         "currency_converter_test",
		Collection:       "cache",
	})
	asserts.Nil(err)
	defer st.Close()
	defer st.Drop(ctx)

	asserts.Equal("mongodb", st.GetStorageProviderName())
	testCacheRoundTrip(t, st)
}

func TestMongoStorage_TTLChange(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}

	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()

	config := storage.MongoDBConfig{
		BaseConfig:       storage.BaseConfig{Migrate: true, TTL: time.Hour},
		ConnectionString: uri,
		Database:         "currency_converter_test",
		Collection:       "cache_ttl",
	}

	first, err := storage.NewStorage(ctx, storage.MongoDB, config)
	asserts.Nil(err)
	defer first.Close()
	defer first.Drop(ctx)

	asserts.Nil(first.Set(ctx, "USD-PLN", "4.001"))

	config.TTL = 2 * time.Hour
	second, err := storage.NewStorage(ctx, storage.MongoDB, config)
	asserts.Nil(err)
	defer second.Close()

	value, found, err := second.Get(ctx, "USD-PLN")
	asserts.Nil(err)
	asserts.True(found)
	asserts.Equal("4.001", value)

	config.TTL = 500 * time.Millisecond
	third, err := storage.NewStorage(ctx, storage.MongoDB, config)
	asserts.Nil(err)
	asserts.Nil(third.Close())
}
