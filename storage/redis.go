package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	currency "github.com/malusev998/currency-converter"
)

type redisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage pings the server, an unreachable server is an error.
func NewRedisStorage(ctx context.Context, c RedisConfig) (currency.Storage, error) {
	options, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStorageFromClient(client, c.TTL), nil
}

func NewRedisStorageFromClient(client *redis.Client, ttl time.Duration) currency.Storage {
	return redisStorage{client: client, ttl: ttl}
}

func (r redisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, keyPrefix+key).Result()

	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (r redisStorage) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, keyPrefix+key, value, r.ttl).Err()
}

func (r redisStorage) Migrate(context.Context) error {
	return nil
}

func (r redisStorage) Drop(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

func (r redisStorage) Close() error {
	return r.client.Close()
}

func (r redisStorage) GetStorageProviderName() string {
	return string(Redis)
}
