package currency

import (
	"context"
)

type (
	// Cache is an opaque string key/value store.
	Cache interface {
		Get(ctx context.Context, key string) (value string, found bool, err error)
		Set(ctx context.Context, key, value string) error
	}

	Storage interface {
		Cache
		Migrate(ctx context.Context) error
		Drop(ctx context.Context) error
		Close() error
		GetStorageProviderName() string
	}
)
