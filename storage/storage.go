package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	currency "github.com/malusev998/currency-converter"
)

type (
	Provider   string
	BaseConfig struct {
		Migrate bool
		// TTL of a cache entry, zero keeps entries forever.
		TTL time.Duration
	}
	BadgerConfig struct {
		BaseConfig
		Path     string
		InMemory bool
	}
	RedisConfig struct {
		BaseConfig
		URL string
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
)

const (
	None    Provider = ""
	Memory  Provider = "memory"
	Badger  Provider = "badger"
	Redis   Provider = "redis"
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
)

const keyPrefix = "currency:"

var (
	ErrStorageNotFound = errors.New("storage is not found")
	ErrInvalidConfig   = errors.New("invalid storage configuration")
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "", "none":
		return None, nil
	case "memory":
		return Memory, nil
	case "badger":
		return Badger, nil
	case "redis":
		return Redis, nil
	case "mysql":
		return MySQL, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	}

	return None, fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(ctx context.Context, provider Provider, config interface{}) (currency.Storage, error) {
	switch provider {
	case Memory:
		c, _ := config.(BadgerConfig)
		c.InMemory = true

		return NewBadgerStorage(c)
	case Badger:
		c, ok := config.(BadgerConfig)
		if !ok {
			return nil, ErrInvalidConfig
		}

		return NewBadgerStorage(c)
	case Redis:
		c, ok := config.(RedisConfig)
		if !ok {
			return nil, ErrInvalidConfig
		}

		return NewRedisStorage(ctx, c)
	case MySQL:
		c, ok := config.(MySQLConfig)
		if !ok {
			return nil, ErrInvalidConfig
		}

		return NewMySQLStorage(ctx, c)
	case MongoDB:
		c, ok := config.(MongoDBConfig)
		if !ok {
			return nil, ErrInvalidConfig
		}

		return NewMongoStorage(ctx, c)
	}

	return nil, ErrStorageNotFound
}
