package main

import (
	"fmt"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/storage"
)

type (
	StorageConfig map[storage.Provider]interface{}
	Config        struct {
		Provider      currency.Provider
		Fetcher       fetchers.FreeCurrencyAPIConfig
		Storage       storage.Provider
		StorageConfig StorageConfig
	}
)

func getConfig(opts cmd.Options) (*Config, error) {
	provider, err := storage.ConvertToProviderFromString(opts.Cache)
	if err != nil {
		return nil, fmt.Errorf("error while parsing cache provider: %w", err)
	}

	if provider == storage.None && opts.RedisURL != "" {
		provider = storage.Redis
	}

	storageBaseConfig := storage.BaseConfig{
		Migrate: opts.Migrate,
		TTL:     opts.CacheTTL,
	}

	return &Config{
		Provider: currency.FreeCurrencyAPIProvider,
		Fetcher: fetchers.FreeCurrencyAPIConfig{
			BaseConfig: fetchers.BaseConfig{
				URL:     opts.APIURL,
				Timeout: opts.Timeout,
			},
			APIKey: opts.APIKey,
		},
		Storage: provider,
		StorageConfig: StorageConfig{
			storage.Memory: storage.BadgerConfig{
				BaseConfig: storageBaseConfig,
				InMemory:   true,
			},
			storage.Badger: storage.BadgerConfig{
				BaseConfig: storageBaseConfig,
				Path:       opts.BadgerPath,
			},
			storage.Redis: storage.RedisConfig{
				BaseConfig: storageBaseConfig,
				URL:        opts.RedisURL,
			},
			storage.MySQL: storage.MySQLConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: storage.MySQLDSN(opts.MySQL.User, opts.MySQL.Password, opts.MySQL.Addr, opts.MySQL.DB),
				TableName:        opts.MySQL.Table,
			},
			storage.MongoDB: storage.MongoDBConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: opts.MongoDB.URI,
				Database:         opts.MongoDB.Database,
				Collection:       opts.MongoDB.Collection,
			},
		},
	}, nil
}
