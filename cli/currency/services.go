package main

import (
	"context"
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/storage"
)

// createStorage returns nil when no cache is configured or the configured
// one cannot be reached, rates are then always fetched from the provider.
func createStorage(ctx context.Context, config *Config, logger log.Logger) currency.Storage {
	if config.Storage == storage.None {
		return nil
	}

	c, ok := config.StorageConfig[config.Storage]
	if !ok {
		level.Warn(logger).Log("msg", "storage does not exist, running without cache", "storage", config.Storage)
		return nil
	}

	st, err := storage.NewStorage(ctx, config.Storage, c)
	if err != nil {
		level.Warn(logger).Log("msg", "cannot initialize cache, running without it", "storage", config.Storage, "err", err)
		return nil
	}

	level.Debug(logger).Log("msg", "cache initialized", "storage", st.GetStorageProviderName())

	return st
}

func createRateService(ctx context.Context, config *Config, metrics *services.Metrics, logger log.Logger) (currency.Conversion, io.Closer, error) {
	fetcher, err := fetchers.NewRateService(config.Provider, config.Fetcher)
	if err != nil {
		return nil, nil, fmt.Errorf("fetcher %s: %w", config.Provider, err)
	}

	rates := fetcher
	if metrics != nil {
		rates = services.NewInstrumentingService(metrics, rates)
	}

	var closer io.Closer

	if st := createStorage(ctx, config, logger); st != nil {
		cache := services.NewCacheService(rates, st, log.With(logger, "component", "cache"))
		if metrics != nil {
			cache.Metrics = metrics
		}

		rates = cache
		closer = st
	}

	return services.ConversionService{Rates: services.NewLoggingService(logger, rates)}, closer, nil
}

func newBuilder(metrics *services.Metrics) cmd.Builder {
	return func(ctx context.Context, opts cmd.Options, logger log.Logger) (currency.Conversion, io.Closer, error) {
		config, err := getConfig(opts)
		if err != nil {
			return nil, nil, err
		}

		return createRateService(ctx, config, metrics, logger)
	}
}
