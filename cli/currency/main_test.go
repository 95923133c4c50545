package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/storage"
)

type countingProvider struct {
	calls int32
}

func (p *countingProvider) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	atomic.AddInt32(&p.calls, 1)

	if request.URL.Query().Get("currencies") != "" {
		_, _ = writer.Write([]byte(`{"data":{"PLN":4.001}}`))
		return
	}

	_, _ = writer.Write([]byte(`{"data":{"PLN":4.1,"EUR":0.9}}`))
}

func TestGetConfig(t *testing.T) {
	t.Parallel()

	t.Run("RedisURLSelectsRedis", func(t *testing.T) {
		asserts := require.New(t)

		config, err := getConfig(cmd.Options{APIKey: "key", RedisURL: "redis://localhost:6379/0", CacheTTL: time.Minute})

		asserts.Nil(err)
		asserts.Equal(storage.Redis, config.Storage)
		asserts.Equal(currency.FreeCurrencyAPIProvider, config.Provider)
		asserts.Equal("key", config.Fetcher.APIKey)

		redisConfig, ok := config.StorageConfig[storage.Redis].(storage.RedisConfig)
		asserts.True(ok)
		asserts.Equal("redis://localhost:6379/0", redisConfig.URL)
		asserts.Equal(time.Minute, redisConfig.TTL)
	})

	t.Run("ExplicitCacheWins", func(t *testing.T) {
		asserts := require.New(t)

		config, err := getConfig(cmd.Options{Cache: "mysql", RedisURL: "redis://localhost:6379/0", MySQL: cmd.MySQLOptions{
			User: "root", Password: "secret", Addr: "127.0.0.1:3306", DB: "currency", Table: "rates",
		}})

		asserts.Nil(err)
		asserts.Equal(storage.MySQL, config.Storage)

		mysqlConfig := config.StorageConfig[storage.MySQL].(storage.MySQLConfig)
		asserts.Equal("rates", mysqlConfig.TableName)
		asserts.Equal(storage.MySQLDSN("root", "secret", "127.0.0.1:3306", "currency"), mysqlConfig.ConnectionString)
	})

	t.Run("NoCache", func(t *testing.T) {
		asserts := require.New(t)

		config, err := getConfig(cmd.Options{})

		asserts.Nil(err)
		asserts.Equal(storage.None, config.Storage)
	})

	t.Run("UnknownCache", func(t *testing.T) {
		asserts := require.New(t)

		_, err := getConfig(cmd.Options{Cache: "memcached"})

		asserts.Error(err)
	})
}

func TestBuilder_MemoryCache(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	provider := &countingProvider{}
	server := httptest.NewServer(provider)
	defer server.Close()

	metrics := services.NewMetrics(prometheus.NewRegistry())
	build := newBuilder(metrics)

	conversion, closer, err := build(context.Background(), cmd.Options{
		APIKey: "secret",
		APIURL: server.URL,
		Cache:  "memory",
	}, log.NewNopLogger())

	asserts.Nil(err)
	asserts.NotNil(closer)
	defer closer.Close()

	for i := 0; i < 3; i++ {
		converted, err := conversion.Convert(context.Background(), "USD", "PLN", decimal.NewFromInt(10))
		asserts.Nil(err)
		asserts.Equal("40.01", converted.Amount.String())
	}

	rates, err := conversion.List(context.Background(), "USD")
	asserts.Nil(err)
	asserts.Equal(2, rates.Len())

	_, err = conversion.List(context.Background(), "USD")
	asserts.Nil(err)

	asserts.Equal(int32(2), atomic.LoadInt32(&provider.calls))
	asserts.Equal(2.0, testutil.ToFloat64(metrics.CacheHits.WithLabelValues("get_rate")))
	asserts.Equal(1.0, testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("get_rates")))
}

func TestBuilder_FallsBackWithoutCache(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	provider := &countingProvider{}
	server := httptest.NewServer(provider)
	defer server.Close()

	conversion, closer, err := newBuilder(nil)(context.Background(), cmd.Options{
		APIKey:   "secret",
		APIURL:   server.URL,
		Cache:    "redis",
		RedisURL: "redis://127.0.0.1:1/0",
	}, log.NewNopLogger())

	asserts.Nil(err)
	asserts.Nil(closer)

	for i := 0; i < 2; i++ {
		_, err := conversion.List(context.Background(), "USD")
		asserts.Nil(err)
	}

	asserts.Equal(int32(2), atomic.LoadInt32(&provider.calls))
}

func TestBuilder_MissingAPIKey(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	_, _, err := newBuilder(nil)(context.Background(), cmd.Options{}, log.NewNopLogger())

	asserts.ErrorIs(err, fetchers.ErrAPIKeyMissing)
}
