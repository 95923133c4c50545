package cmd

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/transport"
)

var ErrSourceMissing = errors.New("you have to provide source currency code")

type (
	MySQLOptions struct {
		User     string
		Password string
		Addr     string
		DB       string
		Table    string
	}

	MongoDBOptions struct {
		URI        string
		Database   string
		Collection string
	}

	// Options is the merged view of flags, environment and config file.
	Options struct {
		APIKey      string
		APIURL      string
		Timeout     time.Duration
		Cache       string
		CacheTTL    time.Duration
		Migrate     bool
		RedisURL    string
		BadgerPath  string
		MySQL       MySQLOptions
		MongoDB     MongoDBOptions
		Debug       bool
		ServingAddr string
	}

	// Builder wires the rate services for a single command run, the returned
	// closer releases the cache backend.
	Builder func(ctx context.Context, opts Options, logger log.Logger) (currency.Conversion, io.Closer, error)

	Config struct {
		Ctx       context.Context
		Build     Builder
		LogWriter io.Writer
		Registry  *prometheus.Registry
	}
)

func Execute(config *Config) error {
	return NewRootCommand(config).ExecuteContext(config.Ctx)
}

func NewRootCommand(config *Config) *cobra.Command {
	v := viper.New()
	opts := &Options{}
	logger := log.NewNopLogger()
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "currency SOURCE [TARGET AMOUNT]",
		Short:         "Currency converter backed by freecurrencyapi.com",
		Version:       "v2.0.0",
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return ErrSourceMissing
			}

			return cobra.MaximumNArgs(3)(cmd, args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, configFile); err != nil {
				return err
			}

			*opts = loadOptions(v)
			logger = newLogger(config.LogWriter, opts.Debug)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, config, *opts, logger, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to config file (default ./config.yml when present)")
	flags.Bool("debug", false, "Debug flag")
	flags.String("api-key", "", "API key used for authentication (env CURRENCY_API_KEY)")
	flags.String("api-url", fetchers.FreeCurrencyAPIURL, "Rate provider URL (env API_URL)")
	flags.String("cache", "", "Cache backend: memory, badger, redis, mysql, mongodb (env CURRENCY_CACHE)")
	flags.Duration("cache-ttl", 0, "Lifetime of cached rates, 0 keeps them until the backend evicts them")

	v.SetEnvPrefix("CURRENCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("api.key", "CURRENCY_API_KEY")
	_ = v.BindEnv("api.url", "API_URL")
	_ = v.BindEnv("cache.provider", "CURRENCY_CACHE")
	_ = v.BindEnv("databases.redis.url", "REDIS_URL")

	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("api.key", flags.Lookup("api-key"))
	_ = v.BindPFlag("api.url", flags.Lookup("api-url"))
	_ = v.BindPFlag("cache.provider", flags.Lookup("cache"))
	_ = v.BindPFlag("cache.ttl", flags.Lookup("cache-ttl"))

	v.SetDefault("api.timeout", transport.DefaultTimeout)
	v.SetDefault("cache.migrate", true)
	v.SetDefault("databases.badger.path", "./.currency-cache")
	v.SetDefault("databases.mysql.table", "currency_cache")

	rootCmd.AddCommand(serve(config, v, opts, func() log.Logger { return logger }))

	return rootCmd
}

func readConfig(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		return v.ReadInConfig()
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return nil
}

func loadOptions(v *viper.Viper) Options {
	return Options{
		APIKey:     v.GetString("api.key"),
		APIURL:     v.GetString("api.url"),
		Timeout:    v.GetDuration("api.timeout"),
		Cache:      v.GetString("cache.provider"),
		CacheTTL:   v.GetDuration("cache.ttl"),
		Migrate:    v.GetBool("cache.migrate"),
		RedisURL:   v.GetString("databases.redis.url"),
		BadgerPath: v.GetString("databases.badger.path"),
		MySQL: MySQLOptions{
			User:     v.GetString("databases.mysql.user"),
			Password: v.GetString("databases.mysql.password"),
			Addr:     v.GetString("databases.mysql.addr"),
			DB:       v.GetString("databases.mysql.db"),
			Table:    v.GetString("databases.mysql.table"),
		},
		MongoDB: MongoDBOptions{
			URI:        v.GetString("databases.mongodb.uri"),
			Database:   v.GetString("databases.mongodb.database"),
			Collection: v.GetString("databases.mongodb.collection"),
		},
		Debug:       v.GetBool("debug"),
		ServingAddr: v.GetString("serve.addr"),
	}
}

func newLogger(w io.Writer, debug bool) log.Logger {
	if w == nil {
		return log.NewNopLogger()
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))

	if debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	// the filter sits below the context so caller resolves to the Log call site
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}
