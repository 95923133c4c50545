package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/malusev998/currency-converter/api"
)

func serve(config *Config, v *viper.Viper, opts *Options, logger func() log.Logger) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve exchange rates over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conversion, closer, err := config.Build(ctx, *opts, logger())
			if err != nil {
				return err
			}

			if closer != nil {
				defer closer.Close()
			}

			var gatherer prometheus.Gatherer
			if config.Registry != nil {
				gatherer = config.Registry
			}

			server := &http.Server{
				Addr:              opts.ServingAddr,
				Handler:           api.NewHandler(conversion, logger(), gatherer),
				ReadHeaderTimeout: 5 * time.Second,
			}

			return listen(ctx, server, logger())
		},
	}

	serveCmd.Flags().String("addr", ":8080", "Address the HTTP server listens on")
	_ = v.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	return serveCmd
}

func listen(ctx context.Context, server *http.Server, logger log.Logger) error {
	errs := make(chan error, 1)

	go func() {
		level.Info(logger).Log("msg", "listening", "addr", server.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		level.Info(logger).Log("msg", "shutting down")

		return server.Shutdown(shutdownCtx)
	}
}
