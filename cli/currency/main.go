package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/services"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error while loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()

	err := cmd.Execute(&cmd.Config{
		Ctx:       ctx,
		Build:     newBuilder(services.NewMetrics(registry)),
		LogWriter: os.Stderr,
		Registry:  registry,
	})

	if err != nil {
		stop()
		os.Exit(1)
	}
}
