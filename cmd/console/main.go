package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"travelbook/internal/client"
	"travelbook/internal/commons"
	"travelbook/internal/config"
	"travelbook/internal/console"
	"travelbook/internal/infrastructure/logger"
	"travelbook/internal/infrastructure/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	flags := pflag.NewFlagSet("travelbook-console", pflag.ExitOnError)
	backendURL := flags.String("backend", cfg.Console.BackendURL, "base URL of the travelbook API")
	offline := flags.Bool("offline", false, "run against an in-process store seeded from fixtures")
	fixtures := flags.String("fixtures", cfg.Store.FixturesPath, "fixtures file for --offline")
	logLevel := flags.String("log-level", "warn", "log level (written to stderr)")
	flags.Parse(os.Args[1:])

	zapLogger, err := logger.New("travelbook-console", *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	var backend console.Backend
	if *offline {
		fx, err := commons.LoadFixtures(*fixtures)
		if err != nil {
			zapLogger.Fatal("loading fixtures", zap.Error(err))
		}
		store := memory.NewStore()
		if err := store.Seed(fx, cfg.Auth.BcryptCost); err != nil {
			zapLogger.Fatal("seeding memory store", zap.Error(err))
		}
		backend = console.NewLocal(store, cfg, zapLogger)
	} else {
		backend = console.NewRemote(client.New(*backendURL, cfg.Console.RequestTimeout, zapLogger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := console.New(backend, cfg.Console, os.Stdin, os.Stdout, zapLogger)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		zapLogger.Error("console stopped", zap.Error(err))
		os.Exit(1)
	}
}
