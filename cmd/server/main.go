package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"travelbook/internal/commons"
	"travelbook/internal/config"
	"travelbook/internal/events"
	"travelbook/internal/infrastructure/logger"
	"travelbook/internal/infrastructure/memory"
	"travelbook/internal/infrastructure/mysql"
	"travelbook/internal/metrics"
	"travelbook/internal/server"
	"travelbook/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New("travelbook-server", cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	fx, err := commons.LoadFixtures(cfg.Store.FixturesPath)
	if err != nil {
		zapLogger.Fatal("loading fixtures", zap.Error(err))
	}

	publisher, err := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating event publisher", zap.Error(err))
	}
	defer publisher.Close()

	deps := server.Deps{
		Config:    cfg,
		Sessions:  session.NewStore(cfg.Auth.SessionTTL),
		Publisher: publisher,
		Metrics:   metrics.New(),
		Logger:    zapLogger,
	}

	var controllers server.Controllers
	switch cfg.Store.Driver {
	case config.StoreMySQL:
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		zapLogger.Info("database connected")

		if err := mysql.Migrate(db); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = mysql.Seed(seedCtx, db, fx, cfg.Auth.BcryptCost)
		cancel()
		if err != nil {
			zapLogger.Fatal("seeding database", zap.Error(err))
		}
		controllers = server.NewMySQLControllers(db, deps)
	default:
		store := memory.NewStore()
		if err := store.Seed(fx, cfg.Auth.BcryptCost); err != nil {
			zapLogger.Fatal("seeding memory store", zap.Error(err))
		}
		zapLogger.Info("using in-memory store", zap.String("fixtures", cfg.Store.FixturesPath))
		controllers = server.NewMemoryControllers(store, deps)
	}

	router := server.NewRouter(controllers, deps.Sessions, deps.Metrics, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
