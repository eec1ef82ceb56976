package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/config"
	"github.com/AdamBeresnev/ski-bracket/internal/db"
	"github.com/AdamBeresnev/ski-bracket/internal/scheduler"
	"github.com/AdamBeresnev/ski-bracket/internal/service"
	"github.com/AdamBeresnev/ski-bracket/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	st, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	state := service.NewStateManager(st)
	svc := services{
		tournaments: service.NewTournamentService(state),
		matches:     service.NewMatchService(state),
		settings:    service.NewSettingsService(state),
	}

	autoStart, err := scheduler.New(svc.settings, cfg.AutoStartSchedule)
	if err != nil {
		slog.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}
	autoStart.Start()

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: newRouter(svc, routerOptions{
			corsOrigins:    cfg.CORSOrigins,
			rateLimitRPS:   cfg.RateLimitRPS,
			rateLimitBurst: cfg.RateLimitBurst,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	autoStart.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		_ = server.Close()
	}
	slog.Info("server stopped")
}

// openStore builds the backend selected by STORE_DRIVER. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(), noop, nil
	case config.DriverFile:
		return store.NewFileStore(cfg.DataFile), noop, nil
	case config.DriverSQLite:
		database, err := db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(database.DB); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store.NewSQLiteStore(database), database.Close, nil
	case config.DriverRedis:
		client, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client, cfg.RedisKey), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
