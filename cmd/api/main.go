package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketplace-cart/internal/backend/httpserver"
	"marketplace-cart/internal/backend/store"
	"marketplace-cart/internal/config"
	"marketplace-cart/internal/db"
	"marketplace-cart/internal/migrate"
	"marketplace-cart/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		st     store.Store
		pinger httpserver.Pinger
	)
	if cfg.DBConnString != "" {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()

		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}

		st = store.NewPostgres(pool)
		pinger = pool
	} else {
		logger.Printf("no DB_DSN set, serving the in-memory demo catalog")
		st = store.NewMemory(seed.Catalog())
	}

	srv := httpserver.New(cfg.HTTPAddr, logger, pinger, httpserver.Deps{
		Store:          st,
		PaymentURLBase: cfg.PaymentURLBase,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
