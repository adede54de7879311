package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pettycash/internal/amqp"
	"pettycash/internal/config"
	apphttp "pettycash/internal/http"
	"pettycash/internal/ledger"
	"pettycash/internal/log"
	"pettycash/internal/service"
	"pettycash/internal/storage"
	"pettycash/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Snapshot persistence. The in-memory store stays the source of
	// truth; SQLite just survives restarts.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	store := ledger.New()
	snap, ok, err := repo.LoadSnapshot(context.Background())
	switch {
	case err != nil:
		logger.Error("Failed to load snapshot", "error", err)
		os.Exit(1)
	case ok:
		store.Restore(snap)
		logger.Info("Ledger restored", "transactions", len(snap.Transactions))
	case cfg.SeedSampleData:
		store.SeedSample()
		logger.Info("First run, seeded sample ledger")
	default:
		if err := store.SetAvailableFunds(ledger.DefaultAvailableFunds); err != nil {
			logger.Error("Failed to set default funds", "error", err)
			os.Exit(1)
		}
		logger.Info("First run, starting with empty ledger")
	}

	// Change-event queue is optional; without it the worker just relies
	// on its reconcile pass.
	var publisher service.SyncPublisher
	if amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil {
		logger.Warn("AMQP unavailable, continuing without change events", "error", err)
	} else {
		publisher = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := service.NewLedgerService(store, repo, publisher, cfg.AdminSecret)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Close error", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.WeekStartDay())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	autosaveDone := make(chan struct{})
	go func() {
		worker.Autosave(ctx, svc, cfg.AutosaveInterval)
		close(autosaveDone)
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting pettycash server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	// Wait for the final autosave before closing the repository.
	<-autosaveDone
	logger.Info("Server stopped gracefully")
}
