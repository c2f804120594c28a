package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mdrecords/internal/api"
	"github.com/dgallion1/mdrecords/internal/config"
	"github.com/dgallion1/mdrecords/internal/indexer"
	"github.com/dgallion1/mdrecords/internal/pipeline"
	"github.com/dgallion1/mdrecords/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Index forwarding is optional.
	var index pipeline.Indexer
	var indexClient *indexer.Client
	if cfg.IndexEnabled() {
		indexClient = indexer.NewClient(cfg.IndexURL, cfg.IndexAPIKey)
		index = indexClient
		log.Info("forwarding records to index", "url", cfg.IndexURL)
	}
	latency := stats.NewLatency(cfg.StatsWindow)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, index, latency, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, latency, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		if indexClient != nil {
			indexClient.Close()
		}
	}()

	log.Info("starting mdrecords", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
