package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/recoverydesk/internal/config"
	"github.com/xelth-com/recoverydesk/internal/handlers"
	"github.com/xelth-com/recoverydesk/internal/logger"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"github.com/xelth-com/recoverydesk/internal/sync"
	"github.com/xelth-com/recoverydesk/internal/utils"
	"github.com/xelth-com/recoverydesk/internal/websocket"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     "stdout",
		TimeFormat: logger.DefaultConfig().TimeFormat,
	})
	defer log.Sync()

	// 2. Open the record store
	store, closer, err := storage.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	ids, err := utils.NewIDGenerator(cfg.NodeID)
	if err != nil {
		log.Fatal("Invalid NODE_ID", zap.Int64("node_id", cfg.NodeID), zap.Error(err))
	}

	// 3. Engine and live change feed
	hub := websocket.NewHub(log)
	engine := sync.NewEngine(store, log,
		sync.WithIDGenerator(ids),
		sync.WithDefaultPassword(cfg.DefaultPassword),
		sync.WithOptions(sync.Options{PurgeOrphans: cfg.Engine.PurgeOrphansOnDelete}),
		sync.WithChangeListener(func(c sync.Change) {
			hub.Broadcast("job.changed", c)
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.EnsurePassword(ctx, cfg.DefaultPassword); err != nil {
		log.Fatal("Failed to bootstrap operator password", zap.Error(err))
	}
	if cfg.Engine.FreshStartOnBoot {
		res := engine.ClearAllRecordsForFreshStart(ctx)
		log.Warn("Fresh start on boot", zap.Bool("success", res.Success), zap.Strings("cleared", res.ClearedItems))
	}

	go hub.Run(ctx)

	// 4. HTTP server
	router := handlers.NewRouter(engine, hub, cfg, log)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.Store.Driver),
			zap.Strings("lan_urls", utils.LANURLs(cfg.Port)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := closer.Close(); err != nil {
		log.Error("Store close error", zap.Error(err))
	}
	log.Info("Shutdown complete")
}
