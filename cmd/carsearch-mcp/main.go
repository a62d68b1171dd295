package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/carsearch-mcp/internal/catalog"
	"github.com/usestring/carsearch-mcp/internal/config"
	"github.com/usestring/carsearch-mcp/internal/logging"
	"github.com/usestring/carsearch-mcp/internal/server"
)

func main() {
	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - LISTEN_ADDR: TCP listen address (default :8765)
	// - LOG_LEVEL: debug, info, warn, error (default: info)
	// - LOG_FILE: path to log file (default: stderr only)
	// - etc. (see internal/config for all options)
	cfg := config.Load()

	cleanup, err := logging.Setup(cfg)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// In-memory catalog with the development inventory, behind the LRU
	// cache decorator.
	store := catalog.NewMemStore()
	catalog.SeedInventory(store)
	cached, err := catalog.NewCached(store, cfg.CarCacheMaxItems)
	if err != nil {
		slog.Error("failed to create catalog cache", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, cached)

	slog.Info("starting car search MCP server", "addr", cfg.ListenAddr, "cars", store.Len())
	if err := srv.ListenAndServe(ctx); err != nil && err != context.Canceled {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
