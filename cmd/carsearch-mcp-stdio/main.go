package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/carsearch-mcp/internal/bridge"
	"github.com/usestring/carsearch-mcp/internal/catalog"
	"github.com/usestring/carsearch-mcp/internal/config"
	"github.com/usestring/carsearch-mcp/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	// stdout carries the MCP stream, so logs must go to stderr or a file.
	cleanup, err := logging.Setup(cfg)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	store := catalog.NewMemStore()
	catalog.SeedInventory(store)
	cached, err := catalog.NewCached(store, cfg.CarCacheMaxItems)
	if err != nil {
		slog.Error("failed to create catalog cache", "error", err)
		os.Exit(1)
	}

	slog.Info("starting car search MCP bridge on stdio")
	if err := bridge.Run(ctx, cached, cfg); err != nil && err != context.Canceled {
		slog.Error("bridge error", "error", err)
		os.Exit(1)
	}

	slog.Info("bridge stopped")
}
