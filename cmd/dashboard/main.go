// Package main provides the entry point for the workspace dashboard server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackicesecure-space/Valtheron/internal/api"
	"github.com/blackicesecure-space/Valtheron/internal/hub"
	"github.com/blackicesecure-space/Valtheron/internal/tailer"
	"github.com/blackicesecure-space/Valtheron/internal/workspace"
	"github.com/blackicesecure-space/Valtheron/pkg/config"
	"github.com/blackicesecure-space/Valtheron/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat == "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	broadcaster := hub.New(cfg.HistoryLimit, log.WithComponent("hub").Logger)
	go broadcaster.Run(ctx)

	watcher := tailer.New(tailer.Options{
		Dir:      cfg.LogDir,
		Debounce: cfg.TailDebounce,
		Backlog:  cfg.TailBacklog,
	}, broadcaster, log.WithComponent("tailer").Logger)

	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error("log watcher failed", "error", err)
			cancel()
		}
	}()

	reader := workspace.NewReader(cfg.WorkspaceDir, log.WithComponent("workspace").Logger)
	server := api.NewServer(cfg, reader, broadcaster, log.WithComponent("api").Logger)

	log.Info("starting workspace dashboard",
		"workspace", cfg.WorkspaceDir,
		"logs", cfg.LogDir,
		"port", cfg.Port,
	)

	if err := server.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
