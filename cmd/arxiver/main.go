package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arxiver/arxiver/internal/arxiv"
	"github.com/arxiver/arxiver/internal/bot"
	"github.com/arxiver/arxiver/internal/config"
	"github.com/arxiver/arxiver/internal/discord"
	"github.com/arxiver/arxiver/internal/subs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	// Subscription store: in-memory unless a database path is configured.
	var store subs.Store
	if cfg.Subscriptions.DBPath != "" {
		sqlStore, err := subs.NewSQLiteStore(cfg.Subscriptions.DBPath)
		if err != nil {
			return fmt.Errorf("open subscription store: %w", err)
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info("using sqlite subscription store", "path", cfg.Subscriptions.DBPath)
	} else {
		store = subs.NewMemoryStore()
	}

	papers := arxiv.NewClient(cfg.Arxiv.BaseURL, cfg.Arxiv.UserAgent, cfg.Arxiv.Timeout)
	chat := discord.NewClient(cfg.Discord.APIBase, cfg.Discord.Token)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A bad token is the one fatal condition; verify before starting loops.
	me, err := chat.Me(ctx)
	if err != nil {
		return fmt.Errorf("discord authentication: %w", err)
	}
	logger.Info("authenticated", "user", me.Username, "id", me.ID)

	service := bot.NewService(chat, papers, store, logger)
	gateway := discord.NewGateway(chat, cfg.Discord.Token, cfg.Discord.Presence, service, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := gateway.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("gateway exited with error", "error", err)
		}
	}()

	go service.StartNotifier(ctx, gateway.Ready(), gateway.Done(), cfg.Subscriptions.ScanInterval)
	go service.StartPulse(ctx, gateway.Done(), cfg.PulseInterval)

	logger.Info("bot started", "scan_interval", cfg.Subscriptions.ScanInterval)

	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()

	return nil
}
