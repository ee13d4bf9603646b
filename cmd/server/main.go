package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"curtail/internal/bot"
	"curtail/internal/cache"
	"curtail/internal/config"
	"curtail/internal/database"
	"curtail/internal/service"
)

var logLevel = new(slog.LevelVar)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("curtail stopped with error", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "curtail",
		Short:         "URL shortener",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd())
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the Telegram bot when a token is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cmd.Context(), cfg.DBURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			return db.Close()
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	level, _ := cfg.Level()
	logLevel.Set(level)

	return cfg, nil
}

func serve(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.Info("Starting curtail service...", "listen_on", cfg.ListenOn)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	var opts []service.Option
	if cfg.RedisAddr != "" {
		cacheDB, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cacheDB.Close()
		opts = append(opts, service.WithCache(cacheDB))
	}

	shortener := service.NewShortener(db, opts...)

	server := service.NewServer(cfg.ListenOn, cfg.BaseURL, shortener)
	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start(ctx) }()

	botErr := make(chan error, 1)
	if cfg.TelegramToken != "" {
		tgBot, err := bot.NewTelegramBot(cfg.TelegramToken, cfg.BaseURL, shortener)
		if err != nil {
			return fmt.Errorf("initialize bot: %w", err)
		}
		go func() { botErr <- tgBot.Start(ctx) }()
	}

	slog.Info("Service is up and running!")

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
		<-serverErr
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case err := <-botErr:
		if err != nil {
			return fmt.Errorf("bot stopped: %w", err)
		}
	}

	slog.Info("Shutting down gracefully...")
	return nil
}
