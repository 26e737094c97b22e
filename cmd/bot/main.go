// cmd/bot/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grasfrei/internal/bot"
	"grasfrei/internal/coach"
	"grasfrei/internal/config"
	"grasfrei/internal/server"
	"grasfrei/internal/store"
	"grasfrei/pkg/logger"
)

func main() {
	l := logger.New()
	l.Info("Starting grasfrei bot...")

	cfg, err := config.Load()
	if err != nil {
		l.Fatal("Failed to load config", err)
	}

	if cfg.Telegram.Token == "" {
		l.Fatal("Telegram token is not configured")
	}

	st, err := openStore(cfg, l)
	if err != nil {
		l.Fatal("Failed to open store", err)
	}
	defer st.Close()

	// The coach is optional; without an API key the command is disabled.
	var coachClient *coach.Client
	if cfg.Coach.APIKey != "" {
		coachClient = coach.NewClient(cfg.Coach.APIKey).WithModel(cfg.Coach.Model)
	}

	telegramBot, err := bot.NewTelegramBot(cfg.Telegram.Token, st, coachClient, cfg.Locale, l)
	if err != nil {
		l.Fatal("Failed to create Telegram bot", err)
	}

	l.Info("Starting Telegram bot...")
	if err := telegramBot.Start(context.Background()); err != nil {
		l.Fatal("Failed to start Telegram bot", err)
	}

	httpServer := server.NewServer(cfg.Server.Port, l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("Failed to start HTTP server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down bot...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		l.Error("Error during HTTP server shutdown", err)
	}
	if err := telegramBot.Stop(ctx); err != nil {
		l.Error("Error during bot shutdown", err)
	}

	l.Info("Bot stopped successfully")
}

// openStore picks the configured backend. Postgres connects with retry
// the way shared deployments need; sqlite is the local default.
func openStore(cfg *config.Config, l *logger.Logger) (store.Store, error) {
	if cfg.Store.Driver == "postgres" {
		var st *store.Postgres
		var err error
		maxRetries := 5
		for i := 0; i < maxRetries; i++ {
			st, err = store.NewPostgres(cfg.DB)
			if err == nil {
				return st, nil
			}
			l.Error("Failed to connect to database, retrying...", err)
			time.Sleep(time.Duration(i+1) * time.Second)
		}
		return nil, err
	}
	return store.OpenSQLite(cfg.Store.SQLitePath)
}
