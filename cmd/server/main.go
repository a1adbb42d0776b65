package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitbot/internal/config"
	"github.com/mmynk/splitbot/internal/discord"
	"github.com/mmynk/splitbot/internal/reminder"
	"github.com/mmynk/splitbot/internal/service"
	"github.com/mmynk/splitbot/internal/storage/sqlite"
	"github.com/mmynk/splitbot/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// The bot is both the inbound command surface and the notifier, so it is
	// created first and handed to the service and scheduler afterwards.
	svc := service.NewExpenseService(store, nil)
	scheduler := reminder.New(store, nil, cfg.PollInterval, cfg.ReminderInterval)

	bot, err := discord.New(cfg.DiscordToken, svc, scheduler)
	if err != nil {
		slog.Error("Failed to create discord bot", "error", err)
		os.Exit(1)
	}
	svc.SetNotifier(bot)
	scheduler.SetNotifier(bot)

	if err := bot.Start(); err != nil {
		slog.Error("Failed to start discord bot", "error", err)
		os.Exit(1)
	}
	defer bot.Stop()

	scheduler.Start()
	defer scheduler.Stop()

	// Health and metrics endpoints
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		slog.Info("HTTP server starting", "address", cfg.HTTPAddr)
		if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
}
