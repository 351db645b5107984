package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/lineupcoach/internal/api/espn"
	"github.com/omarshaarawi/lineupcoach/internal/api/fantasy"
	"github.com/omarshaarawi/lineupcoach/internal/api/fantasypros"
	"github.com/omarshaarawi/lineupcoach/internal/bot"
	"github.com/omarshaarawi/lineupcoach/internal/config"
	"github.com/omarshaarawi/lineupcoach/internal/perflog"
	"github.com/omarshaarawi/lineupcoach/internal/projection"
	"github.com/omarshaarawi/lineupcoach/internal/repository/memory"
	"github.com/omarshaarawi/lineupcoach/internal/scheduler"
	"github.com/omarshaarawi/lineupcoach/internal/server"
	"github.com/omarshaarawi/lineupcoach/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	setupLogger(cfg.Log)

	espnClient := espn.NewClient(cfg.ESPNAPI)
	espnAPI := espn.NewAPI(espnClient)
	fantasyAPI := fantasy.NewAPI(espnAPI, cfg.ESPNAPI.TeamID)

	repo := memory.NewRepository(cfg.Projections.CacheTTL)
	scraper := fantasypros.NewScraper(cfg.Projections.FantasyProsURL, repo)
	resolver := projection.NewResolver(projection.PlayerRecords{}, scraper, projection.NewMatcher(cfg.Projections.NameMatch))

	fantasyService := service.NewFantasyService(fantasyAPI, repo, resolver, perflog.New(cfg.Lineup.PerformanceLog), service.Options{
		Mode:            cfg.Projections.Mode,
		Slots:           cfg.Lineup.Slots,
		WaiverThreshold: cfg.Lineup.WaiverThreshold,
	})
	slog.Info("Lineup coach configured",
		"team_id", cfg.ESPNAPI.TeamID,
		"mode", cfg.Projections.Mode,
		"name_match", cfg.Projections.NameMatch,
		"performance_log", cfg.Lineup.PerformanceLog,
	)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, fantasyService)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(fantasyService, telegramBot.SendMessage, cfg.Lineup.ReportCron, cfg.Lineup.Timezone)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	httpServer := server.New(cfg.Server.Addr, fantasyService)
	go func() {
		if err := httpServer.Start(); err != nil {
			slog.Error("Error running HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}

	return nil
}

func setupLogger(cfg config.Log) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
