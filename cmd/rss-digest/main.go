package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/autodigest/rss-digest/internal/config"
	"github.com/autodigest/rss-digest/internal/extractor"
	"github.com/autodigest/rss-digest/internal/fetcher"
	"github.com/autodigest/rss-digest/internal/llm"
	"github.com/autodigest/rss-digest/internal/reader"
	"github.com/autodigest/rss-digest/internal/report"
	"github.com/autodigest/rss-digest/internal/runner"
	"github.com/autodigest/rss-digest/internal/subscription"
	"github.com/autodigest/rss-digest/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Load .env if present, for local development.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	client, err := llm.New(cfg.LLM)
	if err != nil {
		logger.Error("failed to build model backend", slog.Any("error", err))
		os.Exit(1)
	}

	svc, err := reader.New(cfg.Reader)
	if err != nil {
		logger.Error("failed to build reader service", slog.Any("error", err))
		os.Exit(1)
	}

	strategies, err := extractor.BuildStrategies(cfg.Extract.Tiers, client, svc, cfg.Extract.MinContentLength)
	if err != nil {
		logger.Error("failed to build extraction tiers", slog.Any("error", err))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		logger.Error("invalid timezone", slog.String("timezone", cfg.Report.Timezone), slog.Any("error", err))
		os.Exit(1)
	}

	r := runner.New(runner.Options{
		LoadFeeds:        func() ([]subscription.Feed, error) { return subscription.Load(cfg.Subscription) },
		Fetcher:          fetcher.NewRSSFetcher(cfg.TimeWindowHours, logger),
		Extractor:        extractor.NewChain(strategies, logger),
		Summarizer:       summarizer.New(client, cfg.LLM.MaxContentLength, logger),
		Renderer:         report.NewRenderer(cfg.Report.FoldFailed, loc),
		Writer:           report.NewFileWriter(cfg.Report.ArchivesDir, cfg.Report.ReadmePath, logger),
		CategoryPriority: cfg.Categories.Priority,
		Workers:          cfg.Workers,
		Logger:           logger,
	})

	// Single-run mode: run the pipeline once and exit
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		logger.Info("running digest (once mode)")
		if err := r.Run(ctx); err != nil {
			logger.Error("pipeline failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("done")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunOnStart {
		logger.Info("running initial digest")
		if err := r.Run(ctx); err != nil {
			logger.Error("initial run failed", slog.Any("error", err))
		}
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		logger.Info("cron triggered, running digest")
		if err := r.Run(ctx); err != nil {
			logger.Error("scheduled run failed", slog.Any("error", err))
		}
	})
	if err != nil {
		logger.Error("failed to set up cron schedule", slog.String("schedule", cfg.Schedule), slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	logger.Info("digest scheduled", slog.String("schedule", cfg.Schedule))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", slog.String("signal", sig.String()))

	cancel()
	c.Stop()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
