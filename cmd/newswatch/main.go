package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/pevans/newswatch/config"
	"github.com/pevans/newswatch/cursor"
	"github.com/pevans/newswatch/notify"
	"github.com/pevans/newswatch/render"
	"github.com/pevans/newswatch/scraper"
	"github.com/pevans/newswatch/watch"
)

func main() {
	// A .env file is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	logger := newLogger(cfg.LogLevel)

	// Assemble the pipeline: renderer, scraper, cursor store, notifier
	renderer := render.NewChromeRenderer(render.Options{
		UserAgent:    cfg.UserAgent,
		Headless:     cfg.Headless,
		ScrollDelay:  cfg.ScrollDelay,
		StableRounds: cfg.StableRounds,
		RowSelector:  cfg.Scraper.RowSelector,
	}, logger)

	pageScraper := scraper.NewPageScraper(renderer, cfg.PageURL, cfg.Scraper, logger)

	store := cursor.NewStore(cfg.CursorPath)

	sender := notify.NewClient(cfg.TelegramToken, cfg.TelegramChatID, cfg.SendDelay, logger)

	watcher := watch.New(pageScraper, store, sender, watch.Config{
		Interval:  cfg.Interval,
		Policy:    cfg.Policy,
		ChunkSize: cfg.ChunkSize,
	}, logger)

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	// Start the watcher in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- watcher.Run(ctx)
	}()

	// Wait for signal or error
	select {
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig)
		cancel()
		watcher.Stop()

		// Wait for shutdown with timeout
		shutdownTimer := time.NewTimer(30 * time.Second)
		select {
		case <-errChan:
			logger.Info("watcher stopped")
		case <-shutdownTimer.C:
			logger.Warn("shutdown timeout exceeded, forcing exit")
		}
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal("watcher failed", "error", err)
		}
	}
}

// newLogger builds the process logger. An unknown level falls back to info
// rather than refusing to start.
func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "newswatch",
	})
}
