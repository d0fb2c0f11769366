// Package config assembles the watcher's runtime configuration from three
// layers: package defaults, an optional YAML file, and environment
// variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pevans/newswatch/notify"
	"github.com/pevans/newswatch/novelty"
	"github.com/pevans/newswatch/render"
	"github.com/pevans/newswatch/scraper"
	"github.com/pevans/newswatch/watch"
)

const (
	// DefaultPageURL is the listing the watcher polls.
	DefaultPageURL = "https://www.binance.com/en/square/news/all"

	// DefaultUserAgent is a plain desktop browser identity. The listing
	// serves a degraded page to obvious bot agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"
)

// Config is the assembled runtime configuration.
type Config struct {
	TelegramToken  string
	TelegramChatID string
	PageURL        string
	Interval       time.Duration
	Policy         novelty.Policy
	ChunkSize      int
	SendDelay      time.Duration
	ScrollDelay    time.Duration
	StableRounds   int
	UserAgent      string
	CursorPath     string
	Headless       bool
	LogLevel       string
	Scraper        scraper.Config
}

// Load builds the configuration: defaults first, then the optional config
// file, then environment variables. Returns an error when the Telegram
// credentials are missing or a configured value fails validation.
func Load() (Config, error) {
	cfg := Config{
		PageURL:      DefaultPageURL,
		Interval:     watch.DefaultInterval,
		Policy:       novelty.PolicyPrefix,
		ChunkSize:    notify.DefaultChunkSize,
		SendDelay:    notify.DefaultSendDelay,
		ScrollDelay:  render.DefaultScrollDelay,
		StableRounds: render.DefaultStableRounds,
		UserAgent:    DefaultUserAgent,
		CursorPath:   defaultCursorPath(),
		Headless:     true,
		LogLevel:     DefaultLogLevel,
		Scraper:      scraper.DefaultConfig(),
	}

	file, err := loadFile()
	if err != nil {
		return Config{}, err
	}

	if file != nil {
		if err := applyFile(&cfg, file); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if cfg.TelegramChatID == "" {
		return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}

	if !cfg.Policy.Valid() {
		return Config{}, fmt.Errorf("unknown novelty policy %q", cfg.Policy)
	}

	return cfg, nil
}

// defaultCursorPath puts the cursor under the home directory, next to the
// config file. Falls back to the working directory when home is unknown.
func defaultCursorPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".newswatch", "cursor")
	}

	return filepath.Join(homeDir, ".newswatch", "cursor")
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.TelegramToken)
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", cfg.TelegramChatID)
	cfg.PageURL = getEnv("NEWSWATCH_PAGE_URL", cfg.PageURL)
	cfg.Interval = getEnvDuration("NEWSWATCH_INTERVAL", cfg.Interval)
	cfg.Policy = novelty.Policy(getEnv("NEWSWATCH_POLICY", string(cfg.Policy)))
	cfg.ChunkSize = getEnvInt("NEWSWATCH_CHUNK_SIZE", cfg.ChunkSize)
	cfg.SendDelay = getEnvDuration("NEWSWATCH_SEND_DELAY", cfg.SendDelay)
	cfg.ScrollDelay = getEnvDuration("NEWSWATCH_SCROLL_DELAY", cfg.ScrollDelay)
	cfg.StableRounds = getEnvInt("NEWSWATCH_STABLE_ROUNDS", cfg.StableRounds)
	cfg.UserAgent = getEnv("NEWSWATCH_USER_AGENT", cfg.UserAgent)
	cfg.CursorPath = getEnv("NEWSWATCH_CURSOR_PATH", cfg.CursorPath)
	cfg.Headless = getEnvBool("NEWSWATCH_HEADLESS", cfg.Headless)
	cfg.LogLevel = getEnv("NEWSWATCH_LOG_LEVEL", cfg.LogLevel)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration from environment variable or returns default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvInt parses an int from environment variable or returns default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool parses a bool from environment variable or returns default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
