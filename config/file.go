package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pevans/newswatch/novelty"
	"github.com/pevans/newswatch/scraper"
)

// fileConfig represents the structure of ~/.newswatch/config.yaml.
// Durations are strings in time.ParseDuration syntax ("15m", "1.5s").
type fileConfig struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID string `yaml:"chat_id"`
	} `yaml:"telegram"`
	PageURL      string          `yaml:"page_url"`
	Interval     string          `yaml:"interval"`
	Policy       string          `yaml:"policy"`
	ChunkSize    int             `yaml:"chunk_size"`
	SendDelay    string          `yaml:"send_delay"`
	ScrollDelay  string          `yaml:"scroll_delay"`
	StableRounds int             `yaml:"stable_rounds"`
	UserAgent    string          `yaml:"user_agent"`
	CursorPath   string          `yaml:"cursor_path"`
	Headless     *bool           `yaml:"headless"`
	LogLevel     string          `yaml:"log_level"`
	Scraper      *scraper.Config `yaml:"scraper"`
}

// loadFile loads the optional config file from ~/.newswatch/config.yaml,
// or from the path in NEWSWATCH_CONFIG when set. Returns nil if the file
// doesn't exist (not an error). Returns error if the file exists but
// cannot be parsed.
func loadFile() (*fileConfig, error) {
	configPath := os.Getenv("NEWSWATCH_CONFIG")
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}

		configPath = filepath.Join(homeDir, ".newswatch", "config.yaml")
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// applyFile overlays the file's values onto cfg. Unset fields keep their
// current values; malformed durations are an error rather than a silent
// fallback, since an explicit file is intentional.
func applyFile(cfg *Config, file *fileConfig) error {
	if file.Telegram.Token != "" {
		cfg.TelegramToken = file.Telegram.Token
	}

	if file.Telegram.ChatID != "" {
		cfg.TelegramChatID = file.Telegram.ChatID
	}

	if file.PageURL != "" {
		cfg.PageURL = file.PageURL
	}

	if file.Policy != "" {
		cfg.Policy = novelty.Policy(file.Policy)
	}

	if file.ChunkSize > 0 {
		cfg.ChunkSize = file.ChunkSize
	}

	if file.StableRounds > 0 {
		cfg.StableRounds = file.StableRounds
	}

	if file.UserAgent != "" {
		cfg.UserAgent = file.UserAgent
	}

	if file.CursorPath != "" {
		cfg.CursorPath = file.CursorPath
	}

	if file.Headless != nil {
		cfg.Headless = *file.Headless
	}

	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}

	if err := applyFileDuration(&cfg.Interval, file.Interval, "interval"); err != nil {
		return err
	}

	if err := applyFileDuration(&cfg.SendDelay, file.SendDelay, "send_delay"); err != nil {
		return err
	}

	if err := applyFileDuration(&cfg.ScrollDelay, file.ScrollDelay, "scroll_delay"); err != nil {
		return err
	}

	if file.Scraper != nil {
		applyFileScraper(&cfg.Scraper, file.Scraper)
	}

	return nil
}

// applyFileDuration parses value into dst when value is set.
func applyFileDuration(dst *time.Duration, value, name string) error {
	if value == "" {
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s in config file: %w", name, err)
	}

	*dst = d

	return nil
}

// applyFileScraper overlays non-empty selectors onto dst.
func applyFileScraper(dst *scraper.Config, src *scraper.Config) {
	if src.RowSelector != "" {
		dst.RowSelector = src.RowSelector
	}

	if src.TitleSelector != "" {
		dst.TitleSelector = src.TitleSelector
	}

	if src.AuthorSelector != "" {
		dst.AuthorSelector = src.AuthorSelector
	}

	if src.LinkPrefix != "" {
		dst.LinkPrefix = src.LinkPrefix
	}
}
