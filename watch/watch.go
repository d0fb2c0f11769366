// Package watch runs the polling loop that ties the pipeline together:
// scrape the listing, detect what is new, deliver it, advance the cursor.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/pevans/newswatch/article"
	"github.com/pevans/newswatch/cursor"
	"github.com/pevans/newswatch/notify"
	"github.com/pevans/newswatch/novelty"
)

// Scraper produces the articles currently on the listing page, newest
// first.
type Scraper interface {
	Scrape(ctx context.Context) ([]article.Article, error)
}

// Sender delivers rendered messages to the chat.
type Sender interface {
	Deliver(ctx context.Context, messages []string)
}

// DefaultInterval is the polling period.
const DefaultInterval = 15 * time.Minute

// Config tunes the watcher loop.
type Config struct {
	// Interval is how often the listing is polled after startup.
	Interval time.Duration

	// Policy selects how novelty is detected against the cursor.
	Policy novelty.Policy

	// ChunkSize is how many articles the startup digest packs per
	// message.
	ChunkSize int
}

// Watcher polls the listing on a fixed interval and notifies the chat
// about new articles.
type Watcher struct {
	scraper  Scraper
	store    *cursor.Store
	sender   Sender
	config   Config
	logger   *log.Logger
	stopChan chan struct{}
}

// New returns a Watcher. Zero-valued config fields pick up the package
// defaults.
func New(scraper Scraper, store *cursor.Store, sender Sender, config Config, logger *log.Logger) *Watcher {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}

	if config.Policy == "" {
		config.Policy = novelty.PolicyPrefix
	}

	if config.ChunkSize <= 0 {
		config.ChunkSize = notify.DefaultChunkSize
	}

	return &Watcher{
		scraper:  scraper,
		store:    store,
		sender:   sender,
		config:   config,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Run performs the startup cycle, then polls on the configured interval
// until ctx is cancelled or Stop is called. Cycles never overlap: when one
// is still running as the next tick fires, that tick is skipped.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("starting watcher",
		"interval", w.config.Interval,
		"policy", w.config.Policy,
	)

	w.runCycle(ctx, "startup", w.startupCycle)

	sched := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(w.logger.StandardLog())),
	))

	_, err := sched.AddFunc(fmt.Sprintf("@every %s", w.config.Interval), func() {
		w.runCycle(ctx, "poll", w.pollCycle)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule polling: %w", err)
	}

	sched.Start()

	select {
	case <-ctx.Done():
	case <-w.stopChan:
	}

	// Let an in-flight cycle finish before returning.
	<-sched.Stop().Done()

	w.logger.Info("watcher stopped")

	return ctx.Err()
}

// Stop ends the loop started by Run. Call it once.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

// runCycle executes one cycle with panic recovery and a correlation id on
// every log line, so interleaved output from long cycles stays readable. A
// failed cycle is logged and dropped; the next tick starts clean.
func (w *Watcher) runCycle(ctx context.Context, kind string, cycle func(context.Context, *log.Logger) error) {
	logger := w.logger.With("cycle", kind, "cycle_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			logger.Error("cycle panicked", "panic", r)
		}
	}()

	start := time.Now()

	if err := cycle(ctx, logger); err != nil {
		logger.Error("cycle failed", "error", err)
		return
	}

	logger.Debug("cycle finished", "elapsed", time.Since(start))
}

// startupCycle delivers everything currently on the listing as one numbered
// digest and seeds the cursor with the newest article.
func (w *Watcher) startupCycle(ctx context.Context, logger *log.Logger) error {
	records, err := w.scraper.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("failed to scrape listing: %w", err)
	}

	if len(records) == 0 {
		logger.Info("listing empty, nothing to deliver")
		return nil
	}

	w.sender.Deliver(ctx, notify.FormatBatch(records, w.config.ChunkSize))

	if err := w.store.Save(records[0].ID); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}

	logger.Info("delivered startup digest",
		"articles", len(records),
		"cursor", records[0].ID,
	)

	return nil
}

// pollCycle delivers the articles that appeared since the last cycle, then
// advances the cursor. The cursor moves even when individual sends fail, so
// a flaky chat cannot make the watcher repeat itself forever.
func (w *Watcher) pollCycle(ctx context.Context, logger *log.Logger) error {
	cur, err := w.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load cursor: %w", err)
	}

	records, err := w.scraper.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("failed to scrape listing: %w", err)
	}

	if len(records) == 0 {
		logger.Info("listing empty, cursor unchanged")
		return nil
	}

	fresh := novelty.Detect(records, cur, w.config.Policy)
	if len(fresh) == 0 {
		logger.Debug("no new articles", "cursor", cur)
		return nil
	}

	messages := make([]string, 0, len(fresh))

	for _, a := range fresh {
		messages = append(messages, notify.FormatArticle(a))
	}

	w.sender.Deliver(ctx, messages)

	newest := fresh[len(fresh)-1].ID

	if err := w.store.Save(newest); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}

	logger.Info("delivered new articles", "count", len(fresh), "cursor", newest)

	return nil
}
