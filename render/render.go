// Package render loads pages in a headless browser and returns their HTML
// once client-side content has settled. The news listing populates itself
// with JavaScript and loads more rows on scroll, so a plain HTTP GET sees
// none of the articles.
package render

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

// Renderer produces the final HTML of a page.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

const (
	// DefaultScrollDelay is how long to wait after each scroll for the
	// page's loader to fetch and insert the next batch of rows.
	DefaultScrollDelay = 1500 * time.Millisecond

	// DefaultStableRounds is how many consecutive unchanged row counts
	// mean the listing has stopped growing.
	DefaultStableRounds = 3
)

// Options configures a ChromeRenderer.
type Options struct {
	// UserAgent overrides the browser's user agent when non-empty.
	UserAgent string

	// Headless runs the browser without a window. Turning it off is
	// useful when debugging selector changes.
	Headless bool

	// ScrollDelay is the pause after each scroll before recounting rows.
	ScrollDelay time.Duration

	// StableRounds is how many consecutive equal row counts end the
	// scroll loop.
	StableRounds int

	// RowSelector is the CSS selector whose match count measures listing
	// growth.
	RowSelector string
}

// ChromeRenderer loads pages in headless Chrome via the DevTools protocol.
// Each Render call launches a fresh browser and tears it down before
// returning, so no browser processes outlive a polling cycle.
type ChromeRenderer struct {
	opts   Options
	logger *log.Logger
}

// NewChromeRenderer returns a renderer with zero-valued options replaced by
// defaults.
func NewChromeRenderer(opts Options, logger *log.Logger) *ChromeRenderer {
	if opts.ScrollDelay <= 0 {
		opts.ScrollDelay = DefaultScrollDelay
	}

	if opts.StableRounds <= 0 {
		opts.StableRounds = DefaultStableRounds
	}

	if opts.RowSelector == "" {
		opts.RowSelector = "li"
	}

	return &ChromeRenderer{opts: opts, logger: logger}
}

// Render navigates to url, scrolls until the listing stops growing, and
// returns the document's outer HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.opts.Headless),
		chromedp.Flag("disable-gpu", true),
	)

	if r.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(r.opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(r.scrollToEnd),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to load page: %w", err)
	}

	return html, nil
}

// scrollToEnd scrolls the page bottom-ward until the row count holds steady
// for StableRounds consecutive observations. Infinite-scroll listings load
// rows in response to scrolling, so each pass waits ScrollDelay for the
// loader before counting again.
func (r *ChromeRenderer) scrollToEnd(ctx context.Context) error {
	countExpr := fmt.Sprintf("document.querySelectorAll(%s).length", strconv.Quote(r.opts.RowSelector))

	tracker := newPlateau(r.opts.StableRounds)

	for {
		if err := chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil).Do(ctx); err != nil {
			return fmt.Errorf("failed to scroll listing: %w", err)
		}

		if err := chromedp.Sleep(r.opts.ScrollDelay).Do(ctx); err != nil {
			return err
		}

		var count int
		if err := chromedp.Evaluate(countExpr, &count).Do(ctx); err != nil {
			return fmt.Errorf("failed to count listing rows: %w", err)
		}

		if tracker.Observe(count) {
			r.logger.Debug("listing settled", "rows", count)

			return nil
		}
	}
}
