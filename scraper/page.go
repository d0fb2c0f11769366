package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pevans/newswatch/article"
	"github.com/pevans/newswatch/render"
)

// PageScraper renders the listing page through a Renderer and extracts the
// article records from the result. It is the production implementation of
// the watch package's Scraper dependency.
type PageScraper struct {
	renderer render.Renderer
	config   Config
	url      string
	logger   *log.Logger
}

// NewPageScraper returns a PageScraper that loads url through renderer and
// extracts records using cfg's selectors.
func NewPageScraper(renderer render.Renderer, url string, cfg Config, logger *log.Logger) *PageScraper {
	return &PageScraper{
		renderer: renderer,
		config:   cfg,
		url:      url,
		logger:   logger,
	}
}

// Scrape renders the listing page and returns the articles currently on it,
// newest first. Rendering and extraction failures are returned to the
// caller; a page with no recognizable rows is not an error.
func (s *PageScraper) Scrape(ctx context.Context) ([]article.Article, error) {
	html, err := s.renderer.Render(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", s.url, err)
	}

	today := time.Now().Format(article.TodayLabelFormat)

	articles, err := Extract(html, s.config, today)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("extracted articles from listing", "count", len(articles), "url", s.url)

	return articles, nil
}
