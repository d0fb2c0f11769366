// Package scraper extracts article records from the rendered HTML of the
// news listing page. It is deliberately ignorant of how the HTML was
// produced; rendering lives in the render package so that extraction can be
// tested against plain fixture documents.
package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/newswatch/article"
)

// recencyPattern matches the recency labels the listing renders: relative
// phrases like "5 minutes ago" as well as the month-day stamp ("08-21")
// used for posts from earlier in the day.
var recencyPattern = regexp.MustCompile(`\d+\s*(?:second|minute|hour)s?\s*ago|\d{2}-\d{2}`)

// idPattern matches the long numeric article id embedded in detail links.
// Real ids are snowflake-style and never shorter than 18 digits, which
// keeps shorter numbers elsewhere in the href from matching.
var idPattern = regexp.MustCompile(`\d{18,}`)

// Extract parses a rendered listing document and returns the article
// records found in it, preserving document order (newest first on the live
// site). Rows that lack an id or a title, or whose recency label shows they
// are older than today, are skipped. An empty document yields an empty
// slice, not an error.
func Extract(html string, cfg Config, todayLabel string) ([]article.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	articles := []article.Article{}

	doc.Find(cfg.RowSelector).Each(func(_ int, row *goquery.Selection) {
		a, ok := extractRow(row, cfg, todayLabel)
		if !ok {
			return
		}

		articles = append(articles, a)
	})

	return articles, nil
}

// extractRow pulls a single article out of a listing row. The second return
// value is false when the row should be discarded.
func extractRow(row *goquery.Selection, cfg Config, todayLabel string) (article.Article, bool) {
	id := extractID(row, cfg.LinkPrefix)
	if id == "" {
		return article.Article{}, false
	}

	title := strings.Join(strings.Fields(row.Find(cfg.TitleSelector).First().Text()), " ")
	if title == "" {
		return article.Article{}, false
	}

	recency := recencyPattern.FindString(row.Text())
	if !article.IsRecent(recency, todayLabel) {
		return article.Article{}, false
	}

	return article.Article{
		ID:           id,
		Title:        title,
		URL:          article.PostURL(id),
		RecencyLabel: recency,
		Tags:         extractTags(row, cfg),
	}, true
}

// extractID finds the article id in the first anchor of the row whose href
// contains the detail-link prefix. Returns "" when no such anchor exists or
// the href carries no id.
func extractID(row *goquery.Selection, linkPrefix string) string {
	var id string

	row.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !strings.Contains(href, linkPrefix) {
			return true
		}

		id = idPattern.FindString(href)

		return false
	})

	return id
}

// extractTags collects the hashtags for a row: the author name, when the
// row has one, followed by any ticker ($BTC) or topic (#Bitcoin) links in
// the order they appear. Duplicates are dropped.
func extractTags(row *goquery.Selection, cfg Config) []string {
	var tags []string

	seen := map[string]bool{}

	add := func(raw string) {
		tag := article.Hashtag(raw)
		if tag == "" || seen[tag] {
			return
		}

		seen[tag] = true
		tags = append(tags, tag)
	}

	if author := strings.TrimSpace(row.Find(cfg.AuthorSelector).First().Text()); author != "" {
		add(author)
	}

	row.Find("a").Each(func(_ int, link *goquery.Selection) {
		text := strings.TrimSpace(link.Text())
		if strings.HasPrefix(text, "#") || strings.HasPrefix(text, "$") {
			add(text)
		}
	})

	return tags
}
