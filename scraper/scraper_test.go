package scraper

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pevans/newswatch/article"
)

// listingHTML is a trimmed-down rendering of the news listing with the
// structural pieces extraction relies on: css- prefixed row classes, h3
// titles, profile links, detail links carrying the article id, and recency
// labels.
const listingHTML = `<html><body><div id="feed">
<li class="css-1tl5vwr">
  <a href="/en/square/profile/Binance_News">Binance News</a>
  <a href="/en/square/post/21080900001234567890123"><h3>Bitcoin Climbs Past Resistance</h3></a>
  <div class="css-meta">5 minutes ago</div>
  <a href="/en/square/hashtag/BTC">$BTC</a>
</li>
<li class="css-1tl5vwr">
  <a href="/en/square/profile/Binance_News">Binance News</a>
  <a href="/en/square/post/21080900001234567890122"><h3>Ethereum   Upgrade
    Ships On Schedule</h3></a>
  <div class="css-meta">2 hours ago</div>
  <a href="/en/square/hashtag/ETH">$ETH</a>
  <a href="/en/square/hashtag/Ethereum">#Ethereum</a>
</li>
<li class="css-1tl5vwr">
  <a href="/en/square/profile/Binance_News">Binance News</a>
  <a href="/en/square/post/21080900001234567890121"><h3>Exchange Reserves Hit Yearly Low</h3></a>
  <div class="css-meta">08-21</div>
</li>
</div></body></html>`

// TestExtract_FullListing verifies a well-formed listing yields one record
// per row, in document order, with all fields populated
func TestExtract_FullListing(t *testing.T) {
	articles, err := Extract(listingHTML, DefaultConfig(), "08-21")
	require.NoError(t, err)
	require.Len(t, articles, 3)

	assert.Equal(t, "21080900001234567890123", articles[0].ID)
	assert.Equal(t, "Bitcoin Climbs Past Resistance", articles[0].Title)
	assert.Equal(t, article.PostURL("21080900001234567890123"), articles[0].URL)
	assert.Equal(t, "5 minutes ago", articles[0].RecencyLabel)
	assert.Equal(t, []string{"#BinanceNews", "#BTC"}, articles[0].Tags)

	assert.Equal(t, "21080900001234567890122", articles[1].ID)
	assert.Equal(t, "21080900001234567890121", articles[2].ID)
}

// TestExtract_NormalizesTitleWhitespace verifies runs of whitespace inside
// a headline collapse to single spaces
func TestExtract_NormalizesTitleWhitespace(t *testing.T) {
	articles, err := Extract(listingHTML, DefaultConfig(), "08-21")
	require.NoError(t, err)
	require.Len(t, articles, 3)

	assert.Equal(t, "Ethereum Upgrade Ships On Schedule", articles[1].Title)
}

// TestExtract_CollectsTagsInOrder verifies the author tag comes first,
// followed by ticker and topic tags in row order
func TestExtract_CollectsTagsInOrder(t *testing.T) {
	articles, err := Extract(listingHTML, DefaultConfig(), "08-21")
	require.NoError(t, err)
	require.Len(t, articles, 3)

	assert.Equal(t, []string{"#BinanceNews", "#ETH", "#Ethereum"}, articles[1].Tags)
}

// TestExtract_KeepsTodayLabel verifies a row stamped with today's month-day
// label survives the recency filter
func TestExtract_KeepsTodayLabel(t *testing.T) {
	articles, err := Extract(listingHTML, DefaultConfig(), "08-21")
	require.NoError(t, err)
	require.Len(t, articles, 3)

	assert.Equal(t, "08-21", articles[2].RecencyLabel)
}

// TestExtract_SkipsOlderDates verifies rows stamped with an earlier
// month-day label are discarded
func TestExtract_SkipsOlderDates(t *testing.T) {
	html := `<html><body>
<li class="css-abc">
  <a href="/en/square/post/21080900001234567890120"><h3>Stale Story</h3></a>
  <div>08-19</div>
</li>
</body></html>`

	articles, err := Extract(html, DefaultConfig(), "08-21")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

// TestExtract_SkipsRowsWithoutID verifies rows whose anchors carry no
// detail link are discarded rather than emitted half-empty
func TestExtract_SkipsRowsWithoutID(t *testing.T) {
	html := `<html><body>
<li class="css-abc">
  <a href="/en/square/trade/BTC_USDT"><h3>Promoted Trading Pair</h3></a>
  <div>3 minutes ago</div>
</li>
</body></html>`

	articles, err := Extract(html, DefaultConfig(), "08-21")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

// TestExtract_SkipsRowsWithoutTitle verifies rows with a detail link but no
// headline are discarded
func TestExtract_SkipsRowsWithoutTitle(t *testing.T) {
	html := `<html><body>
<li class="css-abc">
  <a href="/en/square/post/21080900001234567890119">read more</a>
  <div>3 minutes ago</div>
</li>
</body></html>`

	articles, err := Extract(html, DefaultConfig(), "08-21")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

// TestExtract_SkipsShortIDs verifies numbers shorter than a real article id
// never pass for one
func TestExtract_SkipsShortIDs(t *testing.T) {
	html := `<html><body>
<li class="css-abc">
  <a href="/en/square/post/12345"><h3>Suspicious Row</h3></a>
  <div>3 minutes ago</div>
</li>
</body></html>`

	articles, err := Extract(html, DefaultConfig(), "08-21")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

// TestExtract_EmptyDocument verifies a document with no rows yields an
// empty slice and no error
func TestExtract_EmptyDocument(t *testing.T) {
	articles, err := Extract("<html><body></body></html>", DefaultConfig(), "08-21")
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

// TestExtract_DeduplicatesTags verifies a tag appearing twice in a row is
// emitted once
func TestExtract_DeduplicatesTags(t *testing.T) {
	html := `<html><body>
<li class="css-abc">
  <a href="/en/square/post/21080900001234567890118"><h3>Doubled Tags</h3></a>
  <div>1 minute ago</div>
  <a href="/en/square/hashtag/BTC">$BTC</a>
  <a href="/en/square/hashtag/BTC">$BTC</a>
</li>
</body></html>`

	articles, err := Extract(html, DefaultConfig(), "08-21")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	assert.Equal(t, []string{"#BTC"}, articles[0].Tags)
}

// stubRenderer returns canned HTML without touching a browser.
type stubRenderer struct {
	html string
	err  error
}

func (r *stubRenderer) Render(ctx context.Context, url string) (string, error) {
	return r.html, r.err
}

// TestPageScraper_Scrape verifies the scraper wires rendering and
// extraction together
func TestPageScraper_Scrape(t *testing.T) {
	html := `<html><body>
<li class="css-abc">
  <a href="/en/square/post/21080900001234567890117"><h3>Fresh Headline</h3></a>
  <div>2 minutes ago</div>
</li>
</body></html>`

	s := NewPageScraper(&stubRenderer{html: html}, "https://example.com/news", DefaultConfig(), log.New(io.Discard))

	articles, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)

	assert.Equal(t, "21080900001234567890117", articles[0].ID)
	assert.Equal(t, "Fresh Headline", articles[0].Title)
}

// TestPageScraper_RenderError verifies rendering failures surface to the
// caller
func TestPageScraper_RenderError(t *testing.T) {
	s := NewPageScraper(&stubRenderer{err: errors.New("browser crashed")}, "https://example.com/news", DefaultConfig(), log.New(io.Discard))

	_, err := s.Scrape(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render")
}
