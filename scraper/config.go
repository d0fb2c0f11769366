package scraper

// Config defines how to locate article rows on the listing page and pull
// fields out of them. The selectors are the only site-specific piece of the
// pipeline; everything downstream works on extracted records.
type Config struct {
	// RowSelector matches one listing row per article.
	RowSelector string `yaml:"row_selector" json:"row_selector"`
	// TitleSelector matches the headline element inside a row.
	TitleSelector string `yaml:"title_selector" json:"title_selector"`
	// AuthorSelector matches the author link inside a row, when present.
	AuthorSelector string `yaml:"author_selector" json:"author_selector"`
	// LinkPrefix identifies the article detail link among a row's anchors;
	// the first anchor whose href contains it carries the article id.
	LinkPrefix string `yaml:"link_prefix" json:"link_prefix"`
}

// DefaultConfig returns the selector set for the Binance Square news
// listing. The row classes are emotion-generated, so the selector keys on
// the stable css- prefix rather than a full class name.
func DefaultConfig() Config {
	return Config{
		RowSelector:    `li[class^="css-"]`,
		TitleSelector:  "h3",
		AuthorSelector: `a[href*="/square/profile/"]`,
		LinkPrefix:     "/en/square/post/",
	}
}
