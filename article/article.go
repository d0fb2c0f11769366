package article

import (
	"strings"
	"unicode"
)

const (
	// PostURLBase is the fixed prefix of every article detail page. An
	// article's canonical URL is this base with the numeric id appended.
	PostURLBase = "https://www.binance.com/en/square/post/"

	// TodayLabelFormat is the month-day layout the listing uses for items
	// published earlier today ("08-21"), in the site's local convention.
	TodayLabelFormat = "01-02"

	// relativeMarker appears in every relative-past recency phrase the
	// listing renders ("3 minutes ago", "1 hour ago").
	relativeMarker = "ago"
)

// Article is a single entry scraped from the news listing page.
type Article struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	RecencyLabel string   `json:"recency_label"`
	Tags         []string `json:"tags,omitempty"`
}

// PostURL derives the canonical detail-page URL for an article id.
func PostURL(id string) string {
	return PostURLBase + id
}

// IsRecent reports whether a recency label marks an article as freshly
// published: either a relative-past phrase or today's month-day label.
// Anything else (an older date, or no label at all) is stale.
func IsRecent(label, todayLabel string) bool {
	if strings.Contains(label, relativeMarker) {
		return true
	}
	return label != "" && label == todayLabel
}

// Hashtag normalizes a raw author, topic, or ticker label into a #token
// form. Ticker labels carry a leading currency marker and are uppercased
// with punctuation stripped ("$btc.x" becomes "#BTCX"); plain labels keep
// their case and lose whitespace ("# Bitcoin News" becomes "#BitcoinNews").
// Returns the empty string when nothing usable remains after cleaning.
func Hashtag(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "$") {
		// Ticker symbol: keep letters and digits only, then uppercase
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, s[1:])
		if cleaned == "" {
			return ""
		}
		return "#" + strings.ToUpper(cleaned)
	}

	// Plain tag or author label: drop a leading # before collapsing so the
	// rebuilt token carries exactly one
	s = strings.TrimPrefix(s, "#")
	cleaned := strings.Join(strings.Fields(s), "")
	if cleaned == "" {
		return ""
	}
	return "#" + cleaned
}
