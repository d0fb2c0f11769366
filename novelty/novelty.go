// Package novelty decides which freshly scraped articles have not been
// delivered yet, by comparing the scrape against the saved cursor.
package novelty

import "github.com/pevans/newswatch/article"

// Policy selects how the cursor is compared against a scrape.
type Policy string

const (
	// PolicyLatest looks only at the newest article: if its id differs
	// from the cursor, that one article is fresh. Cheap, but silently
	// skips anything published between polls.
	PolicyLatest Policy = "latest"

	// PolicyPrefix treats every article ahead of the cursor's position
	// in the scrape as fresh, so multiple articles published between
	// polls are all delivered.
	PolicyPrefix Policy = "prefix"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	switch p {
	case PolicyLatest, PolicyPrefix:
		return true
	}

	return false
}

// Detect returns the articles in records that are newer than the cursor,
// ordered oldest first so they can be delivered in publication order.
// Records are expected newest first, as scraped. A cursor that appears
// nowhere in records marks everything fresh; an unknown policy falls back
// to PolicyPrefix. Returns nil when nothing is fresh.
func Detect(records []article.Article, cursor string, policy Policy) []article.Article {
	if len(records) == 0 {
		return nil
	}

	if policy == PolicyLatest {
		if records[0].ID == cursor {
			return nil
		}

		return []article.Article{records[0]}
	}

	cut := len(records)

	for i, a := range records {
		if a.ID == cursor {
			cut = i
			break
		}
	}

	if cut == 0 {
		return nil
	}

	return reverse(records[:cut])
}

// reverse copies in into a new slice in reverse order, leaving the scrape
// untouched.
func reverse(in []article.Article) []article.Article {
	out := make([]article.Article, len(in))

	for i, a := range in {
		out[len(in)-1-i] = a
	}

	return out
}
