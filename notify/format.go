// Package notify delivers article notifications to a Telegram chat.
package notify

import (
	"fmt"
	"strings"

	"github.com/pevans/newswatch/article"
)

// DefaultChunkSize is how many articles a single digest message holds
// before the batch is split. Telegram caps message length, and twenty
// titles with links stays comfortably under it.
const DefaultChunkSize = 20

// FormatArticle renders one article as a Markdown message: bold title, a
// tag line when the article has tags, and the link.
func FormatArticle(a article.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", a.Title)

	if len(a.Tags) > 0 {
		b.WriteString(strings.Join(a.Tags, " "))
		b.WriteByte('\n')
	}

	b.WriteString(a.URL)

	return b.String()
}

// FormatBatch renders articles as a numbered Markdown digest, split into
// messages of at most chunkSize entries. Each entry is the single-article
// layout behind its number, and numbering continues across chunks so the
// digest reads as one list. A chunkSize of zero or less means
// DefaultChunkSize.
func FormatBatch(articles []article.Article, chunkSize int) []string {
	if len(articles) == 0 {
		return nil
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var messages []string

	for start := 0; start < len(articles); start += chunkSize {
		end := min(start+chunkSize, len(articles))

		entries := make([]string, 0, end-start)

		for i, a := range articles[start:end] {
			entries = append(entries, fmt.Sprintf("%d. %s", start+i+1, FormatArticle(a)))
		}

		messages = append(messages, strings.Join(entries, "\n\n"))
	}

	return messages
}
