package notify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pevans/newswatch/article"
)

func testArticle(id, title string, tags ...string) article.Article {
	return article.Article{
		ID:    id,
		Title: title,
		URL:   article.PostURL(id),
		Tags:  tags,
	}
}

// TestFormatArticle_WithTags verifies the single-article message carries a
// bold title, the tag line, and the link
func TestFormatArticle_WithTags(t *testing.T) {
	a := testArticle("21080900001234567890123", "Bitcoin Climbs Past Resistance", "#BinanceNews", "#BTC")

	msg := FormatArticle(a)

	assert.Equal(t, "*Bitcoin Climbs Past Resistance*\n#BinanceNews #BTC\nhttps://www.binance.com/en/square/post/21080900001234567890123", msg)
}

// TestFormatArticle_NoTags verifies the tag line disappears when the
// article has no tags
func TestFormatArticle_NoTags(t *testing.T) {
	a := testArticle("21080900001234567890124", "Quiet Market Day")

	msg := FormatArticle(a)

	assert.Equal(t, "*Quiet Market Day*\nhttps://www.binance.com/en/square/post/21080900001234567890124", msg)
}

// TestFormatBatch_SingleChunk verifies a small batch becomes one numbered
// digest message
func TestFormatBatch_SingleChunk(t *testing.T) {
	articles := []article.Article{
		testArticle("101", "First Story"),
		testArticle("102", "Second Story"),
		testArticle("103", "Third Story"),
	}

	messages := FormatBatch(articles, 20)
	require.Len(t, messages, 1)

	assert.Equal(t,
		"1. *First Story*\nhttps://www.binance.com/en/square/post/101\n\n"+
			"2. *Second Story*\nhttps://www.binance.com/en/square/post/102\n\n"+
			"3. *Third Story*\nhttps://www.binance.com/en/square/post/103",
		messages[0])
}

// TestFormatBatch_EntriesCarryTags verifies digest entries keep the tag
// line of the single-article layout
func TestFormatBatch_EntriesCarryTags(t *testing.T) {
	articles := []article.Article{
		testArticle("101", "Tagged Story", "#BinanceNews", "#BTC"),
	}

	messages := FormatBatch(articles, 20)
	require.Len(t, messages, 1)

	assert.Equal(t,
		"1. *Tagged Story*\n#BinanceNews #BTC\nhttps://www.binance.com/en/square/post/101",
		messages[0])
}

// TestFormatBatch_NumberingContinuesAcrossChunks verifies a batch larger
// than one chunk keeps a single running count across messages
func TestFormatBatch_NumberingContinuesAcrossChunks(t *testing.T) {
	var articles []article.Article

	for i := 1; i <= 45; i++ {
		articles = append(articles, testArticle(fmt.Sprint(i), fmt.Sprintf("Story %d", i)))
	}

	messages := FormatBatch(articles, 20)
	require.Len(t, messages, 3)

	assert.True(t, strings.HasPrefix(messages[0], "1. "))
	assert.True(t, strings.HasPrefix(messages[1], "21. "))
	assert.True(t, strings.HasPrefix(messages[2], "41. "))

	assert.Equal(t, 20, strings.Count(messages[0], "\n\n")+1)
	assert.Equal(t, 20, strings.Count(messages[1], "\n\n")+1)
	assert.Equal(t, 5, strings.Count(messages[2], "\n\n")+1)
}

// TestFormatBatch_DefaultChunkSize verifies a zero chunk size falls back to
// DefaultChunkSize
func TestFormatBatch_DefaultChunkSize(t *testing.T) {
	var articles []article.Article

	for i := 1; i <= 25; i++ {
		articles = append(articles, testArticle(fmt.Sprint(i), fmt.Sprintf("Story %d", i)))
	}

	messages := FormatBatch(articles, 0)

	assert.Len(t, messages, 2)
}

// TestFormatBatch_Empty verifies an empty batch produces no messages
func TestFormatBatch_Empty(t *testing.T) {
	assert.Nil(t, FormatBatch(nil, 20))
}
