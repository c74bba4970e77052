package pagedump

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// toText returns the readable text of rawHTML. When readability cannot
// find a main content block (typical for listing pages) it falls back to
// the whole document's text.
func toText(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err == nil {
		article, rErr := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
		if rErr == nil && strings.TrimSpace(article.TextContent) != "" {
			return strings.TrimSpace(article.TextContent)
		}
		if rErr != nil {
			slog.Debug("readability failed, using document text", "url", sourceURL, "error", rErr)
		}
	}
	return documentText(rawHTML)
}

// documentText is the whitespace-collapsed text of the body.
func documentText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}
