package pagedump

import (
	"net/url"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// newMarkdownConverter drops script/style/head noise and keeps tables.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// toMarkdown converts htmlContent, resolving relative links against the
// host of sourceURL.
func toMarkdown(conv *converter.Converter, htmlContent, sourceURL string) (string, error) {
	domain := ""
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		domain = u.Scheme + "://" + u.Host
	}
	return conv.ConvertString(htmlContent, converter.WithDomain(domain))
}
