// Package pagedump renders a fetched page for the diagnostic log.
package pagedump

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// Supported formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatOff      = "off"
)

// Dumper writes the rendered page to the log in one of the supported
// formats. The markdown converter is built once and is goroutine-safe.
type Dumper struct {
	format      string
	mdConverter *converter.Converter
}

// New creates a Dumper. An unknown format behaves like FormatHTML.
func New(format string) *Dumper {
	d := &Dumper{format: format}
	switch format {
	case FormatHTML, FormatMarkdown, FormatText, FormatOff:
	default:
		d.format = FormatHTML
	}
	if d.format == FormatMarkdown {
		d.mdConverter = newMarkdownConverter()
	}
	return d
}

// Format returns the effective format.
func (d *Dumper) Format() string { return d.format }

// Render converts rawHTML to the configured format. FormatOff yields "".
func (d *Dumper) Render(rawHTML, sourceURL string) (string, error) {
	switch d.format {
	case FormatOff:
		return "", nil
	case FormatMarkdown:
		md, err := toMarkdown(d.mdConverter, rawHTML, sourceURL)
		if err != nil {
			return "", fmt.Errorf("pagedump: markdown: %w", err)
		}
		return md, nil
	case FormatText:
		return toText(rawHTML, sourceURL), nil
	default:
		return rawHTML, nil
	}
}

// Log renders the page and writes it at info level. Rendering failures
// fall back to the raw markup; the dump never fails a scrape.
func (d *Dumper) Log(ctx context.Context, rawHTML, sourceURL string) {
	if d.format == FormatOff {
		return
	}
	content, err := d.Render(rawHTML, sourceURL)
	format := d.format
	if err != nil {
		slog.WarnContext(ctx, "page dump render failed, logging raw HTML", "error", err)
		content, format = rawHTML, FormatHTML
	}
	slog.InfoContext(ctx, "page content",
		"url", sourceURL,
		"format", format,
		"bytes", len(rawHTML),
		"content", content,
	)
}
