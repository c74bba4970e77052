// Package extractor turns rendered search-result markup into job listings.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/models"
)

// Extractor holds the compiled card and field selectors. It is stateless
// after construction and safe for concurrent use.
type Extractor struct {
	card       cascadia.Selector
	title      cascadia.Selector
	company    cascadia.Selector
	location   cascadia.Selector
	experience cascadia.Selector
}

// New compiles every selector in cfg. An invalid selector is returned as an
// error so it surfaces at startup instead of on the first scrape.
func New(cfg config.ExtractorConfig) (*Extractor, error) {
	e := &Extractor{}
	for _, s := range []struct {
		name string
		expr string
		dst  *cascadia.Selector
	}{
		{"card", cfg.CardSelector, &e.card},
		{"title", cfg.TitleSelector, &e.title},
		{"company", cfg.CompanySelector, &e.company},
		{"location", cfg.LocationSelector, &e.location},
		{"experience", cfg.ExperienceSelector, &e.experience},
	} {
		sel, err := cascadia.Compile(s.expr)
		if err != nil {
			return nil, fmt.Errorf("extractor: invalid %s selector %q: %w", s.name, s.expr, err)
		}
		*s.dst = sel
	}
	return e, nil
}

// Extract parses html and returns one listing per card, in document order.
// Missing text fields become models.NotAvailable; a missing title anchor or
// href leaves Link nil. Cards are never filtered or deduplicated.
func (e *Extractor) Extract(html string) ([]models.JobListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeParse, "failed to parse page HTML", err)
	}

	cards := doc.FindMatcher(e.card)
	jobs := make([]models.JobListing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		jobs = append(jobs, e.listing(card))
	})
	return jobs, nil
}

func (e *Extractor) listing(card *goquery.Selection) models.JobListing {
	titleSel := card.FindMatcher(e.title).First()

	job := models.JobListing{
		Title:      textOrSentinel(titleSel),
		Company:    textOrSentinel(card.FindMatcher(e.company).First()),
		Location:   textOrSentinel(card.FindMatcher(e.location).First()),
		Experience: textOrSentinel(card.FindMatcher(e.experience).First()),
	}
	if href, ok := titleSel.Attr("href"); ok {
		job.Link = &href
	}
	return job
}

// textOrSentinel returns the trimmed text of sel, or the sentinel when sel
// matched nothing. A matched element with blank text yields "".
func textOrSentinel(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return models.NotAvailable
	}
	return strings.TrimSpace(sel.Text())
}
