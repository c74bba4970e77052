// Package pipeline runs one scrape: build URL, fetch, dump, detect, extract.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/use-agent/jobscrape/detect"
	"github.com/use-agent/jobscrape/engine"
	"github.com/use-agent/jobscrape/extractor"
	"github.com/use-agent/jobscrape/models"
	"github.com/use-agent/jobscrape/pagedump"
	"github.com/use-agent/jobscrape/scraper"
)

// Pipeline is stateless apart from its collaborators and is safe for
// concurrent use.
type Pipeline struct {
	baseURL   string
	engine    engine.Engine
	detector  *detect.Detector
	extractor *extractor.Extractor
	dumper    *pagedump.Dumper
}

// New wires a Pipeline. baseURL is the site root keywords are appended to.
func New(baseURL string, eng engine.Engine, det *detect.Detector, ext *extractor.Extractor, dumper *pagedump.Dumper) *Pipeline {
	if dumper == nil {
		dumper = pagedump.New(pagedump.FormatOff)
	}
	return &Pipeline{
		baseURL:   baseURL,
		engine:    eng,
		detector:  det,
		extractor: ext,
		dumper:    dumper,
	}
}

// ScrapeJobs fetches the search page for keyword and extracts its listings.
//
// On success the slice is non-empty. Every failure is a *models.ScrapeError:
// BLOCKED when a challenge marker is present (cards and status are
// ignored), NAVIGATION_FAILED for an unmarked 4xx or 5xx page, NO_JOBS
// when no card matched, and a transport code when the fetch itself failed.
func (p *Pipeline) ScrapeJobs(ctx context.Context, keyword string) ([]models.JobListing, error) {
	target := scraper.TargetURL(p.baseURL, keyword)
	start := time.Now()
	slog.InfoContext(ctx, "scrape started", "keyword", keyword, "url", target, "engine", p.engine.Name())

	res, err := p.engine.Fetch(ctx, &engine.FetchRequest{URL: target})
	if err != nil {
		se := classifyFetchError(err)
		slog.ErrorContext(ctx, "scrape fetch failed", "keyword", keyword, "url", target, "code", se.Code, "error", err)
		return nil, se
	}

	p.dumper.Log(ctx, res.HTML, res.FinalURL)

	if marker := p.detector.Check(res.HTML); marker != "" {
		slog.WarnContext(ctx, "challenge page detected", "keyword", keyword, "url", res.FinalURL, "marker", marker)
		return nil, models.NewScrapeError(models.ErrCodeBlocked, "challenge page detected (marker "+marker+")", nil)
	}

	// Block markers win over the status: a captcha is often served as 403.
	if res.StatusCode >= http.StatusBadRequest {
		slog.WarnContext(ctx, "search page error status", "keyword", keyword, "url", res.FinalURL, "status", res.StatusCode)
		return nil, models.NewScrapeError(models.ErrCodeNavigation,
			fmt.Sprintf("search page returned status %d", res.StatusCode), nil)
	}

	jobs, err := p.extractor.Extract(res.HTML)
	if err != nil {
		slog.ErrorContext(ctx, "extraction failed", "keyword", keyword, "error", err)
		return nil, err
	}
	if len(jobs) == 0 {
		slog.WarnContext(ctx, "no job cards found", "keyword", keyword, "url", res.FinalURL, "title", res.Title)
		return nil, models.NewScrapeError(models.ErrCodeNoJobs, "no job listings found", nil)
	}

	slog.InfoContext(ctx, "scrape finished",
		"keyword", keyword,
		"jobs", len(jobs),
		"status", res.StatusCode,
		"elapsed", time.Since(start),
	)
	return jobs, nil
}

// classifyFetchError keeps typed engine errors and maps the rest.
func classifyFetchError(err error) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "fetch interrupted", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, "failed to fetch search page", err)
	}
}
