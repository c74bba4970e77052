// Package service is the application object shared by the HTTP and MCP
// surfaces: it scrapes, stores, notifies and queries.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/jobscrape/models"
	"github.com/use-agent/jobscrape/notify"
	"github.com/use-agent/jobscrape/store"
)

// Scraper is the part of the pipeline the service depends on.
type Scraper interface {
	ScrapeJobs(ctx context.Context, keyword string) ([]models.JobListing, error)
}

// notifyTimeout bounds one fire-and-forget notification.
const notifyTimeout = 15 * time.Second

// JobService holds every dependency a request needs; there is no
// package-level state.
type JobService struct {
	scraper        Scraper
	store          store.Store
	notifier       notify.Notifier
	defaultKeyword string
}

// New creates a JobService. A nil notifier disables notifications.
func New(scraper Scraper, st store.Store, notifier notify.Notifier, defaultKeyword string) *JobService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &JobService{
		scraper:        scraper,
		store:          st,
		notifier:       notifier,
		defaultKeyword: defaultKeyword,
	}
}

// DefaultKeyword is used when a caller supplies none.
func (s *JobService) DefaultKeyword() string { return s.defaultKeyword }

// ScrapeAndStore scrapes keyword (the default when blank), inserts every
// listing in one batch and returns them with their ids. Scrape failures are
// returned as-is; insert failures carry ErrCodeStore. Listeners are notified
// only after a successful insert.
func (s *JobService) ScrapeAndStore(ctx context.Context, keyword string) ([]models.JobListing, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = s.defaultKeyword
	}

	jobs, err := s.scraper.ScrapeJobs(ctx, keyword)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.InsertBatch(ctx, jobs)
	if err != nil {
		slog.ErrorContext(ctx, "insert failed", "keyword", keyword, "jobs", len(jobs), "error", err)
		return nil, models.NewScrapeError(models.ErrCodeStore, "failed to store jobs", err)
	}
	slog.InfoContext(ctx, "jobs stored", "keyword", keyword, "count", len(stored))

	s.notifyAsync(notify.NewJobsScraped(keyword, stored))
	return stored, nil
}

// List returns stored listings, optionally filtered by a case-insensitive
// substring of title or company.
func (s *JobService) List(ctx context.Context, search string) ([]models.JobListing, error) {
	jobs, err := s.store.Query(ctx, search)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeStore, "failed to query jobs", err)
	}
	return jobs, nil
}

// StoreStatus returns "ok" or the ping error text.
func (s *JobService) StoreStatus(ctx context.Context) string {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Sprintf("unavailable: %v", err)
	}
	return "ok"
}

// notifyAsync delivers the event once, detached from the request.
func (s *JobService) notifyAsync(event *notify.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, event); err != nil {
			slog.Warn("scrape notification failed", "event", event.Type, "keyword", event.Keyword, "error", err)
			return
		}
		slog.Debug("scrape notification sent", "event", event.Type, "keyword", event.Keyword)
	}()
}
