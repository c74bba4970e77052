// Package scraper owns the browser session used to render search results.
package scraper

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/engine"
	"github.com/use-agent/jobscrape/models"
)

// Scraper launches one browser process per Fetch call and tears it down on
// every exit path. It implements engine.Engine and is safe for concurrent
// use; concurrent calls run independent browsers unless MaxSessions caps them.
type Scraper struct {
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig
	cardSel    string

	// sessions is nil when MaxSessions is 0 (unlimited).
	sessions chan struct{}

	activeSessions atomic.Int32
	totalScrapes   atomic.Int64
}

var _ engine.Engine = (*Scraper)(nil)

// NewScraper creates a Scraper. No browser is started until Fetch.
// cardSelector is the element the "selector" wait strategy waits for.
func NewScraper(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, cardSelector string) *Scraper {
	s := &Scraper{
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		cardSel:    cardSelector,
	}
	if browserCfg.MaxSessions > 0 {
		s.sessions = make(chan struct{}, browserCfg.MaxSessions)
		slog.Info("browser session cap enabled", "maxSessions", browserCfg.MaxSessions)
	}
	return s
}

func (s *Scraper) Name() string { return "browser" }

// Stats returns a snapshot of session counters.
func (s *Scraper) Stats() models.SessionStats {
	return models.SessionStats{
		MaxSessions:    s.browserCfg.MaxSessions,
		ActiveSessions: int(s.activeSessions.Load()),
		TotalScrapes:   s.totalScrapes.Load(),
	}
}

// acquire blocks until a session slot is free or ctx is done.
func (s *Scraper) acquire(ctx context.Context) (release func(), err error) {
	if s.sessions == nil {
		return func() {}, nil
	}
	select {
	case s.sessions <- struct{}{}:
		return func() { <-s.sessions }, nil
	case <-ctx.Done():
		return nil, categorizeError(ctx.Err(), "waiting for a free browser session")
	}
}

// newLauncher configures a browser process with the anti-detection flags
// and the given user-agent.
func (s *Scraper) newLauncher(userAgent string) *launcher.Launcher {
	l := launcher.New().
		Headless(s.browserCfg.Headless).
		NoSandbox(s.browserCfg.NoSandbox)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	}
	if userAgent != "" {
		l.Set(flags.Flag("user-agent"), userAgent)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))
	return l
}
