package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/jobscrape/engine"
	"github.com/use-agent/jobscrape/models"
	"github.com/ysmood/gson"
)

// Fetch runs one complete browser session for req.URL:
//
//  1. Acquire a session slot (only when MaxSessions > 0)
//  2. Launch a browser with a random user-agent and anti-detection flags
//  3. DEFER: close the browser and kill the process
//  4. Stealth injection and resource blocking (before navigation)
//  5. Navigate, bounded by NavigationTimeout
//  6. Wait strategy (fixed / selector / stable)
//  7. Read rendered HTML, title and final URL
//
// The whole call is bounded by ScraperConfig.Timeout.
func (s *Scraper) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.activeSessions.Add(1)
	defer s.activeSessions.Add(-1)
	s.totalScrapes.Add(1)

	if s.scraperCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.scraperCfg.Timeout)
		defer cancel()
	}

	ua := req.UserAgent
	if ua == "" {
		ua = engine.PickUserAgent(s.browserCfg.UserAgents)
	}

	// ── 2. Launch ────────────────────────────────────────────────────
	l := s.newLauncher(ua).Context(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		if ctx.Err() != nil {
			return nil, categorizeError(ctx.Err(), "browser launch interrupted")
		}
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}

	// ── 3. Teardown on every path ────────────────────────────────────
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			slog.Debug("browser close failed", "error", closeErr)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to open page", err)
	}

	// ── 4. Stealth + headers + resource blocking ────────────────────
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(engine.SearchHeaders()),
	}.Call(page)

	if router := setupHijack(page, s.browserCfg.BlockedResourceTypes); router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	// ── 5. Navigate ─────────────────────────────────────────────────
	slog.Info("navigating", "url", req.URL, "userAgent", ua)
	nav := p
	if s.scraperCfg.NavigationTimeout > 0 {
		nav = p.Timeout(s.scraperCfg.NavigationTimeout)
	}
	if err := nav.Navigate(req.URL); err != nil {
		return nil, categorizeError(err, "navigation to search page failed")
	}

	// ── 6. Wait ──────────────────────────────────────────────────────
	start := time.Now()
	if err := s.wait(ctx, p); err != nil {
		return nil, categorizeError(err, "wait for page content interrupted")
	}
	slog.Debug("wait finished", "mode", s.scraperCfg.WaitMode, "elapsed", time.Since(start))

	// ── 7. Read ──────────────────────────────────────────────────────
	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to read page HTML")
	}
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &engine.FetchResult{
		HTML:       rawHTML,
		Title:      evalStringOrEmpty(p, `() => document.title`),
		StatusCode: navigationStatus(p),
		FinalURL:   finalURL,
		UserAgent:  ua,
		EngineName: s.Name(),
	}, nil
}

// navigationStatus reads the document's HTTP status through the
// Navigation Timing API; 0 when unavailable.
func navigationStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to proto.NetworkHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can tell a timeout from a navigation failure.
func categorizeError(err error, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
