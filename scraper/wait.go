package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

const (
	WaitFixed    = "fixed"
	WaitSelector = "selector"
	WaitStable   = "stable"
)

// wait runs the configured post-navigation wait. It returns an error only
// when ctx itself is done; a selector or stability wait that merely runs
// out of time is not an error and the page is read as-is.
func (s *Scraper) wait(ctx context.Context, p *rod.Page) error {
	d := s.scraperCfg.WaitDuration
	switch s.scraperCfg.WaitMode {
	case WaitSelector:
		return waitForSelector(ctx, p, d, s.cardSel, challengeSelector(s.scraperCfg.BlockMarkers))
	case WaitStable:
		return waitForStable(ctx, p, d)
	default:
		return sleepCtx(ctx, d)
	}
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitForSelector races a job card against a challenge element, bounded by d.
func waitForSelector(ctx context.Context, p *rod.Page, d time.Duration, cardSel, challengeSel string) error {
	raceCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	rc := p.Context(raceCtx).Race().Element(cardSel).Handle(func(*rod.Element) error {
		slog.Debug("job card rendered")
		return nil
	})
	if challengeSel != "" {
		rc = rc.Element(challengeSel).Handle(func(*rod.Element) error {
			slog.Debug("challenge element rendered")
			return nil
		})
	}
	if _, err := rc.Do(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Debug("selector wait did not match, reading page as-is", "error", err)
	}
	return nil
}

// waitForStable waits until the DOM stops changing, bounded by d.
func waitForStable(ctx context.Context, p *rod.Page, d time.Duration) error {
	stableCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	if err := p.Context(stableCtx).WaitDOMStable(time.Second, 0.1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}
	return nil
}

// challengeSelector turns text markers into a selector group matching
// elements whose id, class or iframe src mentions a marker.
func challengeSelector(markers []string) string {
	parts := make([]string, 0, len(markers)*3)
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || strings.ContainsAny(m, `"\`) {
			continue
		}
		parts = append(parts,
			fmt.Sprintf(`[id*="%s" i]`, m),
			fmt.Sprintf(`[class*="%s" i]`, m),
			fmt.Sprintf(`iframe[src*="%s" i]`, m),
		)
	}
	return strings.Join(parts, ", ")
}
