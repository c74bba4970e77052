// Package engine defines how a search-results page is fetched.
package engine

import (
	"context"
	"math/rand/v2"
)

// Engine fetches a fully-formed page for the scrape pipeline.
type Engine interface {
	// Name returns the engine identifier ("browser" or "http").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL string

	// UserAgent overrides the engine's own pick from its pool when set.
	UserAgent string
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int
	FinalURL   string
	UserAgent  string
	EngineName string
}

// PickUserAgent returns a uniformly random entry of pool, or "" if empty.
func PickUserAgent(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rand.IntN(len(pool))]
}

// SearchHeaders returns the extra request headers both engines send with
// a search page request. Callers may mutate the returned map.
func SearchHeaders() map[string]string {
	return map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
	}
}
