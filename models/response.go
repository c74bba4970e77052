package models

// ScrapeResponse is the 200 response for GET /scrape.
type ScrapeResponse struct {
	// Message is a human-readable summary, e.g. "Scraped and stored 12 jobs!".
	Message string `json:"message"`

	// Jobs are the freshly stored records with their assigned ids.
	Jobs []JobListing `json:"jobs"`
}

// ErrorResponse is the body for every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status       string       `json:"status"` // "healthy" or "degraded"
	Uptime       string       `json:"uptime"`
	SessionStats SessionStats `json:"session_stats"`
	Store        string       `json:"store"` // "ok" or the ping error
	Version      string       `json:"version"`
}

// SessionStats reports browser session usage.
type SessionStats struct {
	// MaxSessions is the configured cap; 0 means unlimited.
	MaxSessions    int   `json:"max_sessions"`
	ActiveSessions int   `json:"active_sessions"`
	TotalScrapes   int64 `json:"total_scrapes"`
}
