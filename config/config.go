package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Extractor ExtractorConfig
	Store     StoreConfig
	Notify    NotifyConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 5000
	Mode string // "debug", "release", "test"; default: "release"

	// CORSOrigins lists allowed origins; empty allows all.
	CORSOrigins []string
}

// BrowserConfig controls the per-scrape Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// UserAgents is the pool a random user-agent is drawn from per session.
	// The env var separates entries with "|".
	UserAgents []string

	// MaxSessions caps concurrently running browser sessions. 0 = unlimited.
	MaxSessions int // default: 0

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// ScraperConfig controls the scrape pipeline.
type ScraperConfig struct {
	// SiteBaseURL is the site root the keyword slug is appended to.
	SiteBaseURL string // default: "https://www.naukri.com"

	// DefaultKeyword is used when /scrape gets no keyword.
	DefaultKeyword string // default: "product manager"

	// FetchMode selects the engine: "browser" (default) or "http".
	FetchMode string

	// WaitMode selects the post-navigation wait: "fixed", "selector", "stable".
	WaitMode string // default: "fixed"

	// WaitDuration is the fixed wait, or the upper bound for the other modes.
	WaitDuration time.Duration // default: 90s

	// Timeout bounds a whole scrape (launch + navigate + wait + read).
	Timeout time.Duration // default: 3m

	// NavigationTimeout is the max time for page.Navigate alone.
	NavigationTimeout time.Duration // default: 30s

	// BlockMarkers are lower-case substrings that mark a challenge page.
	BlockMarkers []string // default: ["captcha"]

	// PageDump selects how the rendered page is logged:
	// "html", "markdown", "text" or "off".
	PageDump string // default: "html"
}

// ExtractorConfig holds the CSS selectors for the job card and its fields.
type ExtractorConfig struct {
	CardSelector       string // default: "div.jobTuple"
	TitleSelector      string // default: "a.title"
	CompanySelector    string // default: "a.subTitle"
	LocationSelector   string // default: "li.location"
	ExperienceSelector string // default: "li.experience"
}

// StoreConfig controls persistence.
type StoreConfig struct {
	// DatabaseURL is a PostgreSQL DSN. Empty selects the in-memory store.
	DatabaseURL string

	MaxConns int32 // default: 10
	MinConns int32 // default: 1
}

// NotifyConfig controls scrape-completed notifications.
type NotifyConfig struct {
	// RedisURL enables PUBLISH of scrape events when set.
	RedisURL string

	// RedisChannel is the channel events are published to.
	RedisChannel string // default: "jobs.scraped"

	// WebhookURL enables webhook delivery of scrape events when set.
	WebhookURL string

	// WebhookSecret signs webhook bodies with HMAC-SHA256 when set.
	WebhookSecret string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity. 0 disables.
	RequestsPerSecond float64 // default: 0

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	return &Config{
		Server: ServerConfig{
			Host:        envOr("JOBSCRAPE_HOST", "0.0.0.0"),
			Port:        envIntOr("JOBSCRAPE_PORT", 5000),
			Mode:        envOr("JOBSCRAPE_MODE", "release"),
			CORSOrigins: envSliceOr("JOBSCRAPE_CORS_ORIGINS", nil),
		},
		Browser: BrowserConfig{
			Headless:    envBoolOr("JOBSCRAPE_HEADLESS", true),
			NoSandbox:   envBoolOr("JOBSCRAPE_NO_SANDBOX", true),
			BrowserBin:  os.Getenv("JOBSCRAPE_BROWSER_BIN"),
			UserAgents:  envSliceSepOr("JOBSCRAPE_USER_AGENTS", "|", defaultUserAgents),
			MaxSessions: envIntOr("JOBSCRAPE_MAX_SESSIONS", 0),
			BlockedResourceTypes: envSliceOr("JOBSCRAPE_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Scraper: ScraperConfig{
			SiteBaseURL:       envOr("JOBSCRAPE_SITE_URL", "https://www.naukri.com"),
			DefaultKeyword:    envOr("JOBSCRAPE_DEFAULT_KEYWORD", "product manager"),
			FetchMode:         envOr("JOBSCRAPE_FETCH_MODE", "browser"),
			WaitMode:          envOr("JOBSCRAPE_WAIT_MODE", "fixed"),
			WaitDuration:      envDurationOr("JOBSCRAPE_WAIT", 90*time.Second),
			Timeout:           envDurationOr("JOBSCRAPE_SCRAPE_TIMEOUT", 3*time.Minute),
			NavigationTimeout: envDurationOr("JOBSCRAPE_NAV_TIMEOUT", 30*time.Second),
			BlockMarkers:      envSliceOr("JOBSCRAPE_BLOCK_MARKERS", []string{"captcha"}),
			PageDump:          envOr("JOBSCRAPE_PAGE_DUMP", "html"),
		},
		Extractor: ExtractorConfig{
			CardSelector:       envOr("JOBSCRAPE_CARD_SELECTOR", "div.jobTuple"),
			TitleSelector:      envOr("JOBSCRAPE_TITLE_SELECTOR", "a.title"),
			CompanySelector:    envOr("JOBSCRAPE_COMPANY_SELECTOR", "a.subTitle"),
			LocationSelector:   envOr("JOBSCRAPE_LOCATION_SELECTOR", "li.location"),
			ExperienceSelector: envOr("JOBSCRAPE_EXPERIENCE_SELECTOR", "li.experience"),
		},
		Store: StoreConfig{
			DatabaseURL: os.Getenv("JOBSCRAPE_DATABASE_URL"),
			MaxConns:    int32(envIntOr("JOBSCRAPE_DB_MAX_CONNS", 10)),
			MinConns:    int32(envIntOr("JOBSCRAPE_DB_MIN_CONNS", 1)),
		},
		Notify: NotifyConfig{
			RedisURL:      os.Getenv("JOBSCRAPE_REDIS_URL"),
			RedisChannel:  envOr("JOBSCRAPE_REDIS_CHANNEL", "jobs.scraped"),
			WebhookURL:    os.Getenv("JOBSCRAPE_WEBHOOK_URL"),
			WebhookSecret: os.Getenv("JOBSCRAPE_WEBHOOK_SECRET"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("JOBSCRAPE_AUTH_ENABLED", false),
			APIKeys: envSliceOr("JOBSCRAPE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("JOBSCRAPE_RATE_RPS", 0),
			Burst:             envIntOr("JOBSCRAPE_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("JOBSCRAPE_LOG_LEVEL", "info"),
			Format: envOr("JOBSCRAPE_LOG_FORMAT", "json"),
		},
	}
}

// Validate rejects values the rest of the program cannot act on.
// Selector syntax is checked by extractor.New.
func (c *Config) Validate() error {
	switch c.Scraper.FetchMode {
	case "browser", "http":
	default:
		return fmt.Errorf("config: unknown fetch mode %q (want browser or http)", c.Scraper.FetchMode)
	}
	switch c.Scraper.WaitMode {
	case "fixed", "selector", "stable":
	default:
		return fmt.Errorf("config: unknown wait mode %q (want fixed, selector or stable)", c.Scraper.WaitMode)
	}
	switch c.Scraper.PageDump {
	case "html", "markdown", "text", "off":
	default:
		return fmt.Errorf("config: unknown page dump format %q", c.Scraper.PageDump)
	}
	if c.Scraper.WaitDuration < 0 {
		return fmt.Errorf("config: wait duration must not be negative")
	}
	if c.Scraper.Timeout < 0 || c.Scraper.NavigationTimeout < 0 {
		return fmt.Errorf("config: scrape and navigation timeouts must not be negative")
	}
	// A zero Timeout leaves the scrape unbounded.
	if budget := c.Scraper.WaitDuration + c.Scraper.NavigationTimeout; c.Scraper.Timeout > 0 && c.Scraper.Timeout <= budget {
		return fmt.Errorf("config: scrape timeout %s must exceed wait %s plus navigation timeout %s",
			c.Scraper.Timeout, c.Scraper.WaitDuration, c.Scraper.NavigationTimeout)
	}
	if len(c.Browser.UserAgents) == 0 {
		return fmt.Errorf("config: user-agent pool is empty")
	}
	if c.Browser.MaxSessions < 0 {
		return fmt.Errorf("config: max sessions must not be negative")
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("config: auth enabled but no API keys configured")
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	return envSliceSepOr(key, ",", fallback)
}

// envSliceSepOr splits on sep; user-agent strings contain commas.
func envSliceSepOr(key, sep string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, sep)
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
