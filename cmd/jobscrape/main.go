package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/jobscrape/api"
	"github.com/use-agent/jobscrape/api/handler"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/detect"
	"github.com/use-agent/jobscrape/engine"
	"github.com/use-agent/jobscrape/extractor"
	"github.com/use-agent/jobscrape/notify"
	"github.com/use-agent/jobscrape/pagedump"
	"github.com/use-agent/jobscrape/pipeline"
	"github.com/use-agent/jobscrape/scraper"
	"github.com/use-agent/jobscrape/service"
	"github.com/use-agent/jobscrape/store"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("jobscrape starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"fetchMode", cfg.Scraper.FetchMode,
		"waitMode", cfg.Scraper.WaitMode,
		"wait", cfg.Scraper.WaitDuration,
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Store + schema ───────────────────────────────────────────
	st, err := openStore(startupCtx, cfg.Store)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.CreateSchema(startupCtx); err != nil {
		slog.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	// ── 4. Scrape pipeline ──────────────────────────────────────────
	ext, err := extractor.New(cfg.Extractor)
	if err != nil {
		slog.Error("invalid extractor selectors", "error", err)
		os.Exit(1)
	}

	var (
		eng      engine.Engine
		sessions handler.SessionReporter
	)
	switch cfg.Scraper.FetchMode {
	case "http":
		eng = engine.NewHTTPEngine(cfg.Browser.UserAgents)
	default:
		sc := scraper.NewScraper(cfg.Browser, cfg.Scraper, cfg.Extractor.CardSelector)
		eng, sessions = sc, sc
	}

	pl := pipeline.New(
		cfg.Scraper.SiteBaseURL,
		eng,
		detect.New(cfg.Scraper.BlockMarkers),
		ext,
		pagedump.New(cfg.Scraper.PageDump),
	)

	// ── 5. Notifications ────────────────────────────────────────────
	notifier, closeNotifier := buildNotifier(startupCtx, cfg.Notify)
	defer closeNotifier()

	svc := service.New(pl, st, notifier, cfg.Scraper.DefaultKeyword)

	// ── 6. Router + HTTP server ─────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(svc, sessions, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Scrapes still running after the grace period are abandoned; the
	// launcher's leakless guard kills their browsers when we exit.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("jobscrape stopped")
}

// openStore returns Postgres when a DSN is configured, else the memory store.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("JOBSCRAPE_DATABASE_URL not set, using in-memory store (data is lost on restart)")
		return store.NewMemory(), nil
	}
	return store.NewPostgres(ctx, cfg)
}

// buildNotifier wires the configured sinks. A sink that fails to connect is
// logged and skipped; notifications never block startup.
func buildNotifier(ctx context.Context, cfg config.NotifyConfig) (notify.Notifier, func()) {
	var (
		sinks   notify.Multi
		closers []func()
	)
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhook(cfg.WebhookURL, cfg.WebhookSecret))
		slog.Info("webhook notifications enabled", "url", cfg.WebhookURL)
	}
	if cfg.RedisURL != "" {
		r, err := notify.NewRedis(ctx, cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			slog.Error("redis notifications disabled", "error", err)
		} else {
			sinks = append(sinks, r)
			closers = append(closers, func() { _ = r.Close() })
			slog.Info("redis notifications enabled", "channel", cfg.RedisChannel)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(sinks) == 0 {
		return notify.Nop{}, closeAll
	}
	return sinks, closeAll
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
