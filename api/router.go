package api

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/api/handler"
	"github.com/use-agent/jobscrape/api/middleware"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/service"
)

//go:embed templates/index.html
var templatesFS embed.FS

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS
//	Jobs:    Auth (if enabled) → RateLimit (if configured)
//
// /health stays outside auth for uptime checks.
// sessions may be nil when the browser engine is not in use.
func NewRouter(svc *service.JobService, sessions handler.SessionReporter, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	tmpl := template.Must(template.New("").ParseFS(templatesFS, "templates/"+handler.HomeTemplate))
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", handler.Health(svc, sessions, startTime))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/", handler.Home(svc))
	protected.GET("/scrape", handler.Scrape(svc))
	protected.GET("/jobs", handler.Jobs(svc))

	return r
}

// corsConfig allows every origin unless a list is configured.
func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "OPTIONS"}
	c.AllowHeaders = append(c.AllowHeaders, "X-API-Key", "Authorization")
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
