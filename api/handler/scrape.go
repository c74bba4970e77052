package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/models"
	"github.com/use-agent/jobscrape/service"
)

// Scrape returns a handler for GET /scrape?keyword=.
//
// The request blocks for the whole browser session. A missing or blank
// keyword uses the service default.
//
//	200 {"message": "Scraped and stored N jobs!", "jobs": [...]}
//	400 {"error": ..., "code": BLOCKED|NO_JOBS|NAVIGATION_FAILED|...}
//	500 {"error": <raw store error>, "code": STORE_FAILED}
func Scrape(svc *service.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := c.Query("keyword")

		jobs, err := svc.ScrapeAndStore(c.Request.Context(), keyword)
		if err != nil {
			slog.Warn("scrape request failed", "keyword", keyword, "code", models.CodeOf(err), "error", err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ScrapeResponse{
			Message: fmt.Sprintf("Scraped and stored %d jobs!", len(jobs)),
			Jobs:    jobs,
		})
	}
}
