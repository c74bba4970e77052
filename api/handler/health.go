package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/models"
	"github.com/use-agent/jobscrape/service"
)

// Version is reported by /health.
const Version = "0.1.0"

// SessionReporter exposes browser session counters.
type SessionReporter interface {
	Stats() models.SessionStats
}

// Health returns a handler for GET /health.
//
// Status is "degraded" when the store is unreachable or every capped
// browser session is busy. sessions may be nil (http fetch mode).
func Health(svc *service.JobService, sessions SessionReporter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats models.SessionStats
		if sessions != nil {
			stats = sessions.Stats()
		}
		storeStatus := svc.StoreStatus(c.Request.Context())

		status := "healthy"
		if storeStatus != "ok" || (stats.MaxSessions > 0 && stats.ActiveSessions >= stats.MaxSessions) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			SessionStats: stats,
			Store:        storeStatus,
			Version:      Version,
		})
	}
}
