package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/service"
)

// Jobs returns a handler for GET /jobs?search=, responding with a JSON
// array of stored listings in id order.
func Jobs(svc *service.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := svc.List(c.Request.Context(), c.Query("search"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, jobs)
	}
}
