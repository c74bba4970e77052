package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/service"
)

// HomeTemplate is the template name the router registers for GET /.
const HomeTemplate = "index.html"

// Home renders the listing page with an optional search filter.
func Home(svc *service.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		jobs, err := svc.List(c.Request.Context(), search)
		if err != nil {
			respondError(c, err)
			return
		}
		c.HTML(http.StatusOK, HomeTemplate, gin.H{
			"jobs":    jobs,
			"search":  search,
			"keyword": svc.DefaultKeyword(),
		})
	}
}
