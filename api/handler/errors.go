package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/models"
)

// noJobsMessage is the 400 body for every failed scrape.
const noJobsMessage = "No jobs found or scraping blocked! Try again later."

// respondError writes the JSON error body for err. Scrape failures share one
// user-facing message; everything else carries the raw error text.
func respondError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusBadRequest && models.IsScrapeFailure(err) {
		msg = noJobsMessage
	}
	c.JSON(status, models.ErrorResponse{
		Error: msg,
		Code:  models.CodeOf(err),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(err error) int {
	if models.IsScrapeFailure(err) {
		return http.StatusBadRequest
	}
	switch models.CodeOf(err) {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
