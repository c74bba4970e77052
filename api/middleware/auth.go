// Package middleware holds the gin handlers that guard the job endpoints.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/jobscrape/models"
)

// callerKey is the gin context key holding the caller's accepted API key.
const callerKey = "api_key"

// Auth rejects requests to the job endpoints that lack a configured key.
// The key may arrive as X-API-Key, as a bearer token, or as ?api_key= so
// the listing page still opens from a plain browser tab. With no keys
// every request passes.
func Auth(apiKeys []string) gin.HandlerFunc {
	keys := compactKeys(apiKeys)
	if len(keys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := presentedKey(c)
		switch {
		case key == "":
			abortUnauthorized(c, "missing API key: send X-API-Key, Authorization: Bearer, or ?api_key=")
		case !knownKey(keys, key):
			abortUnauthorized(c, "invalid API key")
		default:
			c.Set(callerKey, key)
			c.Next()
		}
	}
}

func compactKeys(apiKeys []string) [][]byte {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}
	return keys
}

func knownKey(keys [][]byte, key string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(key))
	}
	return found == 1
}

func presentedKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return c.Query("api_key")
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error: msg,
		Code:  models.ErrCodeUnauthorized,
	})
}
