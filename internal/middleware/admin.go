package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware guards operator endpoints with a shared API key.
type AdminMiddleware struct {
	apiKey string
}

// NewAdminMiddleware returns nil when apiKey is empty so callers can skip
// mounting admin routes entirely.
func NewAdminMiddleware(apiKey string) *AdminMiddleware {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	return &AdminMiddleware{apiKey: apiKey}
}

// RequireAdminAuth accepts the key as a Bearer token or in X-API-Key.
func (am *AdminMiddleware) RequireAdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if am.ValidateAdminKey(bearerToken(c.GetHeader("Authorization"))) ||
			am.ValidateAdminKey(c.GetHeader("X-API-Key")) {
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Valid admin API key required for this endpoint",
		})
		c.Abort()
	}
}

// ValidateAdminKey compares key against the configured key in constant time.
func (am *AdminMiddleware) ValidateAdminKey(key string) bool {
	if am == nil || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(am.apiKey)) == 1
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
