package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"practice-backend/internal/shared/server/respond"
)

// AdminToken guards admin routes with a static bearer token.
// An empty token disables the routes entirely.
func AdminToken(token string) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(token))
	return func(c *gin.Context) {
		if len(expected) == 0 {
			respond.Error(c, http.StatusServiceUnavailable, "Admin API is not configured")
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		presented := []byte(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if subtle.ConstantTimeCompare(presented, expected) != 1 {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Set(adminKey, true)
		c.Next()
	}
}

const adminKey = "isAdmin"

// IsAdmin reports whether AdminToken authenticated the request.
func IsAdmin(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(adminKey)
}
