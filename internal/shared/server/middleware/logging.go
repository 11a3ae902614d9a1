package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"practice-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	ReferralIDKey = "referralId"
	FilePathKey   = "filePath"
	OutcomeKey    = "outcome"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"referral_id": c.GetString(ReferralIDKey),
			"file_path":   c.GetString(FilePathKey),
			"outcome":     c.GetString(OutcomeKey),
			"is_admin":    IsAdmin(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
