package respond

import (
	"github.com/gin-gonic/gin"

	"practice-backend/internal/shared/telemetry"
)

// ErrorResponse is the body of every failed request: {"error": "<message>"}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error logs the failure and aborts with an ErrorResponse.
func Error(c *gin.Context, status int, message string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
		"client_ip":  c.ClientIP(),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
