package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type, x-request-id"
	corsAllowMethods = "GET, POST, PUT, OPTIONS"
)

type corsPolicy struct {
	wildcard bool
	origins  map[string]struct{}
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{})}
	for _, o := range allowedOrigins {
		trimmed := strings.TrimSpace(o)
		switch trimmed {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.origins[trimmed] = struct{}{}
		}
	}
	return p
}

// headers returns nil when origin is not allowed.
func (p corsPolicy) headers(origin string) map[string]string {
	var allow string
	switch {
	case p.wildcard:
		allow = "*"
	case origin != "":
		if _, ok := p.origins[origin]; ok {
			allow = origin
		}
	}
	if allow == "" {
		return nil
	}
	h := map[string]string{
		"Access-Control-Allow-Origin":   allow,
		"Access-Control-Allow-Methods":  corsAllowMethods,
		"Access-Control-Allow-Headers":  corsAllowHeaders,
		"Access-Control-Expose-Headers": "X-Request-Id",
		"Access-Control-Max-Age":        "600",
	}
	if allow != "*" {
		h["Vary"] = "Origin"
	}
	return h
}

// CORSHeaders returns the headers CORS sets for a request from origin. Entry
// points that answer outside the router use it to stay consistent.
func CORSHeaders(allowedOrigins []string, origin string) map[string]string {
	return newCORSPolicy(allowedOrigins).headers(origin)
}

// CORS sets CORS headers and answers preflight requests with 200 "ok".
// A "*" entry in allowedOrigins allows every origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newCORSPolicy(allowedOrigins)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range policy.headers(c.GetHeader("Origin")) {
			if k == "Vary" {
				h.Add(k, v)
				continue
			}
			h.Set(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.String(http.StatusOK, "ok")
			c.Abort()
			return
		}

		c.Next()
	}
}
