package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"practice-backend/internal/content"
	"practice-backend/internal/referrals"
	"practice-backend/internal/shared/config"
	"practice-backend/internal/shared/metrics"
	"practice-backend/internal/shared/server/middleware"
	"practice-backend/internal/shared/server/respond"
	"practice-backend/internal/shared/telemetry"
)

// RouterDeps holds dependencies required to build the router.
type RouterDeps struct {
	Config          config.Config
	ReferralHandler *referrals.Handler
	ContentHandler  *content.Handler
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	// Forwarding headers are ignored unless the peer is a configured proxy.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		telemetry.Warn("router.trusted_proxies.invalid", map[string]any{"err": err.Error()})
		_ = r.SetTrustedProxies(nil)
	}
	if cfg.TrustedPlatform != "" {
		r.TrustedPlatform = cfg.TrustedPlatform
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	admin := api.Group("/admin", middleware.AdminToken(cfg.AdminAPIToken))

	if deps.ReferralHandler != nil {
		// Both intake paths draw from the same per-IP bucket.
		limit := middleware.RateLimit(middleware.RateLimitConfig{
			Name:    "referrals",
			Rule:    middleware.PerMinute(cfg.ReferralRatePerMin),
			Limiter: deps.RateLimiter,
		})
		deps.ReferralHandler.RegisterRoutes(api, limit)
		deps.ReferralHandler.RegisterFunctionRoutes(r.Group("/functions/v1"), limit)
		deps.ReferralHandler.RegisterAdminRoutes(admin)
	}
	if deps.ContentHandler != nil {
		deps.ContentHandler.RegisterRoutes(api)
		deps.ContentHandler.RegisterAdminRoutes(admin)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
