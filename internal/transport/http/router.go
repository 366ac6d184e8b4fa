package httptransport

import (
	"log/slog"

	"github.com/ease-up/auth-service/internal/ratelimit"
	"github.com/ease-up/auth-service/internal/transport/http/handler"
	"github.com/ease-up/auth-service/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
)

// Limiters groups the per-endpoint rate limiters the router installs.
type Limiters struct {
	EmailSend       *ratelimit.Limiter
	EmailSendMax    int
	Verification    *ratelimit.Limiter
	VerificationMax int
	MagicLink       *ratelimit.Limiter
	MagicLinkMax    int
	Global          *ratelimit.Limiter
	GlobalMax       int
}

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	waitlistHandler *handler.WaitlistHandler,
	healthHandler *handler.HealthHandler,
	limiters Limiters,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger.With("component", "http")))
	r.Use(middleware.Security())
	r.Use(middleware.Metrics())

	r.GET("/health/live", healthHandler.Liveness)
	r.GET("/health/ready", healthHandler.Readiness)

	api := r.Group("/api")
	api.Use(middleware.RateLimit("global", limiters.Global, limiters.GlobalMax))

	auth := api.Group("/auth")
	auth.POST("/send-verification",
		middleware.RateLimit("email_send", limiters.EmailSend, limiters.EmailSendMax),
		authHandler.SendVerification)
	auth.POST("/verify-email",
		middleware.RateLimit("verification", limiters.Verification, limiters.VerificationMax),
		authHandler.VerifyEmail)
	auth.POST("/send-magic-link",
		middleware.RateLimit("email_send", limiters.EmailSend, limiters.EmailSendMax),
		authHandler.SendMagicLink)
	auth.POST("/verify-magic-link",
		middleware.RateLimit("magic_link", limiters.MagicLink, limiters.MagicLinkMax),
		authHandler.VerifyMagicLink)

	api.POST("/waitlist/:platform", waitlistHandler.Join)
	api.POST("/contact", waitlistHandler.Contact)

	return r
}
