package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ease-up/auth-service/config"
	"github.com/ease-up/auth-service/internal/email"
	"github.com/ease-up/auth-service/internal/health"
	"github.com/ease-up/auth-service/internal/infrastructure/postgres"
	ctxlog "github.com/ease-up/auth-service/internal/log"
	"github.com/ease-up/auth-service/internal/metrics"
	"github.com/ease-up/auth-service/internal/ratelimit"
	"github.com/ease-up/auth-service/internal/token"
	httptransport "github.com/ease-up/auth-service/internal/transport/http"
	"github.com/ease-up/auth-service/internal/transport/http/handler"
	"github.com/ease-up/auth-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Auth
	tokenService := token.NewService([]byte(cfg.TokenSecret))
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(tokenService, emailSender, []byte(cfg.JWTSecret), cfg.AppBaseURL, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Waitlist / contact
	waitlistRepo := postgres.NewWaitlistRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	waitlistUsecase := usecase.NewWaitlistUsecase(waitlistRepo, contactRepo)
	waitlistHandler := handler.NewWaitlistHandler(waitlistUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)
	healthHandler := handler.NewHealthHandler(checker)

	limiters := newLimiters(cfg)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, waitlistHandler, healthHandler, limiters),
	}

	metricsSrv := metrics.NewServer(":" + cfg.MetricsPort)

	// Hourly compaction keeps the revocation set from growing without
	// bound; revoked tokens whose expiry passed fail validation anyway.
	janitor := cron.New()
	if _, err := janitor.AddFunc("@hourly", func() {
		removed := tokenService.CompactRevoked()
		metrics.RevokedTokens.Set(float64(tokenService.RevokedCount()))
		if removed > 0 {
			logger.Info("compacted revoked tokens", "removed", removed)
		}
	}); err != nil {
		stop()
		log.Fatalf("janitor: %v", err)
	}
	janitor.Start()

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	<-janitor.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLimiters(cfg *config.Config) httptransport.Limiters {
	tiers := map[string]ratelimit.TierLimit{
		ratelimit.TierPremium:   {Window: cfg.EmailSendWindow, MaxRequests: cfg.EmailSendMax},
		ratelimit.TierCorporate: {Window: cfg.EmailSendWindow, MaxRequests: cfg.EmailSendMax},
	}

	return httptransport.Limiters{
		EmailSend: ratelimit.New(ratelimit.Config{
			Window:      cfg.EmailSendWindow,
			MaxRequests: cfg.EmailSendMax,
			Burst:       cfg.RateLimitBurst,
			BurstWindow: cfg.RateLimitBurstWindow,
			KeyFunc:     ratelimit.PerEmailKey("email"),
			TierFunc:    ratelimit.HeaderTier,
			Tiers:       tiers,
		}),
		EmailSendMax: cfg.EmailSendMax,
		Verification: ratelimit.New(ratelimit.Config{
			Window:      cfg.VerificationWindow,
			MaxRequests: cfg.VerificationMax,
			Burst:       cfg.RateLimitBurst,
			BurstWindow: cfg.RateLimitBurstWindow,
			TierFunc:    ratelimit.HeaderTier,
		}),
		VerificationMax: cfg.VerificationMax,
		MagicLink: ratelimit.New(ratelimit.Config{
			Window:      cfg.MagicLinkWindow,
			MaxRequests: cfg.MagicLinkMax,
			Burst:       cfg.RateLimitBurst,
			BurstWindow: cfg.RateLimitBurstWindow,
			TierFunc:    ratelimit.HeaderTier,
		}),
		MagicLinkMax: cfg.MagicLinkMax,
		Global: ratelimit.New(ratelimit.Config{
			Window:      cfg.GlobalWindow,
			MaxRequests: cfg.GlobalMax,
			Burst:       cfg.RateLimitBurst,
			BurstWindow: cfg.RateLimitBurstWindow,
			KeyFunc: func(r *http.Request) string {
				return "global:" + ratelimit.ClientIP(r)
			},
		}),
		GlobalMax: cfg.GlobalMax,
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
