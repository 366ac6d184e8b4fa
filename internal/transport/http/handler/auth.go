package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ease-up/auth-service/internal/domain"
	"github.com/ease-up/auth-service/internal/metrics"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	SendVerification(ctx context.Context, email, name string) error
	VerifyEmail(ctx context.Context, token string) (string, error)
	SendMagicLink(ctx context.Context, email string) error
	VerifyMagicLink(ctx context.Context, token string) (string, string, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type sendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type sendMagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// POST /api/auth/send-verification
func (h *AuthHandler) SendVerification(c *gin.Context) {
	var req sendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInvalid})
		return
	}

	if err := h.authUsecase.SendVerification(c.Request.Context(), req.Email, req.Name); err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInvalid})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "send verification", "error", err)
		metrics.EmailsSentTotal.WithLabelValues("verification", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.TokensIssuedTotal.WithLabelValues("verification").Inc()
	metrics.EmailsSentTotal.WithLabelValues("verification", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// POST /api/auth/verify-email
// All token failures collapse into one 400 response.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLinkInvalid})
		return
	}

	email, err := h.authUsecase.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(validationOutcome(err)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": errLinkInvalid})
		return
	}

	metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"email":   email,
	})
}

// POST /api/auth/send-magic-link
// Always returns 200 for well-formed requests so the endpoint cannot be
// used to probe which addresses exist.
func (h *AuthHandler) SendMagicLink(c *gin.Context) {
	var req sendMagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInvalid})
		return
	}

	if err := h.authUsecase.SendMagicLink(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "send magic link", "error", err)
		metrics.EmailsSentTotal.WithLabelValues("magic_link", "error").Inc()
	} else {
		metrics.TokensIssuedTotal.WithLabelValues("magic_link").Inc()
		metrics.EmailsSentTotal.WithLabelValues("magic_link", "ok").Inc()
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the address exists, a sign-in link is on its way"})
}

// POST /api/auth/verify-magic-link
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLinkInvalid})
		return
	}

	sessionJWT, email, err := h.authUsecase.VerifyMagicLink(c.Request.Context(), req.Token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(validationOutcome(err)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": errLinkInvalid})
		return
	}

	metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":       "Magic link verified successfully",
		"token":         sessionJWT,
		"email":         email,
		"authenticated": true,
	})
}

// validationOutcome labels a token failure for metrics only; the HTTP
// response stays generic.
func validationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrWrongPurpose):
		return "wrong_purpose"
	default:
		return "malformed"
	}
}
