package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ease-up/auth-service/internal/domain"
	"github.com/ease-up/auth-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type WaitlistHandler struct {
	waitlistUsecase *usecase.WaitlistUsecase
	logger          *slog.Logger
}

func NewWaitlistHandler(waitlistUsecase *usecase.WaitlistUsecase, logger *slog.Logger) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistUsecase: waitlistUsecase,
		logger:          logger.With("component", "waitlist_handler"),
	}
}

type joinWaitlistRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type joinWaitlistResponse struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

type contactRequest struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// POST /api/waitlist/:platform
func (h *WaitlistHandler) Join(c *gin.Context) {
	platform := domain.Platform(c.Param("platform"))
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform"})
		return
	}

	var req joinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInvalid})
		return
	}

	signup, err := h.waitlistUsecase.Join(c.Request.Context(), platform, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateSignup):
			c.JSON(http.StatusOK, gin.H{"message": "You're already on the waitlist"})
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInvalid})
		default:
			h.logger.ErrorContext(c.Request.Context(), "join waitlist", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, joinWaitlistResponse{
		ID:        signup.ID,
		Platform:  string(signup.Platform),
		CreatedAt: signup.CreatedAt,
	})
}

// POST /api/contact
func (h *WaitlistHandler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.waitlistUsecase.Contact(c.Request.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInvalid})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "save contact message", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thanks for reaching out! We'll get back to you soon.",
		"id":      msg.ID,
	})
}
