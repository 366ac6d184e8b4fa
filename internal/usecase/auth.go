package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ease-up/auth-service/internal/domain"
	"github.com/ease-up/auth-service/internal/email"
	"github.com/golang-jwt/jwt/v5"
)

const sessionJWTTTL = 24 * time.Hour

// tokenService is the subset of token.Service the usecase needs.
type tokenService interface {
	Issue(emailAddr string, purpose domain.Purpose) (string, error)
	Validate(tokenStr string) (*domain.TokenPayload, error)
	Revoke(tokenStr string)
}

type AuthUsecase struct {
	tokens  tokenService
	email   email.Sender
	jwtKey  []byte
	baseURL string
	logger  *slog.Logger
}

func NewAuthUsecase(tokens tokenService, emailSender email.Sender, jwtKey []byte, baseURL string, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		tokens:  tokens,
		email:   emailSender,
		jwtKey:  jwtKey,
		baseURL: baseURL,
		logger:  logger.With("component", "auth_usecase"),
	}
}

// SendVerification issues a verification token and emails the verify link.
func (u *AuthUsecase) SendVerification(ctx context.Context, emailAddr, name string) error {
	sanitized := SanitizeEmail(emailAddr)
	if !ValidEmail(sanitized) {
		return domain.ErrInvalidEmail
	}

	tokenStr, err := u.tokens.Issue(sanitized, domain.PurposeVerification)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}

	verifyURL := u.baseURL + "/verify-email?token=" + tokenStr
	subject, html, err := email.VerificationEmail(SanitizeInput(name, 50), verifyURL)
	if err != nil {
		return err
	}
	if err := u.email.Send(ctx, sanitized, subject, html); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// VerifyEmail validates a verification token, revokes it so the link is
// single-use, and sends the welcome email best-effort.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, tokenStr string) (string, error) {
	payload, err := u.tokens.Validate(tokenStr)
	if err != nil {
		return "", err
	}
	if payload.Purpose != domain.PurposeVerification {
		return "", domain.ErrWrongPurpose
	}

	u.tokens.Revoke(tokenStr)

	subject, html, err := email.VerificationSuccessEmail("")
	if err == nil {
		err = u.email.Send(ctx, payload.Email, subject, html)
	}
	if err != nil {
		// The address is verified either way; don't fail the request.
		u.logger.WarnContext(ctx, "send verification success email", "error", err)
	}

	return payload.Email, nil
}

// SendMagicLink issues a magic-link token and emails the sign-in link.
func (u *AuthUsecase) SendMagicLink(ctx context.Context, emailAddr string) error {
	sanitized := SanitizeEmail(emailAddr)
	if !ValidEmail(sanitized) {
		return domain.ErrInvalidEmail
	}

	tokenStr, err := u.tokens.Issue(sanitized, domain.PurposeMagicLink)
	if err != nil {
		return fmt.Errorf("issue magic link token: %w", err)
	}

	linkURL := u.baseURL + "/auth/magic-link?token=" + tokenStr
	subject, html, err := email.MagicLinkEmail("", linkURL)
	if err != nil {
		return err
	}
	if err := u.email.Send(ctx, sanitized, subject, html); err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

// VerifyMagicLink validates a magic-link token, revokes it, and returns a
// signed session JWT plus the authenticated email.
func (u *AuthUsecase) VerifyMagicLink(_ context.Context, tokenStr string) (string, string, error) {
	payload, err := u.tokens.Validate(tokenStr)
	if err != nil {
		return "", "", err
	}
	if payload.Purpose != domain.PurposeMagicLink {
		return "", "", domain.ErrWrongPurpose
	}

	u.tokens.Revoke(tokenStr)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   payload.Email,
		"email": payload.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(sessionJWTTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, payload.Email, nil
}
