package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ease-up/auth-service/internal/domain"
	"github.com/ease-up/auth-service/internal/repository"
)

const maxMessageLength = 2000

type WaitlistUsecase struct {
	waitlist repository.WaitlistRepository
	contacts repository.ContactRepository
}

func NewWaitlistUsecase(waitlist repository.WaitlistRepository, contacts repository.ContactRepository) *WaitlistUsecase {
	return &WaitlistUsecase{waitlist: waitlist, contacts: contacts}
}

// Join adds an email to the platform waitlist. Duplicate signups surface
// as domain.ErrDuplicateSignup so the handler can answer idempotently.
func (u *WaitlistUsecase) Join(ctx context.Context, platform domain.Platform, emailAddr string) (*domain.WaitlistSignup, error) {
	if !platform.Valid() {
		return nil, fmt.Errorf("unknown platform %q", platform)
	}

	sanitized := SanitizeEmail(emailAddr)
	if !ValidEmail(sanitized) {
		return nil, domain.ErrInvalidEmail
	}

	signup, err := u.waitlist.Add(ctx, platform, sanitized)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSignup) {
			return nil, err
		}
		return nil, fmt.Errorf("add waitlist signup: %w", err)
	}
	return signup, nil
}

// Contact stores a contact-form message.
func (u *WaitlistUsecase) Contact(ctx context.Context, name, emailAddr, message string) (*domain.ContactMessage, error) {
	sanitized := SanitizeEmail(emailAddr)
	if !ValidEmail(sanitized) {
		return nil, domain.ErrInvalidEmail
	}

	msg := domain.ContactMessage{
		Name:    SanitizeInput(name, 50),
		Email:   sanitized,
		Message: SanitizeInput(message, maxMessageLength),
	}
	saved, err := u.contacts.Save(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}
	return saved, nil
}
