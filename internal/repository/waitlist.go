package repository

import (
	"context"

	"github.com/ease-up/auth-service/internal/domain"
)

type WaitlistRepository interface {
	Add(ctx context.Context, platform domain.Platform, email string) (*domain.WaitlistSignup, error)
	Count(ctx context.Context, platform domain.Platform) (int, error)
}

type ContactRepository interface {
	Save(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error)
}
