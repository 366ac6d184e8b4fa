package domain

import (
	"errors"
	"time"
)

var (
	// ErrTokenMalformed covers both structural corruption and signature
	// mismatch. The two are deliberately indistinguishable so a caller
	// probing tokens learns nothing about which check failed.
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenRevoked   = errors.New("token has been revoked")
	ErrWrongPurpose   = errors.New("token purpose mismatch")

	ErrInvalidEmail = errors.New("invalid email address")
)

// Purpose scopes a token to the single flow that may consume it.
type Purpose string

const (
	PurposeVerification Purpose = "verification"
	PurposeMagicLink    Purpose = "magic_link"
)

func (p Purpose) Valid() bool {
	return p == PurposeVerification || p == PurposeMagicLink
}

// TTL returns how long a freshly issued token of this purpose lives.
func (p Purpose) TTL() time.Duration {
	if p == PurposeVerification {
		return 48 * time.Hour
	}
	return 24 * time.Hour
}

// TokenPayload is the decoded content of a signed token. It is never
// persisted; it exists only inside the encoded token string.
type TokenPayload struct {
	Email     string  `json:"email"`
	Purpose   Purpose `json:"purpose"`
	IssuedAt  int64   `json:"issued_at"`  // ms since epoch
	ExpiresAt int64   `json:"expires_at"` // ms since epoch
	Nonce     string  `json:"nonce"`
	Version   string  `json:"version"`
}

func (p TokenPayload) IssuedTime() time.Time { return time.UnixMilli(p.IssuedAt) }
func (p TokenPayload) ExpiryTime() time.Time { return time.UnixMilli(p.ExpiresAt) }
