// Package token mints and validates the signed, self-contained tokens
// embedded in verification and magic-link emails. A token carries its own
// subject, purpose, expiry and nonce; there is no server-side token store,
// only an in-memory revocation set for one-time-use enforcement.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ease-up/auth-service/internal/domain"
)

const (
	// Token strings outside this band are rejected before any decode work.
	minTokenLength = 50
	maxTokenLength = 1000

	nonceBytes = 32 // 256-bit nonces

	payloadVersion = "1.0"
)

// Service issues and validates signed tokens. Construct one per process
// and share it; the revocation set lives inside it.
type Service struct {
	secret []byte
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]struct{}
}

func NewService(secret []byte) *Service {
	return &Service{
		secret:  secret,
		now:     time.Now,
		revoked: make(map[string]struct{}),
	}
}

// wirePayload is the serialized form: the payload fields plus the
// signature over them.
type wirePayload struct {
	domain.TokenPayload
	Signature string `json:"signature"`
}

// Issue builds a signed token for email and purpose. The email must
// already be sanitized by the caller. Pure computation, no state change.
func (s *Service) Issue(email string, purpose domain.Purpose) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("issue token: unknown purpose %q", purpose)
	}

	raw := make([]byte, nonceBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	now := s.now()
	payload := domain.TokenPayload{
		Email:     email,
		Purpose:   purpose,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(purpose.TTL()).UnixMilli(),
		Nonce:     hex.EncodeToString(raw),
		Version:   payloadVersion,
	}

	wire := wirePayload{
		TokenPayload: payload,
		Signature:    s.sign(payload),
	}
	encoded, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(encoded), nil
}

// Validate decodes and checks a presented token. On success it returns the
// embedded payload; the caller is responsible for comparing the purpose
// against the endpoint's expectation and for revoking one-time tokens
// after consumption.
//
// Malformed structure and a bad signature both come back as
// domain.ErrTokenMalformed.
func (s *Service) Validate(tokenStr string) (*domain.TokenPayload, error) {
	if len(tokenStr) < minTokenLength || len(tokenStr) > maxTokenLength {
		return nil, domain.ErrTokenMalformed
	}

	// Strict decoding rejects non-canonical encodings, so any single
	// character mutation of a token fails here or at the signature check.
	decoded, err := base64.RawURLEncoding.Strict().DecodeString(tokenStr)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}

	var wire wirePayload
	if err := json.Unmarshal(decoded, &wire); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	if wire.Email == "" || !wire.Purpose.Valid() || wire.ExpiresAt == 0 ||
		wire.Nonce == "" || wire.Signature == "" {
		return nil, domain.ErrTokenMalformed
	}
	if wire.Version == "" {
		wire.Version = payloadVersion
	}

	expected := s.sign(wire.TokenPayload)
	if !hmac.Equal([]byte(wire.Signature), []byte(expected)) {
		return nil, domain.ErrTokenMalformed
	}

	s.mu.Lock()
	_, isRevoked := s.revoked[tokenStr]
	s.mu.Unlock()
	if isRevoked {
		return nil, domain.ErrTokenRevoked
	}

	if s.now().UnixMilli() > wire.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	payload := wire.TokenPayload
	return &payload, nil
}

// Revoke adds the exact token string to the revocation set. Idempotent.
func (s *Service) Revoke(tokenStr string) {
	s.mu.Lock()
	s.revoked[tokenStr] = struct{}{}
	s.mu.Unlock()
}

// CompactRevoked drops revoked tokens whose embedded expiry has passed;
// they would fail validation on expiry alone. Returns how many were
// removed. Run periodically so the set does not grow without bound.
func (s *Service) CompactRevoked() int {
	now := s.now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for tokenStr := range s.revoked {
		if expiryOf(tokenStr) <= now {
			delete(s.revoked, tokenStr)
			removed++
		}
	}
	return removed
}

// RevokedCount reports the current size of the revocation set.
func (s *Service) RevokedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}

// expiryOf extracts expires_at from an encoded token without verifying it.
// Undecodable entries report 0 and are compacted away.
func expiryOf(tokenStr string) int64 {
	decoded, err := base64.RawURLEncoding.Strict().DecodeString(tokenStr)
	if err != nil {
		return 0
	}
	var wire wirePayload
	if err := json.Unmarshal(decoded, &wire); err != nil {
		return 0
	}
	return wire.ExpiresAt
}

// sign computes the hex HMAC-SHA256 over the canonical field tuple.
func (s *Service) sign(p domain.TokenPayload) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%s:%d:%s:%d:%s",
		p.Email, p.Purpose, p.ExpiresAt, p.Nonce, p.IssuedAt, p.Version)
	return hex.EncodeToString(mac.Sum(nil))
}
