package domain

import (
	"errors"
	"time"
)

var ErrDuplicateSignup = errors.New("email already on waitlist")

// Platform identifies which app waitlist a signup belongs to.
type Platform string

const (
	PlatformApple   Platform = "apple"
	PlatformAndroid Platform = "android"
)

func (p Platform) Valid() bool {
	return p == PlatformApple || p == PlatformAndroid
}

type WaitlistSignup struct {
	ID        string
	Platform  Platform
	Email     string
	CreatedAt time.Time
}

type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
