// Package ratelimit implements a fixed-window, in-process request limiter
// with optional caller tiering and a short burst allowance. State is
// process-local: counters are neither persisted nor shared across
// instances, which is acceptable for the traffic this service sees but
// makes the limiter best-effort rather than a hard security boundary.
package ratelimit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	TierStandard  = "standard"
	TierPremium   = "premium"
	TierCorporate = "corporate"
)

// TierLimit overrides the window and ceiling for one caller tier.
type TierLimit struct {
	Window      time.Duration
	MaxRequests int
}

type Config struct {
	Window      time.Duration
	MaxRequests int

	// Burst admits requests over the ceiling when the previous request
	// for the same key arrived within BurstWindow. Bounded by cadence,
	// not by a separate counter.
	Burst       bool
	BurstWindow time.Duration

	// KeyFunc derives the counter key. Defaults to "ratelimit:"+clientIP.
	KeyFunc func(r *http.Request) string

	// TierFunc classifies the caller; Tiers maps the result to overrides.
	// A nil TierFunc leaves every caller on the base limits.
	TierFunc func(r *http.Request) string
	Tiers    map[string]TierLimit
}

type entry struct {
	count       int
	resetAt     time.Time
	lastRequest time.Time
}

// Limiter owns its counter map exclusively; all access goes through Check.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// Result is the admission decision for one request.
type Result struct {
	Allowed           bool
	Remaining         int
	ResetAt           time.Time
	RetryAfterSeconds int
	Tier              string
}

func New(cfg Config) *Limiter {
	if cfg.MaxRequests <= 0 {
		panic("ratelimit: MaxRequests must be positive")
	}
	if cfg.Burst && cfg.BurstWindow <= 0 {
		cfg.BurstWindow = time.Second
	}
	return &Limiter{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Check records the request and decides whether to admit it.
func (l *Limiter) Check(r *http.Request) Result {
	key := l.key(r)
	now := l.now()

	tier := TierStandard
	if l.cfg.TierFunc != nil {
		tier = l.cfg.TierFunc(r)
	}
	window, maxRequests := l.cfg.Window, l.cfg.MaxRequests
	if override, ok := l.cfg.Tiers[tier]; ok {
		window, maxRequests = override.Window, override.MaxRequests
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window), lastRequest: now}
		l.entries[key] = e
		return Result{
			Allowed:   true,
			Remaining: maxRequests - 1,
			ResetAt:   e.resetAt,
			Tier:      tier,
		}
	}

	burstAllowed := l.cfg.Burst && now.Sub(e.lastRequest) < l.cfg.BurstWindow

	if e.count >= maxRequests && !burstAllowed {
		return Result{
			Allowed:           false,
			Remaining:         0,
			ResetAt:           e.resetAt,
			RetryAfterSeconds: retryAfter(e.resetAt, now),
			Tier:              tier,
		}
	}

	e.count++
	e.lastRequest = now

	remaining := maxRequests - e.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   true,
		Remaining: remaining,
		ResetAt:   e.resetAt,
		Tier:      tier,
	}
}

// sweep lazily evicts entries whose window has closed. O(n) over the live
// key set, fine at the cardinality this service sees. Caller holds l.mu.
func (l *Limiter) sweep(now time.Time) {
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
}

func (l *Limiter) key(r *http.Request) string {
	if l.cfg.KeyFunc != nil {
		return l.cfg.KeyFunc(r)
	}
	return "ratelimit:" + ClientIP(r)
}

func retryAfter(resetAt, now time.Time) int {
	secs := int((resetAt.Sub(now) + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// ClientIP returns the first hop of X-Forwarded-For, falling back to
// RemoteAddr, then "unknown".
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}
	if r.RemoteAddr != "" {
		host := r.RemoteAddr
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}
		return host
	}
	return "unknown"
}

// PerEmailKey keys counters on (ip, email) pairs so one address cannot
// exhaust the budget of a whole NAT. The body is read and restored for
// the downstream handler.
func PerEmailKey(prefix string) func(r *http.Request) string {
	return func(r *http.Request) string {
		ip := ClientIP(r)
		if r.Body == nil {
			return prefix + ":" + ip
		}

		body, err := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			return prefix + ":" + ip
		}

		var payload struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.Email == "" {
			return prefix + ":" + ip
		}
		return prefix + ":" + ip + ":" + strings.ToLower(payload.Email)
	}
}

// HeaderTier is the default caller classification: an explicit premium
// header wins, private-range forwarded IPs count as corporate traffic.
func HeaderTier(r *http.Request) string {
	if r.Header.Get("X-Premium-User") == "true" {
		return TierPremium
	}
	forwarded := r.Header.Get("X-Forwarded-For")
	if strings.Contains(forwarded, "192.168.") || strings.Contains(forwarded, "10.") {
		return TierCorporate
	}
	return TierStandard
}
