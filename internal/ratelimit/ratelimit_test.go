package ratelimit

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeClock hands the limiter a controllable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(cfg Config) (*Limiter, *fakeClock) {
	l := New(cfg)
	clock := &fakeClock{t: time.Now()}
	l.now = clock.now
	return l, clock
}

func TestCheck_AdmitsUpToCeilingThenDenies(t *testing.T) {
	l, clock := newTestLimiter(Config{Window: time.Minute, MaxRequests: 3})

	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")

	for i, wantRemaining := range []int{2, 1, 0} {
		res := l.Check(r)
		if !res.Allowed {
			t.Fatalf("call %d: denied, want allowed", i+1)
		}
		if res.Remaining != wantRemaining {
			t.Fatalf("call %d: remaining = %d, want %d", i+1, res.Remaining, wantRemaining)
		}
		// Step past any burst window so the ceiling is the only rule.
		clock.advance(2 * time.Second)
	}

	res := l.Check(r)
	if res.Allowed {
		t.Fatal("4th call: allowed, want denied")
	}
	if res.Remaining != 0 {
		t.Errorf("denied remaining = %d, want 0", res.Remaining)
	}
	if res.RetryAfterSeconds <= 0 || res.RetryAfterSeconds > 60 {
		t.Errorf("retryAfter = %d, want in (0, 60]", res.RetryAfterSeconds)
	}
}

func TestCheck_WindowReset(t *testing.T) {
	l, clock := newTestLimiter(Config{Window: time.Minute, MaxRequests: 1})

	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")

	if res := l.Check(r); !res.Allowed {
		t.Fatal("first call denied")
	}
	clock.advance(2 * time.Second)
	if res := l.Check(r); res.Allowed {
		t.Fatal("over-ceiling call allowed")
	}

	clock.advance(time.Minute)
	res := l.Check(r)
	if !res.Allowed {
		t.Fatal("call after window elapsed denied")
	}
	if res.Remaining != 0 {
		t.Errorf("remaining after reset = %d, want 0", res.Remaining)
	}
}

func TestCheck_BurstAdmitsOverCeiling(t *testing.T) {
	l, clock := newTestLimiter(Config{
		Window:      time.Minute,
		MaxRequests: 1,
		Burst:       true,
		BurstWindow: time.Second,
	})

	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")

	if res := l.Check(r); !res.Allowed {
		t.Fatal("first call denied")
	}

	// Within the burst window the ceiling is waived.
	clock.advance(100 * time.Millisecond)
	if res := l.Check(r); !res.Allowed {
		t.Fatal("burst call denied")
	}

	// Outside it the ceiling applies again.
	clock.advance(2 * time.Second)
	if res := l.Check(r); res.Allowed {
		t.Fatal("post-burst call allowed")
	}
}

func TestCheck_TierOverridesCeiling(t *testing.T) {
	l, clock := newTestLimiter(Config{
		Window:      time.Minute,
		MaxRequests: 1,
		TierFunc:    HeaderTier,
		Tiers: map[string]TierLimit{
			TierPremium: {Window: time.Minute, MaxRequests: 10},
		},
	})

	standard := httptest.NewRequest("POST", "/", nil)
	standard.Header.Set("X-Forwarded-For", "203.0.113.7")

	premium := httptest.NewRequest("POST", "/", nil)
	premium.Header.Set("X-Forwarded-For", "203.0.113.7")
	premium.Header.Set("X-Premium-User", "true")

	res := l.Check(standard)
	if res.Tier != TierStandard {
		t.Fatalf("tier = %q, want standard", res.Tier)
	}
	clock.advance(2 * time.Second)

	// Same IP, same key, but the premium header buys a higher ceiling.
	res = l.Check(premium)
	if res.Tier != TierPremium {
		t.Fatalf("tier = %q, want premium", res.Tier)
	}
	if !res.Allowed {
		t.Fatal("premium call denied despite higher ceiling")
	}
	if res.Remaining != 8 {
		t.Errorf("premium remaining = %d, want 8", res.Remaining)
	}
}

func TestCheck_PerEmailKeySplitsCounters(t *testing.T) {
	l, clock := newTestLimiter(Config{
		Window:      time.Minute,
		MaxRequests: 1,
		KeyFunc:     PerEmailKey("email"),
	})

	alice := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"alice@example.com"}`))
	alice.Header.Set("X-Forwarded-For", "203.0.113.7")
	if res := l.Check(alice); !res.Allowed {
		t.Fatal("alice denied")
	}
	clock.advance(2 * time.Second)

	// Same IP, different email: separate counter.
	bob := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"bob@example.com"}`))
	bob.Header.Set("X-Forwarded-For", "203.0.113.7")
	if res := l.Check(bob); !res.Allowed {
		t.Fatal("bob denied despite distinct key")
	}
}

func TestPerEmailKey_RestoresBody(t *testing.T) {
	keyFunc := PerEmailKey("email")

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"alice@example.com"}`))
	r.Header.Set("X-Forwarded-For", "203.0.113.7")

	key := keyFunc(r)
	if key != "email:203.0.113.7:alice@example.com" {
		t.Fatalf("key = %q", key)
	}

	// Downstream handlers must still be able to read the body.
	buf := make([]byte, 64)
	n, _ := r.Body.Read(buf)
	if !strings.Contains(string(buf[:n]), "alice@example.com") {
		t.Fatalf("body not restored, got %q", string(buf[:n]))
	}
}

func TestCheck_SweepsExpiredEntries(t *testing.T) {
	l, clock := newTestLimiter(Config{Window: time.Minute, MaxRequests: 5})

	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Forwarded-For", ip)
		l.Check(r)
	}
	if len(l.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(l.entries))
	}

	clock.advance(2 * time.Minute)
	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	l.Check(r)

	if len(l.entries) != 1 {
		t.Fatalf("entries after sweep = %d, want 1", len(l.entries))
	}
}

func TestNew_PanicsOnZeroCeiling(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for MaxRequests = 0")
		}
	}()
	New(Config{Window: time.Minute})
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("forwarded ip = %q, want first hop", got)
	}

	r = httptest.NewRequest("POST", "/", nil)
	if got := ClientIP(r); got == "" || got == "unknown" {
		t.Errorf("remote addr fallback = %q", got)
	}
}
