package usecase_test

import (
	"strings"
	"testing"

	"github.com/ease-up/auth-service/internal/usecase"
)

func TestSanitizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  User@Example.COM ", "user@example.com"},
		{"a b@example.com", "ab@example.com"},
		{"plain@example.com", "plain@example.com"},
	}
	for _, tc := range cases {
		if got := usecase.SanitizeEmail(tc.in); got != tc.want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	long := strings.Repeat("a", 300) + "@example.com"
	if got := usecase.SanitizeEmail(long); len(got) != 254 {
		t.Errorf("len = %d, want capped at 254", len(got))
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"tag+alias@example.com",
	}
	for _, e := range valid {
		if !usecase.ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"two@@example.com",
		"double..dot@example.com",
		"a+b+c@example.com",
		"@example.com",
	}
	for _, e := range invalid {
		if usecase.ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := usecase.SanitizeInput("  <b>Alice</b>  ", 50); got != "bAlice/b" {
		t.Errorf("got %q", got)
	}
	if got := usecase.SanitizeInput(strings.Repeat("x", 100), 10); len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
}
