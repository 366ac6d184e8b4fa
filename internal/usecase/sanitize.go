package usecase

import (
	"regexp"
	"strings"
)

const maxEmailLength = 254

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

	suspiciousEmailRes = []*regexp.Regexp{
		regexp.MustCompile(`\.{2,}`),  // consecutive dots
		regexp.MustCompile(`^\.|\.$`), // leading/trailing dot
		regexp.MustCompile(`@.*@`),    // multiple @
		regexp.MustCompile(`\+.*\+`),  // multiple + aliases
	}

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizeEmail lower-cases, trims, strips internal whitespace, and caps
// the address at the RFC length limit.
func SanitizeEmail(emailAddr string) string {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(emailAddr)), "")
	if len(s) > maxEmailLength {
		s = s[:maxEmailLength]
	}
	return s
}

// ValidEmail reports whether the (already sanitized) address is plausible.
func ValidEmail(emailAddr string) bool {
	if emailAddr == "" || len(emailAddr) > maxEmailLength {
		return false
	}
	if !emailRe.MatchString(emailAddr) {
		return false
	}
	for _, re := range suspiciousEmailRes {
		if re.MatchString(emailAddr) {
			return false
		}
	}
	return true
}

// SanitizeInput trims free-form user input, removes angle brackets, and
// caps the length.
func SanitizeInput(input string, maxLength int) string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	return s
}
