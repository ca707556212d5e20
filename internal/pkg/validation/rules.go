package validation

import (
	"regexp"
	"strings"
)

// Validation patterns
var (
	// EmailPattern mirrors the registration-time email check.
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// MatricPattern accepts the institution's matric number formats,
	// e.g. "CSC/2021/045" or a plain digit string.
	MatricPattern = `^[A-Za-z0-9/\-]{4,20}$`

	PasswordMinLength = 8
)

var compiled = struct {
	Email  *regexp.Regexp
	Matric *regexp.Regexp
}{
	Email:  regexp.MustCompile(EmailPattern),
	Matric: regexp.MustCompile(MatricPattern),
}

// IsValidEmail reports whether email is well formed.
func IsValidEmail(email string) bool {
	return compiled.Email.MatchString(strings.TrimSpace(email))
}

// IsValidMatricNumber reports whether matric is an acceptable matric number.
func IsValidMatricNumber(matric string) bool {
	return compiled.Matric.MatchString(strings.TrimSpace(matric))
}

// IsValidPassword reports whether the password meets the minimum length.
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}
