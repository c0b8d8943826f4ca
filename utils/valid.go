// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonPhoneChars = regexp.MustCompile(`[^\d+]`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
)

// SanitizeInput sanitizes free text to prevent XSS
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	// Remove control characters
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' {
			return -1
		}
		return r
	}, input)
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}
	return email, nil
}

// SanitizePhone strips formatting from a phone number and checks its length
func SanitizePhone(phone string) (string, error) {
	phone = nonPhoneChars.ReplaceAllString(strings.TrimSpace(phone), "")
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 7 || len(digits) > 15 || strings.Contains(digits, "+") {
		return "", errors.New("invalid phone number")
	}
	return phone, nil
}

// ValidUsername reports whether a BA login username is acceptable
func ValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}
