package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Subject and team IDs are UUIDs or short alphanumeric identifiers
	idRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateID checks a player or team identifier from the URL path.
func ValidateID(id string) error {
	id = SanitizeString(id)

	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("id must not exceed 64 characters")
	}
	if !idRegex.MatchString(id) {
		return errors.New("id must contain only letters, numbers, hyphens, and underscores")
	}

	return nil
}

// ValidateEmail checks a recipient address before it reaches the mailer.
func ValidateEmail(email string) error {
	email = SanitizeString(email)

	if email == "" {
		return errors.New("email cannot be empty")
	}
	if len(email) > 254 {
		return errors.New("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("email is not a valid address")
	}

	return nil
}

// ValidateWindowWeeks checks an analysis window request against the cap.
func ValidateWindowWeeks(weeks, max int) error {
	if weeks < 1 {
		return errors.New("weeks must be at least 1")
	}
	if max > 0 && weeks > max {
		return errors.New("weeks exceeds the allowed maximum")
	}
	return nil
}
