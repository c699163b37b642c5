package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"strips null bytes", "he\x00llo", "hello"},
		{"strips control characters", "he\x01\x02llo", "hello"},
		{"keeps newlines and tabs", "line1\n\tline2", "line1\n\tline2"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeString(tt.input))
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"uuid style", "550e8400-e29b-41d4-a716-446655440000", false},
		{"short alphanumeric", "player42", false},
		{"with underscore", "team_u12", false},
		{"empty", "", true},
		{"leading hyphen", "-player", true},
		{"path traversal", "../etc/passwd", true},
		{"sql injection attempt", "1; DROP TABLE players", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"plain address", "coach@academy.hu", false},
		{"subdomain", "info@mail.academy.hu", false},
		{"missing at", "coach.academy.hu", true},
		{"missing domain", "coach@", true},
		{"embedded whitespace", "co ach@academy.hu", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 250) + "@b.hu", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateWindowWeeks(t *testing.T) {
	assert.NoError(t, ValidateWindowWeeks(4, 52))
	assert.NoError(t, ValidateWindowWeeks(52, 52))
	assert.NoError(t, ValidateWindowWeeks(100, 0)) // no cap configured
	assert.Error(t, ValidateWindowWeeks(0, 52))
	assert.Error(t, ValidateWindowWeeks(-1, 52))
	assert.Error(t, ValidateWindowWeeks(53, 52))
}
