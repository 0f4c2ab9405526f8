package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-library/internal/models"
)

func TestValidator_Book(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input models.BookInput
		want  []string
	}{
		{
			name:  "valid",
			input: models.BookInput{Title: "Go", Author: "Pike", ISBN: "0306406152"},
		},
		{
			name:  "valid with hyphens",
			input: models.BookInput{Title: "Go", Author: "Pike", ISBN: "0-306-40615-2"},
		},
		{
			name:  "blank fields",
			input: models.BookInput{Title: "  ", Author: "", ISBN: ""},
			want:  []string{"Title cannot be blank", "Author cannot be blank", "ISBN cannot be blank"},
		},
		{
			name:  "bad checksum",
			input: models.BookInput{Title: "Go", Author: "Pike", ISBN: "0306406153"},
			want:  []string{"Invalid ISBN"},
		},
		{
			name:  "title too long",
			input: models.BookInput{Title: strings.Repeat("a", 151), Author: "Pike", ISBN: "0306406152"},
			want:  []string{"Title cannot be longer than 150 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.input))
		})
	}
}

func TestValidator_User(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input models.UserInput
		want  []string
	}{
		{
			name:  "valid",
			input: models.UserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"},
		},
		{
			name:  "empty password means unchanged",
			input: models.UserInput{Name: "Alice", Email: "alice@example.com"},
		},
		{
			name:  "bad email and short password",
			input: models.UserInput{Name: "Alice", Email: "not-an-email", Password: "short"},
			want: []string{
				"The not-an-email is not a valid email",
				"Your password must be at least 8 characters long",
			},
		},
		{
			name:  "password at bcrypt limit",
			input: models.UserInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("a", 72)},
		},
		{
			name:  "password over bcrypt limit",
			input: models.UserInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("a", 73)},
			want:  []string{"Your password cannot be longer than 72 bytes"},
		},
		{
			name:  "multibyte password over bcrypt limit",
			input: models.UserInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("é", 40)},
			want:  []string{"Your password cannot be longer than 72 bytes"},
		},
		{
			name:  "blank name",
			input: models.UserInput{Name: " ", Email: "alice@example.com", Password: "password123"},
			want:  []string{"Name should not be blank."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.input))
		})
	}
}

func TestValidator_UnknownRuleFallback(t *testing.T) {
	type sample struct {
		Code string `json:"code" validate:"len=3"`
	}
	got := New().Validate(sample{Code: "ab"})
	assert.Equal(t, []string{"code failed on len=3"}, got)
}
