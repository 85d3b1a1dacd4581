package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "Valid complex password",
			password: "StrongPassword123!",
			wantErr:  false,
		},
		{
			name:     "Too short",
			password: "Short1!",
			wantErr:  true,
			errMsg:   "at least 12 characters",
		},
		{
			name:     "Too long",
			password: "Aa1!" + strings.Repeat("x", 80),
			wantErr:  true,
			errMsg:   "at most 72 bytes",
		},
		{
			name:     "Missing uppercase",
			password: "lowercase123!",
			wantErr:  true,
			errMsg:   "uppercase letter",
		},
		{
			name:     "Missing lowercase",
			password: "UPPERCASE123!",
			wantErr:  true,
			errMsg:   "lowercase letter",
		},
		{
			name:     "Missing number",
			password: "NoNumberPass!",
			wantErr:  true,
			errMsg:   "one number",
		},
		{
			name:     "Missing special char",
			password: "NoSpecialChar123",
			wantErr:  true,
			errMsg:   "special character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWeakPassword)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jane@example.com"))
	assert.NoError(t, ValidateEmail("jane.doe+docs@law.example.co"))

	for _, bad := range []string{"", "jane", "jane@", "@example.com", "Jane <jane@example.com>", "jane@localhost"} {
		assert.ErrorIs(t, ValidateEmail(bad), ErrInvalidEmail, bad)
	}
}
