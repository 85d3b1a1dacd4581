package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// Password requirements
const (
	MinPasswordLength = 12
	MaxPasswordLength = 72 // bcrypt ignores bytes past 72
)

var (
	ErrInvalidEmail = errors.New("please enter a valid email address")
	ErrWeakPassword = errors.New("password does not meet requirements")
)

// ValidatePassword checks if the password meets the complexity requirements
// - Between 12 and 72 bytes
// - At least one uppercase letter
// - At least one lowercase letter
// - At least one number
// - At least one special character
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrWeakPassword, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes long", ErrWeakPassword, MaxPasswordLength)
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", ErrWeakPassword)
	}
	if !hasLower {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", ErrWeakPassword)
	}
	if !hasNumber {
		return fmt.Errorf("%w: password must contain at least one number", ErrWeakPassword)
	}
	if !hasSpecial {
		return fmt.Errorf("%w: password must contain at least one special character", ErrWeakPassword)
	}

	return nil
}

// ValidateEmail accepts a bare address such as "jane@example.com"
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}
