// internal/pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var (
	ErrPasswordTooShort = fmt.Errorf("Password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("Password must be no more than %d characters", MaxPasswordLength)
	ErrPasswordMismatch = errors.New("Passwords do not match")
)

// ValidatePassword checks the length rule the backend enforces at sign-up and reset
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
