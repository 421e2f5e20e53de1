package validation

import (
	"errors"
)

// common passwords rejected regardless of length
var commonPasswords = map[string]bool{
	"password":     true,
	"password1":    true,
	"password123":  true,
	"12345678":     true,
	"123456789":    true,
	"1234567890":   true,
	"qwertyuiop":   true,
	"letmein123":   true,
	"admin123":     true,
	"welcome1":     true,
}

// ValidatePassword enforces minimum password strength
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 72 {
		// bcrypt truncates input beyond 72 bytes
		return errors.New("password is too long (max 72 characters)")
	}

	if commonPasswords[password] {
		return errors.New("password is too common, please choose a stronger one")
	}

	return nil
}
