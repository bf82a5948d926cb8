package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// validatePassword requires 8..72 bytes and at least one digit.
// 72 bytes is the bcrypt input limit.
func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 72 {
		return domain.ErrWeakPassword
	}
	for _, r := range password {
		if unicode.IsDigit(r) {
			return nil
		}
	}
	return domain.ErrWeakPassword
}

func hashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// checkPassword returns domain.ErrInvalidCredentials on mismatch.
func checkPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	return fmt.Errorf("compare password: %w", err)
}
