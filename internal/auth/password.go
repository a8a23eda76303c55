// Package auth holds the credential helpers the operator tooling needs to
// seed admin accounts.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminPassword is hashed when no password is given.
const DefaultAdminPassword = "admin"

// HashCost matches the cost the admin accounts were seeded with.
const HashCost = 10

var ErrEmptyPassword = errors.New("password is required")

// HashPassword wraps bcrypt.GenerateFromPassword for admin seeding.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword wraps bcrypt.CompareHashAndPassword.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
