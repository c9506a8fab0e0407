// Package password hashes and compares credentials with bcrypt.
package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// Cost is the bcrypt work factor used for new hashes.
var Cost = bcrypt.DefaultCost

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// Hash returns the bcrypt hash of plain. Input past bcrypt's 72 byte limit is
// rejected as invalid input.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("hash password: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Matches reports whether plain hashes to hash. A malformed hash is an error,
// a wrong password is not.
func Matches(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}

// Burn spends the same time as a real comparison. Call it when the account
// does not exist so lookups of unknown emails are not faster than wrong passwords.
func Burn(plain string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("petcare-dummy-credential"), Cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
