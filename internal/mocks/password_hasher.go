package mocks

import (
	"errors"
	"strings"
)

// ErrPasswordMismatch is returned by MockPasswordHasher.Compare on mismatch.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher without bcrypt's cost.
// By default Hash prefixes the password with "hashed:" and Compare checks
// that encoding.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// HashCallCount tracks how many times Hash was called
	HashCallCount int
	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

const mockHashPrefix = "hashed:"

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return mockHashPrefix + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, mockHashPrefix) || hashedPassword[len(mockHashPrefix):] != password {
		return ErrPasswordMismatch
	}
	return nil
}
