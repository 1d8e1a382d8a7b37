package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to status codes.
var (
	// ErrInvalidCredentials indicates an unknown email, a wrong password or,
	// for admin login, a non-admin account. The cases are deliberately
	// indistinguishable. API layer maps this to HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
