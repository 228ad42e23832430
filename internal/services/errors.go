package services

import "errors"

// Sentinel errors shared by all services. Handlers map these to HTTP status
// codes with errors.Is instead of matching on message text.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)
