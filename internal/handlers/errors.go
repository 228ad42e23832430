package handlers

import (
	"errors"

	"ternak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusFromError maps service sentinel errors to HTTP status codes. Anything
// unrecognized is a server error, surfaced with its raw message per the
// existing API contract.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken):
		// Conflicts share the 400 family with validation failures; callers
		// pattern-match on the status.
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
