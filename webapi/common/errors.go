package common

import (
	"errors"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const internalErrorMessage = "An unexpected error occurred"

// ErrorToStatusCode maps domain error kinds to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidOperation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
}

// ErrorJSON writes the envelope for err. Classified domain errors expose their
// message and field errors; anything else is reported as a generic 500.
func ErrorJSON(c *fiber.Ctx, err error) error {
	status := ErrorToStatusCode(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		return ErrorResponseJSON(c, status, internalErrorMessage, nil)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorResponseJSON(c, status, fe.Message, nil)
	}
	message := domain.Message(err)
	if message == "" {
		message = err.Error()
	}
	return ErrorResponseJSON(c, status, message, domain.FieldErrors(err))
}

// ErrorHandler is the fiber.Config ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return ErrorJSON(c, err)
}
