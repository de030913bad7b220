// Package common holds the response envelope, error mapping and request
// binding shared by every HTTP handler.
package common

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       any               `json:"data"`
	Errors     map[string]string `json:"errors"`
}

// SuccessResponseJSON writes a success envelope.
func SuccessResponseJSON(
	c *fiber.Ctx,
	status int,
	message string,
	data any,
) error {
	return c.Status(status).JSON(Response{
		StatusCode: status,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

// ErrorResponseJSON writes an error envelope with optional field errors.
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	message string,
	errs map[string]string,
) error {
	return c.Status(status).JSON(Response{
		StatusCode: status,
		Success:    false,
		Message:    message,
		Errors:     errs,
	})
}
