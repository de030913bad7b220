package common

import (
	"strconv"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/service/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CurrentUserID resolves the acting user from the verified token in c.Locals("user").
func CurrentUserID(c *fiber.Ctx, authSvc *auth.Service) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, &domain.Error{Kind: domain.ErrUnauthorized, Message: "missing user context"}
	}
	return authSvc.GetCurrentUserId(token)
}

// ParamUUID parses a path parameter as a UUID.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, name+" must be a valid UUID")
	}
	return id, nil
}

// QueryUUID parses an optional query parameter as a UUID.
func QueryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, name+" must be a valid UUID")
	}
	return &id, nil
}

// QueryTime parses an optional RFC 3339 instant.
func QueryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.NewValidationError(name, name+" must be an RFC 3339 timestamp")
	}
	return &t, nil
}

// RequiredQueryTime is QueryTime for mandatory parameters.
func RequiredQueryTime(c *fiber.Ctx, name string) (time.Time, error) {
	t, err := QueryTime(c, name)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, domain.NewValidationError(name, name+" is required")
	}
	return *t, nil
}

// RequiredQueryInt parses a mandatory integer query parameter.
func RequiredQueryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, domain.NewValidationError(name, name+" is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, name+" must be an integer")
	}
	return n, nil
}
