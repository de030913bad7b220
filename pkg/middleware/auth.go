package middleware

import (
	"errors"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JwtProtected verifies the HS256 bearer token and stores the parsed
// *jwt.Token under the "user" local.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	message := "invalid or expired token"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		message = "missing or malformed token"
	}
	return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized",
		map[string]string{"authorization": message})
}
