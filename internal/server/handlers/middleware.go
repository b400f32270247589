package handlers

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/auth"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// AuthRequired verifies the bearer access token and stores the caller's
// user id in the request locals. An expired token is reported as such so
// clients know to refresh.
func AuthRequired(secretKey []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(common.AuthorizationHeader)
		if header == "" {
			return common.ErrorUnauthorized
		}

		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			return common.ErrInvalidToken
		}

		claims, err := auth.ParseToken(token, secretKey)
		if err != nil {
			return err
		}

		c.Locals(userIDKey, claims.UserID)
		return c.Next()
	}
}

// userID returns the id stored by AuthRequired.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

// RequestLogger logs one line per request at debug level. Errors from the
// chain are rendered here so the logged status is the one sent.
func RequestLogger(l logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		l.Debug(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return nil
	}
}
