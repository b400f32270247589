package handlers

import (
	"errors"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

var errBadBody = fiber.NewError(fiber.StatusBadRequest, "malformed request body")

// statusFor maps a service error to its HTTP status and public message.
func statusFor(err error) (int, errorBody) {
	var verr *models.ValidationError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &ferr):
		return ferr.Code, errorBody{Error: ferr.Message}
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, errorBody{Error: common.ErrValidation.Error(), Fields: verr.Fields}
	case errors.Is(err, common.ErrValidation):
		return fiber.StatusUnprocessableEntity, errorBody{Error: err.Error()}
	case errors.Is(err, common.ErrAlreadyExists):
		return fiber.StatusConflict, errorBody{Error: common.ErrAlreadyExists.Error()}
	case errors.Is(err, common.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, errorBody{Error: "Invalid credentials"}
	case errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusUnauthorized, errorBody{Error: common.ErrTokenExpired.Error()}
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return fiber.StatusUnauthorized, errorBody{Error: common.ErrRefreshTokenExpired.Error()}
	case errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusUnauthorized, errorBody{Error: common.ErrInvalidToken.Error()}
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, errorBody{Error: common.ErrorUnauthorized.Error()}
	case errors.Is(err, common.ErrAuthorization):
		return fiber.StatusForbidden, errorBody{Error: common.ErrAuthorization.Error()}
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, errorBody{Error: common.ErrorNotFound.Error()}
	default:
		return fiber.StatusInternalServerError, errorBody{Error: common.ErrorInternal.Error()}
	}
}

// ErrorHandler renders errors returned by handlers and middleware. Only
// unexpected failures are logged; their details never reach the client.
func ErrorHandler(l logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, body := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			l.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(body)
	}
}
