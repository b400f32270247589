package handlers

import (
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves sign-up, sign-in and token refresh.
type AuthHandler struct {
	users UserService
}

func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/auth")
	g.Post("/register", h.HandleRegister)
	g.Post("/login", h.HandleLogin)
	g.Post("/refresh", h.HandleRefresh)
}

func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var in models.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return errBadBody
	}
	tp, err := h.users.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tp)
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var in models.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return errBadBody
	}
	tp, err := h.users.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(tp)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var in refreshRequest
	if err := c.BodyParser(&in); err != nil {
		return errBadBody
	}
	if in.RefreshToken == "" {
		return &models.ValidationError{Fields: map[string]string{"refresh_token": "is required"}}
	}
	tp, err := h.users.RefreshToken(c.UserContext(), in.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(tp)
}
