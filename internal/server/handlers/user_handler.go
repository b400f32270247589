package handlers

import (
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/user")
	g.Get("/profile", h.HandleGetProfile)
	g.Put("/profile", h.HandleUpdateProfile)
}

func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	u, err := h.users.Profile(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var p models.UserUpdate
	if err := c.BodyParser(&p); err != nil {
		return errBadBody
	}
	u, err := h.users.UpdateProfile(c.UserContext(), userID(c), p)
	if err != nil {
		return err
	}
	return c.JSON(u)
}
