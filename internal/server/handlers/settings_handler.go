package handlers

import (
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings SettingsService
}

func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/" + common.CollectionSettings)
	g.Get("/", h.HandleGet)
	g.Put("/:user_id", h.HandleUpdate)
}

func (h *SettingsHandler) HandleGet(c *fiber.Ctx) error {
	s, err := h.settings.Get(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// HandleUpdate only lets callers change their own settings.
func (h *SettingsHandler) HandleUpdate(c *fiber.Ctx) error {
	uid := userID(c)
	if c.Params("user_id") != uid {
		return common.ErrAuthorization
	}
	var p models.SettingsUpdate
	if err := c.BodyParser(&p); err != nil {
		return errBadBody
	}
	s, err := h.settings.Update(c.UserContext(), uid, p)
	if err != nil {
		return err
	}
	return c.JSON(s)
}
