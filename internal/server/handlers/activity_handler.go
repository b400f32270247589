package handlers

import (
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	activities ActivityService
}

func NewActivityHandler(activities ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/" + common.CollectionActivities)
	g.Get("/", h.HandleList)
	g.Post("/", h.HandleCreate)
	g.Put("/:id", h.HandleUpdate)
	g.Delete("/:id", h.HandleDelete)
}

// HandleList returns the caller's activities, newest first, optionally
// narrowed with ?baby_id=.
func (h *ActivityHandler) HandleList(c *fiber.Ctx) error {
	f := models.ActivityFilter{BabyID: c.Query("baby_id")}
	acts, err := h.activities.List(c.UserContext(), userID(c), f)
	if err != nil {
		return err
	}
	return c.JSON(acts)
}

func (h *ActivityHandler) HandleCreate(c *fiber.Ctx) error {
	var in models.ActivityInput
	if err := c.BodyParser(&in); err != nil {
		return errBadBody
	}
	a, err := h.activities.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *ActivityHandler) HandleUpdate(c *fiber.Ctx) error {
	var p models.ActivityUpdate
	if err := c.BodyParser(&p); err != nil {
		return errBadBody
	}
	a, err := h.activities.Update(c.UserContext(), userID(c), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ActivityHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.activities.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
