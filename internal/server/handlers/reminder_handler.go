package handlers

import (
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

type ReminderHandler struct {
	reminders ReminderService
}

func NewReminderHandler(reminders ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

func (h *ReminderHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/" + common.CollectionReminders)
	g.Get("/", h.HandleList)
	g.Post("/", h.HandleCreate)
	g.Put("/:id", h.HandleUpdate)
	g.Patch("/:id/notified", h.HandleNotified)
	g.Delete("/:id", h.HandleDelete)
}

// HandleList returns active reminders ordered by next due time.
func (h *ReminderHandler) HandleList(c *fiber.Ctx) error {
	rs, err := h.reminders.List(c.UserContext(), userID(c), c.Query("baby_id"))
	if err != nil {
		return err
	}
	return c.JSON(rs)
}

func (h *ReminderHandler) HandleCreate(c *fiber.Ctx) error {
	var in models.ReminderInput
	if err := c.BodyParser(&in); err != nil {
		return errBadBody
	}
	r, err := h.reminders.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *ReminderHandler) HandleUpdate(c *fiber.Ctx) error {
	var p models.ReminderUpdate
	if err := c.BodyParser(&p); err != nil {
		return errBadBody
	}
	r, err := h.reminders.Update(c.UserContext(), userID(c), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// HandleNotified moves the reminder to its next occurrence.
func (h *ReminderHandler) HandleNotified(c *fiber.Ctx) error {
	r, err := h.reminders.MarkNotified(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *ReminderHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.reminders.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
