package handlers

import (
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

type BabyHandler struct {
	babies BabyService
}

func NewBabyHandler(babies BabyService) *BabyHandler {
	return &BabyHandler{babies: babies}
}

func (h *BabyHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/" + common.CollectionBabies)
	g.Get("/", h.HandleList)
	g.Get("/:id", h.HandleGet)
	g.Post("/", h.HandleCreate)
	g.Put("/:id", h.HandleUpdate)
	g.Delete("/:id", h.HandleDelete)
}

func (h *BabyHandler) HandleList(c *fiber.Ctx) error {
	bs, err := h.babies.List(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(bs)
}

func (h *BabyHandler) HandleGet(c *fiber.Ctx) error {
	b, err := h.babies.Get(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *BabyHandler) HandleCreate(c *fiber.Ctx) error {
	var in models.BabyInput
	if err := c.BodyParser(&in); err != nil {
		return errBadBody
	}
	b, err := h.babies.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BabyHandler) HandleUpdate(c *fiber.Ctx) error {
	var p models.BabyUpdate
	if err := c.BodyParser(&p); err != nil {
		return errBadBody
	}
	b, err := h.babies.Update(c.UserContext(), userID(c), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(b)
}

// HandleDelete also removes the baby's activities and reminders.
func (h *BabyHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.babies.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
