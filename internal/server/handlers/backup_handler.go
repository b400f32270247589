package handlers

import (
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/gofiber/fiber/v2"
)

// BackupHandler hands out presigned object storage URLs. Backup payloads
// never pass through the server.
type BackupHandler struct {
	backups BackupService
}

func NewBackupHandler(backups BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

func (h *BackupHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/backups")
	g.Post("/upload-url", h.HandleUploadURL)
	g.Post("/download-url", h.HandleDownloadURL)
}

type presignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (h *BackupHandler) HandleUploadURL(c *fiber.Ctx) error {
	key, url, err := h.backups.UploadURL(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(presignResponse{Key: key, URL: url})
}

func (h *BackupHandler) HandleDownloadURL(c *fiber.Ctx) error {
	var in presignResponse
	if err := c.BodyParser(&in); err != nil {
		return errBadBody
	}
	if in.Key == "" {
		return &models.ValidationError{Fields: map[string]string{"key": "is required"}}
	}
	url, err := h.backups.DownloadURL(c.UserContext(), userID(c), in.Key)
	if err != nil {
		return err
	}
	return c.JSON(presignResponse{Key: in.Key, URL: url})
}
