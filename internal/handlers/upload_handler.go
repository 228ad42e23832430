package handlers

import (
	"io"
	"log"
	"ternak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles the legacy single-file multipart upload route. Newer
// clients send inline base64 batches through /add-goat instead.
type UploadHandler struct {
	images *services.ImageService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(images *services.ImageService) *UploadHandler {
	return &UploadHandler{
		images: images,
	}
}

// RegisterRoutes registers the upload route with the Fiber app.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.HandleUpload)
}

// HandleUpload stores a single multipart file, optionally linked to a goat
// via the goatId form field. Unlike the batch path this is additive and does
// not remove any existing images.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}

	var goatID *string
	if id := c.FormValue("goatId"); id != "" {
		goatID = &id
	}
	notes := c.FormValue("notes")

	image, err := h.images.SaveUpload(goatID, fileHeader.Filename, data, notes)
	if err != nil {
		log.Printf("Error storing upload: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not store upload",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Image uploaded successfully",
		"image":   image,
	})
}
