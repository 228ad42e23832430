package handlers

import (
	"fmt"
	"log"
	"ternak/internal/models"
	"ternak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// GoatHandler handles HTTP requests for goat records and the marketplace.
type GoatHandler struct {
	service  *services.GoatService
	validate *validator.Validate
}

// NewGoatHandler creates a new GoatHandler.
func NewGoatHandler(service *services.GoatService) *GoatHandler {
	return &GoatHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the goat routes with the Fiber app. The paths are
// the ones the mobile client already uses, so they stay flat instead of
// RESTful.
func (h *GoatHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/add-goat", h.HandleAddGoat)
	router.Put("/update-goat/:id", h.HandleUpdateGoat)
	router.Delete("/delete-goat/:id", h.HandleDeleteGoat)
	router.Get("/get-goats/:userId", h.HandleGetGoatsForOwner)
	router.Get("/get-goat/:id", h.HandleGetGoat)

	// The public marketplace feed is reachable under both spellings.
	router.Get("/goats", h.HandleMarketplaceFeed)
	router.Get("/api/goats", h.HandleMarketplaceFeed)
}

// AddGoatRequest is the upsert body: the full goat field set plus an optional
// batch of inline base64 image payloads that replaces the goat's images.
type AddGoatRequest struct {
	models.Goat
	Images []string `json:"images"`
}

// HandleAddGoat upserts a goat by its RFID tag and optionally replaces its
// associated images from inline base64 payloads.
func (h *GoatHandler) HandleAddGoat(c *fiber.Ctx) error {
	var req AddGoatRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-goat request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// Validate the goat struct before touching the store.
	if err := h.validate.Struct(req.Goat); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	goat, warnings, err := h.service.UpsertByTag(&req.Goat, req.Images)
	if err != nil {
		log.Printf("Error upserting goat: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not save goat",
			"error":   err.Error(),
		})
	}

	resp := fiber.Map{
		"message": "Goat saved successfully",
		"goat":    goat,
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return c.JSON(resp)
}

// HandleUpdateGoat applies a partial update (commonly price, for-sale and
// sold flags) to an existing goat.
func (h *GoatHandler) HandleUpdateGoat(c *fiber.Ctx) error {
	goatID := c.Params("id")

	var upd models.GoatUpdate
	if err := c.BodyParser(&upd); err != nil {
		log.Printf("Error parsing update-goat request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(upd); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	goat, err := h.service.UpdateGoat(goatID, upd)
	if err != nil {
		log.Printf("Error updating goat %s: %v", goatID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not update goat",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Goat updated successfully",
		"goat":    goat,
	})
}

// HandleDeleteGoat deletes a goat and cascades to its image metadata. Blob
// cleanup problems surface as warnings, not failures.
func (h *GoatHandler) HandleDeleteGoat(c *fiber.Ctx) error {
	goatID := c.Params("id")

	warnings, err := h.service.DeleteGoat(goatID)
	if err != nil {
		log.Printf("Error deleting goat %s: %v", goatID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not delete goat",
			"error":   err.Error(),
		})
	}

	resp := fiber.Map{
		"message": "Goat deleted successfully",
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return c.JSON(resp)
}

// HandleGetGoatsForOwner lists all goats for an owner, each annotated with
// its first image URL.
func (h *GoatHandler) HandleGetGoatsForOwner(c *fiber.Ctx) error {
	ownerID := c.Params("userId")

	goats, err := h.service.GoatsForOwner(ownerID)
	if err != nil {
		log.Printf("Error getting goats for owner %s: %v", ownerID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve goats",
			"error":   err.Error(),
		})
	}

	return c.JSON(goats)
}

// HandleGetGoat retrieves a single goat with its full image list and the
// owning farm's public snapshot.
func (h *GoatHandler) HandleGetGoat(c *fiber.Ctx) error {
	goatID := c.Params("id")

	goat, err := h.service.GetGoat(goatID)
	if err != nil {
		log.Printf("Error getting goat by ID %s: %v", goatID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve goat",
			"error":   err.Error(),
		})
	}

	return c.JSON(goat)
}

// HandleMarketplaceFeed returns the public feed of for-sale goats.
func (h *GoatHandler) HandleMarketplaceFeed(c *fiber.Ctx) error {
	listings, err := h.service.MarketplaceFeed()
	if err != nil {
		log.Printf("Error loading marketplace feed: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve marketplace feed",
			"error":   err.Error(),
		})
	}

	return c.JSON(listings)
}
