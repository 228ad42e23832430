package handlers

import (
	"log"
	"ternak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FarmHandler handles HTTP requests for the public farm directory.
type FarmHandler struct {
	service *services.FarmService
}

// NewFarmHandler creates a new FarmHandler.
func NewFarmHandler(service *services.FarmService) *FarmHandler {
	return &FarmHandler{
		service: service,
	}
}

// RegisterRoutes registers the farm directory routes with the Fiber app.
func (h *FarmHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/api/farms", h.HandleListFarms)
	router.Get("/api/farms/:id", h.HandleGetFarm)
}

// HandleListFarms returns the public fields of every registered farm.
func (h *FarmHandler) HandleListFarms(c *fiber.Ctx) error {
	farms, err := h.service.ListFarms()
	if err != nil {
		log.Printf("Error listing farms: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve farms",
			"error":   err.Error(),
		})
	}
	return c.JSON(farms)
}

// HandleGetFarm returns a single farm's public profile.
func (h *FarmHandler) HandleGetFarm(c *fiber.Ctx) error {
	farmID := c.Params("id")

	farm, err := h.service.GetFarm(farmID)
	if err != nil {
		log.Printf("Error getting farm %s: %v", farmID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve farm",
			"error":   err.Error(),
		})
	}
	return c.JSON(farm)
}

// HandleCurrentFarm returns the profile of the authenticated farm. The JWT
// middleware stores the user id in locals before this runs.
func (h *FarmHandler) HandleCurrentFarm(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing authentication context",
		})
	}

	farm, err := h.service.GetFarm(userID)
	if err != nil {
		log.Printf("Error getting current farm %s: %v", userID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve profile",
			"error":   err.Error(),
		})
	}
	return c.JSON(farm)
}
