package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
	"github.com/nicolebling/CupCircle-sub000/internal/services"
)

type availabilityManager interface {
	CreateSlot(ctx context.Context, userID string, input services.CreateSlotInput) (*models.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, userID string, id int64) error
	ListSlots(ctx context.Context, userID string) ([]models.AvailabilitySlot, error)
}

type AvailabilityHandler struct {
	service availabilityManager
}

func NewAvailabilityHandler(service availabilityManager) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) ListSlots(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	slots, err := h.service.ListSlots(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch availability"})
	}
	return c.JSON(fiber.Map{"slots": slots})
}

func (h *AvailabilityHandler) CreateSlot(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var body struct {
		Date      string  `json:"date"`
		StartTime string  `json:"start_time"`
		EndTime   string  `json:"end_time"`
		Timezone  *string `json:"timezone"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	slot, err := h.service.CreateSlot(c.Context(), userID, services.CreateSlotInput{
		Date:      body.Date,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Timezone:  body.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlotInPast):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Slot must be in the future"})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date or time"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create slot"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slot": slot})
}

func (h *AvailabilityHandler) DeleteSlot(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot id"})
	}

	if err := h.service.DeleteSlot(c.Context(), userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete slot"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
