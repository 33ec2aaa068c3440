package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
	"github.com/nicolebling/CupCircle-sub000/internal/services"
)

type matchManager interface {
	CreateRequest(ctx context.Context, requesterID string, input services.MatchRequestInput) (*models.Match, error)
	UpdateStatus(ctx context.Context, actorID, matchID string, next models.MatchStatus) (*models.Match, error)
	ListForUser(ctx context.Context, userID string) ([]models.Match, error)
}

type MatchHandler struct {
	service matchManager
}

func NewMatchHandler(service matchManager) *MatchHandler {
	return &MatchHandler{service: service}
}

func (h *MatchHandler) CreateMatch(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var body struct {
		TargetID    string              `json:"target_id"`
		Cafe        models.FavoriteCafe `json:"cafe"`
		MeetingDate string              `json:"meeting_date"`
		StartTime   string              `json:"start_time"`
		EndTime     string              `json:"end_time"`
		Message     string              `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	match, err := h.service.CreateRequest(c.Context(), userID, services.MatchRequestInput{
		TargetID:    body.TargetID,
		Cafe:        body.Cafe,
		MeetingDate: body.MeetingDate,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Message:     body.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncompleteRequest):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Please select a cafe and a time slot"})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match request"})
		case errors.Is(err, services.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An active match with this user already exists"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create match"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matches, err := h.service.ListForUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch matches"})
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total := len(matches)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"matches":    matches[start:end],
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *MatchHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID := c.Params("id")
	if matchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	var body struct {
		Status models.MatchStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	match, err := h.service.UpdateStatus(c.Context(), userID, matchID, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown status"})
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Match not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		case errors.Is(err, services.ErrInvalidStateTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invalid status transition"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update match"})
		}
	}

	return c.JSON(fiber.Map{"match": match})
}
