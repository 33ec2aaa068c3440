package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/nicolebling/CupCircle-sub000/internal/geo"
	"github.com/nicolebling/CupCircle-sub000/internal/models"
	"github.com/nicolebling/CupCircle-sub000/internal/repository"
)

// At most this many industries can be selected during onboarding.
const maxIndustryCategories = 3

type profileStore interface {
	CreateEmpty(ctx context.Context, userID string) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	UpdateOnboarding(ctx context.Context, userID string, req repository.ProfileOnboardingInput) (*models.Profile, error)
	UpdatePartial(ctx context.Context, userID string, req repository.UpdateProfileInput) (*models.Profile, error)
}

type ProfileHandler struct {
	profileRepo profileStore
}

func NewProfileHandler(profileRepo profileStore) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

type onboardingRequest struct {
	FullName           string                    `json:"full_name"`
	Occupation         string                    `json:"occupation"`
	Bio                string                    `json:"bio"`
	Education          string                    `json:"education"`
	ExperienceLevel    string                    `json:"experience_level"`
	IndustryCategories []string                  `json:"industry_categories"`
	Interests          []string                  `json:"interests"`
	Employment         []models.EmploymentEntry  `json:"employment"`
	CareerTransitions  []models.CareerTransition `json:"career_transitions"`
	FavoriteCafes      []models.FavoriteCafe     `json:"favorite_cafes"`

	// Geocoded locations of the favorite cafés, supplied by the client at
	// onboarding time. When present, the profile centroid is derived from
	// them once and stored.
	CafeLocations []geo.Point `json:"cafe_locations"`
}

func (h *ProfileHandler) Onboarding(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var body onboardingRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(body.FullName) == "" || strings.TrimSpace(body.Occupation) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Name and occupation are required"})
	}
	if len(body.IndustryCategories) > maxIndustryCategories {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Select up to 3 industries"})
	}

	input := repository.ProfileOnboardingInput{
		FullName:           strings.TrimSpace(body.FullName),
		Occupation:         strings.TrimSpace(body.Occupation),
		Bio:                body.Bio,
		Education:          body.Education,
		ExperienceLevel:    body.ExperienceLevel,
		IndustryCategories: body.IndustryCategories,
		Interests:          body.Interests,
		FavoriteCafes:      encodeCafes(body.FavoriteCafes),
	}
	input.Employment = marshalEntries(body.Employment)
	input.CareerTransitions = marshalEntries(body.CareerTransitions)

	if len(body.CafeLocations) > 0 {
		center, err := geo.Centroid(body.CafeLocations)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute centroid"})
		}
		input.CentroidLat = &center.Lat
		input.CentroidLong = &center.Lng
	}

	profile, err := h.profileRepo.UpdateOnboarding(c.Context(), userID, input)
	if errors.Is(err, pgx.ErrNoRows) {
		// First onboarding for this user: the row does not exist yet.
		if err = h.profileRepo.CreateEmpty(c.Context(), userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save profile"})
		}
		profile, err = h.profileRepo.UpdateOnboarding(c.Context(), userID, input)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

type updateProfileRequest struct {
	FullName           *string                    `json:"full_name"`
	AvatarURL          *string                    `json:"avatar_url"`
	Occupation         *string                    `json:"occupation"`
	Bio                *string                    `json:"bio"`
	Education          *string                    `json:"education"`
	ExperienceLevel    *string                    `json:"experience_level"`
	IndustryCategories *[]string                  `json:"industry_categories"`
	Interests          *[]string                  `json:"interests"`
	Employment         *[]models.EmploymentEntry  `json:"employment"`
	CareerTransitions  *[]models.CareerTransition `json:"career_transitions"`
	FavoriteCafes      *[]models.FavoriteCafe     `json:"favorite_cafes"`
	CafeLocations      *[]geo.Point               `json:"cafe_locations"`
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var body updateProfileRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.IndustryCategories != nil && len(*body.IndustryCategories) > maxIndustryCategories {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Select up to 3 industries"})
	}

	input := repository.UpdateProfileInput{
		FullName:           body.FullName,
		AvatarURL:          body.AvatarURL,
		Occupation:         body.Occupation,
		Bio:                body.Bio,
		Education:          body.Education,
		ExperienceLevel:    body.ExperienceLevel,
		IndustryCategories: body.IndustryCategories,
		Interests:          body.Interests,
	}
	if body.Employment != nil {
		input.Employment = marshalEntries(*body.Employment)
	}
	if body.CareerTransitions != nil {
		input.CareerTransitions = marshalEntries(*body.CareerTransitions)
	}
	if body.FavoriteCafes != nil {
		encoded := encodeCafes(*body.FavoriteCafes)
		input.FavoriteCafes = &encoded
	}
	if body.CafeLocations != nil && len(*body.CafeLocations) > 0 {
		center, err := geo.Centroid(*body.CafeLocations)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute centroid"})
		}
		input.CentroidLat = &center.Lat
		input.CentroidLong = &center.Lng
	}

	profile, err := h.profileRepo.UpdatePartial(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func encodeCafes(cafes []models.FavoriteCafe) []string {
	encoded := make([]string, 0, len(cafes))
	for _, cafe := range cafes {
		if strings.TrimSpace(cafe.Name) == "" {
			continue
		}
		encoded = append(encoded, cafe.Encode())
	}
	return encoded
}

func marshalEntries(entries any) []byte {
	encoded, err := json.Marshal(entries)
	if err != nil {
		return nil
	}
	return encoded
}
