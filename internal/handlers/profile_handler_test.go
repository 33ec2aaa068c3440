package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
	"github.com/nicolebling/CupCircle-sub000/internal/repository"
)

type stubProfileStore struct {
	profile     *models.Profile
	getErr      error
	rowMissing  bool
	createdFor  string
	onboarding  repository.ProfileOnboardingInput
	update      repository.UpdateProfileInput
	updateCalls int
}

func (s *stubProfileStore) CreateEmpty(_ context.Context, userID string) error {
	s.createdFor = userID
	s.rowMissing = false
	return nil
}

func (s *stubProfileStore) GetByUserID(_ context.Context, _ string) (*models.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.profile, nil
}

func (s *stubProfileStore) UpdateOnboarding(_ context.Context, _ string, req repository.ProfileOnboardingInput) (*models.Profile, error) {
	s.updateCalls++
	if s.rowMissing {
		return nil, pgx.ErrNoRows
	}
	s.onboarding = req
	return s.profile, nil
}

func (s *stubProfileStore) UpdatePartial(_ context.Context, _ string, req repository.UpdateProfileInput) (*models.Profile, error) {
	s.update = req
	return s.profile, nil
}

func newProfileApp(handler *ProfileHandler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "me")
		return c.Next()
	})
	app.Get("/api/v1/profile", handler.GetProfile)
	app.Post("/api/v1/profile/onboarding", handler.Onboarding)
	app.Put("/api/v1/profile", handler.UpdateProfile)
	return app
}

func TestGetProfileNotFound(t *testing.T) {
	app := newProfileApp(NewProfileHandler(&stubProfileStore{getErr: pgx.ErrNoRows}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestOnboardingComputesCentroidAndEncodesCafes(t *testing.T) {
	store := &stubProfileStore{profile: &models.Profile{UserID: "me"}}
	app := newProfileApp(NewProfileHandler(store))

	payload := `{
		"full_name": "Ada Lovelace",
		"occupation": "Engineer",
		"industry_categories": ["Technology"],
		"favorite_cafes": [
			{"name": "Blue Bottle", "address": "76 9th Ave"},
			{"name": "", "address": "ignored"}
		],
		"cafe_locations": [
			{"lat": 40.0, "lng": -74.0},
			{"lat": 42.0, "lng": -72.0}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/onboarding", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(store.onboarding.FavoriteCafes) != 1 || store.onboarding.FavoriteCafes[0] != "Blue Bottle|||76 9th Ave" {
		t.Fatalf("unexpected encoded cafes: %v", store.onboarding.FavoriteCafes)
	}
	if store.onboarding.CentroidLat == nil || store.onboarding.CentroidLong == nil {
		t.Fatal("expected centroid to be computed")
	}
	if *store.onboarding.CentroidLat != 41.0 || *store.onboarding.CentroidLong != -73.0 {
		t.Fatalf("unexpected centroid: %v, %v", *store.onboarding.CentroidLat, *store.onboarding.CentroidLong)
	}
}

func TestOnboardingCreatesMissingRow(t *testing.T) {
	store := &stubProfileStore{profile: &models.Profile{UserID: "me"}, rowMissing: true}
	app := newProfileApp(NewProfileHandler(store))

	payload := `{"full_name": "Ada Lovelace", "occupation": "Engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/onboarding", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.createdFor != "me" {
		t.Fatalf("expected empty row created for the token user, got %q", store.createdFor)
	}
	if store.updateCalls != 2 {
		t.Fatalf("expected onboarding retried after row creation, got %d calls", store.updateCalls)
	}
}

func TestOnboardingValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"missing name", `{"occupation": "Engineer"}`},
		{"missing occupation", `{"full_name": "Ada"}`},
		{"too many industries", `{"full_name": "Ada", "occupation": "Engineer", "industry_categories": ["a","b","c","d"]}`},
	}

	for _, tc := range cases {
		app := newProfileApp(NewProfileHandler(&stubProfileStore{}))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/onboarding", strings.NewReader(tc.payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", tc.name, resp.StatusCode)
		}
	}
}

func TestUpdateProfileLeavesCentroidUntouchedWithoutLocations(t *testing.T) {
	store := &stubProfileStore{profile: &models.Profile{UserID: "me"}}
	app := newProfileApp(NewProfileHandler(store))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"bio": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.update.Bio == nil || *store.update.Bio != "hello" {
		t.Fatalf("expected bio passed through, got %v", store.update.Bio)
	}
	if store.update.CentroidLat != nil || store.update.CentroidLong != nil {
		t.Fatal("centroid should not change when no locations are sent")
	}
	if store.update.FullName != nil {
		t.Fatalf("expected unset fields to stay nil, got %v", store.update.FullName)
	}
}
