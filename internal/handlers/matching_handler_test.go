package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
	"github.com/nicolebling/CupCircle-sub000/internal/services"
)

type stubRanker struct {
	set    *services.CandidateSet
	filter services.CandidateFilter
	calls  int
}

func (s *stubRanker) RankCandidates(_ context.Context, _ *models.Profile, filter services.CandidateFilter) (*services.CandidateSet, error) {
	s.calls++
	s.filter = filter
	return s.set, nil
}

type stubRequesterRepo struct {
	profile *models.Profile
	err     error
}

func (s *stubRequesterRepo) GetByUserID(_ context.Context, _ string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func candidateSet(total int) *services.CandidateSet {
	candidates := make([]models.Candidate, total)
	for i := range candidates {
		candidates[i] = models.Candidate{Profile: models.Profile{UserID: strconv.Itoa(i)}}
	}
	return &services.CandidateSet{Candidates: candidates}
}

func newMatchingApp(handler *MatchingHandler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "me")
		return c.Next()
	})
	app.Get("/api/v1/matching/candidates", handler.GetCandidates)
	return app
}

type candidatesResponse struct {
	Candidates []models.Candidate `json:"candidates"`
	Page       int                `json:"page"`
	Total      int                `json:"total"`
	HasMore    bool               `json:"has_more"`
	Partial    bool               `json:"partial"`
}

func getCandidates(t *testing.T, app *fiber.App, query string) candidatesResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matching/candidates"+query, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body candidatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestGetCandidatesPagesThroughOneSnapshot(t *testing.T) {
	ranker := &stubRanker{set: candidateSet(25)}
	handler := NewMatchingHandler(ranker, &stubRequesterRepo{profile: &models.Profile{UserID: "me"}})
	app := newMatchingApp(handler)

	for i, want := range []int{10, 10, 5} {
		body := getCandidates(t, app, "")
		if len(body.Candidates) != want {
			t.Fatalf("request %d: expected %d candidates, got %d", i+1, want, len(body.Candidates))
		}
		if body.Total != 25 {
			t.Fatalf("expected total 25, got %d", body.Total)
		}
	}

	body := getCandidates(t, app, "")
	if len(body.Candidates) != 0 || body.HasMore {
		t.Fatalf("expected exhausted feed, got %d candidates has_more=%v", len(body.Candidates), body.HasMore)
	}
	if ranker.calls != 1 {
		t.Fatalf("expected a single ranking for unchanged filters, got %d", ranker.calls)
	}
}

func TestGetCandidatesFilterChangeResetsFeed(t *testing.T) {
	ranker := &stubRanker{set: candidateSet(15)}
	handler := NewMatchingHandler(ranker, &stubRequesterRepo{profile: &models.Profile{UserID: "me"}})
	app := newMatchingApp(handler)

	getCandidates(t, app, "")
	getCandidates(t, app, "")

	body := getCandidates(t, app, "?industries=Technology,Finance&sort_by_distance=true")
	if len(body.Candidates) != 10 || body.Page != 1 {
		t.Fatalf("expected fresh first page after filter change, got %d candidates page %d", len(body.Candidates), body.Page)
	}
	if ranker.calls != 2 {
		t.Fatalf("expected re-ranking on filter change, got %d calls", ranker.calls)
	}
	if len(ranker.filter.Industries) != 2 || ranker.filter.Industries[0] != "Technology" {
		t.Fatalf("unexpected parsed industries: %v", ranker.filter.Industries)
	}
	if !ranker.filter.SortByDistance {
		t.Fatal("expected sort_by_distance parsed")
	}
}

func TestGetCandidatesRefreshResets(t *testing.T) {
	ranker := &stubRanker{set: candidateSet(5)}
	handler := NewMatchingHandler(ranker, &stubRequesterRepo{profile: &models.Profile{UserID: "me"}})
	app := newMatchingApp(handler)

	getCandidates(t, app, "")
	body := getCandidates(t, app, "?refresh=true")
	if len(body.Candidates) != 5 || body.Page != 1 {
		t.Fatalf("expected refreshed first page, got %d candidates page %d", len(body.Candidates), body.Page)
	}
	if ranker.calls != 2 {
		t.Fatalf("expected re-ranking on refresh, got %d calls", ranker.calls)
	}
}

func TestGetCandidatesIdleFeedExpires(t *testing.T) {
	ranker := &stubRanker{set: candidateSet(15)}
	handler := NewMatchingHandler(ranker, &stubRequesterRepo{profile: &models.Profile{UserID: "me"}})
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	handler.now = func() time.Time { return clock }
	app := newMatchingApp(handler)

	getCandidates(t, app, "")

	clock = clock.Add(5 * time.Minute)
	body := getCandidates(t, app, "")
	if body.Page != 2 || ranker.calls != 1 {
		t.Fatalf("fresh feed must keep paging, got page %d after %d rankings", body.Page, ranker.calls)
	}

	clock = clock.Add(candidateFeedTTL + time.Minute)
	body = getCandidates(t, app, "")
	if body.Page != 1 || len(body.Candidates) != 10 {
		t.Fatalf("expected a fresh first page after expiry, got page %d with %d candidates", body.Page, len(body.Candidates))
	}
	if ranker.calls != 2 {
		t.Fatalf("expected re-ranking after expiry, got %d calls", ranker.calls)
	}
}

func TestGetCandidatesPartialFlagSurfaced(t *testing.T) {
	ranker := &stubRanker{set: &services.CandidateSet{Candidates: []models.Candidate{}, Partial: true}}
	handler := NewMatchingHandler(ranker, &stubRequesterRepo{profile: &models.Profile{UserID: "me"}})
	app := newMatchingApp(handler)

	body := getCandidates(t, app, "")
	if !body.Partial {
		t.Fatal("expected partial flag in response")
	}
	if len(body.Candidates) != 0 {
		t.Fatalf("expected empty candidates, got %d", len(body.Candidates))
	}
}

func TestGetCandidatesProfileNotFound(t *testing.T) {
	handler := NewMatchingHandler(&stubRanker{set: candidateSet(0)}, &stubRequesterRepo{err: pgx.ErrNoRows})
	app := newMatchingApp(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matching/candidates", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSplitCSV(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	got := splitCSV(" Technology , ,Finance")
	if len(got) != 2 || got[0] != "Technology" || got[1] != "Finance" {
		t.Fatalf("unexpected split: %v", got)
	}
}
