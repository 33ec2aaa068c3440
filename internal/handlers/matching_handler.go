package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
	"github.com/nicolebling/CupCircle-sub000/internal/services"
)

type candidateRanker interface {
	RankCandidates(ctx context.Context, requester *models.Profile, filter services.CandidateFilter) (*services.CandidateSet, error)
}

type requesterProfileReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// Snapshots a user stopped paging through are dropped after this long.
const candidateFeedTTL = 15 * time.Minute

// MatchingHandler serves the candidate feed. It holds one CandidateFeed per
// user so successive requests page through a single ranked snapshot; any
// filter change or explicit refresh re-runs the ranking and resets to the
// first page. Idle snapshots expire after candidateFeedTTL so the map does
// not grow with every user the process ever served.
type MatchingHandler struct {
	ranker      candidateRanker
	profileRepo requesterProfileReader
	now         func() time.Time

	mu    sync.Mutex
	feeds map[string]*feedState
}

type feedState struct {
	filter  services.CandidateFilter
	feed    *services.CandidateFeed
	touched time.Time
}

func NewMatchingHandler(ranker candidateRanker, profileRepo requesterProfileReader) *MatchingHandler {
	return &MatchingHandler{
		ranker:      ranker,
		profileRepo: profileRepo,
		now:         time.Now,
		feeds:       make(map[string]*feedState),
	}
}

func (h *MatchingHandler) GetCandidates(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	filter := services.CandidateFilter{
		Industries:       splitCSV(c.Query("industries")),
		ExperienceLevels: splitCSV(c.Query("experience_levels")),
		Interests:        splitCSV(c.Query("interests")),
		Keyword:          strings.TrimSpace(c.Query("q")),
		SortByDistance:   c.QueryBool("sort_by_distance"),
	}
	refresh := c.QueryBool("refresh")

	now := h.now()
	h.mu.Lock()
	for id, st := range h.feeds {
		if now.Sub(st.touched) > candidateFeedTTL {
			delete(h.feeds, id)
		}
	}
	state := h.feeds[userID]
	if state != nil {
		state.touched = now
	}
	h.mu.Unlock()

	if state == nil || refresh || !filtersEqual(state.filter, filter) {
		profile, err := h.profileRepo.GetByUserID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}

		set, err := h.ranker.RankCandidates(c.Context(), profile, filter)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to rank candidates"})
		}

		state = &feedState{filter: filter, feed: services.NewCandidateFeed(set), touched: now}
		h.mu.Lock()
		h.feeds[userID] = state
		h.mu.Unlock()
	}

	page := state.feed.LoadNext()
	return c.JSON(fiber.Map{
		"candidates": page,
		"page":       state.feed.Page(),
		"total":      state.feed.Total(),
		"has_more":   state.feed.HasMore(),
		"partial":    state.feed.Partial(),
	})
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func filtersEqual(a, b services.CandidateFilter) bool {
	return slicesEqual(a.Industries, b.Industries) &&
		slicesEqual(a.ExperienceLevels, b.ExperienceLevels) &&
		slicesEqual(a.Interests, b.Interests) &&
		a.Keyword == b.Keyword &&
		a.SortByDistance == b.SortByDistance
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
