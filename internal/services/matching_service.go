package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/nicolebling/CupCircle-sub000/internal/geo"
	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

type matchLister interface {
	ListActiveForUser(ctx context.Context, userID string) ([]models.Match, error)
}

type availabilityWindowLister interface {
	ListWindow(ctx context.Context, from, to string) ([]models.AvailabilitySlot, error)
}

type profileLister interface {
	ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Profile, error)
}

// MatchingService produces the ranked candidate list for a requesting user.
// Each call works on a fresh snapshot of matches, availability and
// profiles; nothing is cached between invocations.
type MatchingService struct {
	matches      matchLister
	availability availabilityWindowLister
	profiles     profileLister
	now          func() time.Time
}

func NewMatchingService(
	matches matchLister,
	availability availabilityWindowLister,
	profiles profileLister,
) *MatchingService {
	return &MatchingService{
		matches:      matches,
		availability: availability,
		profiles:     profiles,
		now:          time.Now,
	}
}

// CandidateFilter holds the requester's active filters. An empty set for
// any predicate means "match everything" for that predicate.
type CandidateFilter struct {
	Industries       []string
	ExperienceLevels []string
	Interests        []string
	Keyword          string
	SortByDistance   bool
}

// CandidateSet is one ranking result. Partial is set when a backing fetch
// failed and the pipeline degraded to an empty sub-result instead of
// aborting; callers surface it as a retry affordance.
type CandidateSet struct {
	Candidates []models.Candidate
	Partial    bool
}

// RankCandidates runs the full pipeline: exclude users with an active match
// against the requester, narrow to users with upcoming availability in the
// 7-day window, apply the AND-combined predicate filters, and optionally
// order by café-centroid distance. The only error returned is context
// cancellation; store failures degrade to an empty, Partial-flagged set.
func (s *MatchingService) RankCandidates(ctx context.Context, requester *models.Profile, filter CandidateFilter) (*CandidateSet, error) {
	set := &CandidateSet{Candidates: []models.Candidate{}}
	if requester == nil {
		return set, nil
	}

	excluded := map[string]struct{}{requester.UserID: {}}
	matches, err := s.matches.ListActiveForUser(ctx, requester.UserID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("matching: active match fetch failed, returning partial result: %v", err)
		set.Partial = true
		return set, nil
	}
	for _, match := range matches {
		if other := match.Counterpart(requester.UserID); other != "" {
			excluded[other] = struct{}{}
		}
	}

	now := s.now()
	from := now.Format(dateLayout)
	to := now.AddDate(0, 0, availabilityWindowDays).Format(dateLayout)
	rows, err := s.availability.ListWindow(ctx, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("matching: availability fetch failed, returning partial result: %v", err)
		set.Partial = true
		return set, nil
	}

	valid := FilterValidSlots(now, rows)
	universe := make([]string, 0, len(valid.SlotsByUser))
	for _, userID := range valid.UserIDs() {
		if _, skip := excluded[userID]; skip {
			continue
		}
		universe = append(universe, userID)
	}
	if len(universe) == 0 {
		return set, nil
	}

	profiles, err := s.profiles.ListByUserIDs(ctx, universe)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("matching: profile fetch failed, returning partial result: %v", err)
		set.Partial = true
		return set, nil
	}

	candidates := make([]models.Candidate, 0, len(profiles))
	for i := range profiles {
		if !matchesFilter(&profiles[i], filter) {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Profile:           profiles[i],
			AvailabilitySlots: valid.SlotsByUser[profiles[i].UserID],
		})
	}

	if requester.CentroidLat != nil && requester.CentroidLong != nil {
		for i := range candidates {
			candidate := &candidates[i]
			if candidate.CentroidLat == nil || candidate.CentroidLong == nil {
				continue
			}
			distance := geo.HaversineDistanceMiles(
				*requester.CentroidLat, *requester.CentroidLong,
				*candidate.CentroidLat, *candidate.CentroidLong,
			)
			candidate.Distance = &distance
		}
		if filter.SortByDistance {
			sortByDistance(candidates)
		}
	}

	set.Candidates = candidates
	return set, nil
}

// sortByDistance orders ascending by distance; candidates without a
// centroid sort after everyone else, keeping their relative order.
func sortByDistance(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].Distance, candidates[j].Distance
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}

func matchesFilter(profile *models.Profile, filter CandidateFilter) bool {
	if !intersectsOrEmpty(filter.Industries, stringSlice(profile.IndustryCategories)) {
		return false
	}
	if len(filter.ExperienceLevels) > 0 &&
		!contains(filter.ExperienceLevels, stringOrEmpty(profile.ExperienceLevel)) {
		return false
	}
	if !intersectsOrEmpty(filter.Interests, stringSlice(profile.Interests)) {
		return false
	}
	return keywordMatches(profile, filter.Keyword)
}

func intersectsOrEmpty(filterSet, values []string) bool {
	if len(filterSet) == 0 {
		return true
	}
	for _, value := range values {
		if contains(filterSet, value) {
			return true
		}
	}
	return false
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// keywordMatches does a case-insensitive substring search across the
// profile's free-text fields, including decoded employment and
// career-transition entries. Entries that failed to decode were already
// dropped at the model boundary and are simply not searched.
func keywordMatches(profile *models.Profile, keyword string) bool {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return true
	}

	fields := []string{
		stringOrEmpty(profile.Bio),
		stringOrEmpty(profile.Occupation),
		stringOrEmpty(profile.Education),
	}
	for _, entry := range profile.Employment {
		fields = append(fields, entry.Company, entry.Position)
	}
	for _, transition := range profile.CareerTransitions {
		fields = append(fields, transition.Position1, transition.Position2)
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func stringSlice(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
