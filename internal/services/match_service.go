package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nicolebling/CupCircle-sub000/internal/events"
	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrIncompleteRequest      = errors.New("cafe and time slot are required")
	ErrSlotInPast             = errors.New("slot is in the past")
)

type matchStore interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	UpdateStatus(ctx context.Context, id string, status models.MatchStatus) (*models.Match, error)
	ListForUser(ctx context.Context, userID string) ([]models.Match, error)
	ActiveBetween(ctx context.Context, userA, userB string) (bool, error)
}

type publisher interface {
	Publish(event events.Event)
}

type MatchService struct {
	matches matchStore
	bus     publisher
}

func NewMatchService(matches matchStore, bus publisher) *MatchService {
	return &MatchService{matches: matches, bus: bus}
}

type MatchRequestInput struct {
	TargetID    string
	Cafe        models.FavoriteCafe
	MeetingDate string
	StartTime   string
	EndTime     string
	Message     string
}

// CreateRequest inserts a pending match from requester to target. The only
// completeness rule before insert is that a café and a time slot were both
// chosen; anything else is the target's to accept or decline.
func (s *MatchService) CreateRequest(ctx context.Context, requesterID string, input MatchRequestInput) (*models.Match, error) {
	if requesterID == "" || input.TargetID == "" || requesterID == input.TargetID {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.Cafe.Name) == "" || input.MeetingDate == "" || input.StartTime == "" {
		return nil, ErrIncompleteRequest
	}
	if _, err := time.Parse(dateLayout, input.MeetingDate); err != nil {
		return nil, ErrInvalidInput
	}
	if _, ok := parseClockMinutes(input.StartTime); !ok {
		return nil, ErrInvalidInput
	}
	if input.EndTime != "" {
		if _, ok := parseClockMinutes(input.EndTime); !ok {
			return nil, ErrInvalidInput
		}
	}

	exists, err := s.matches.ActiveBetween(ctx, requesterID, input.TargetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	location := input.Cafe.Encode()
	match := &models.Match{
		ID:              uuid.NewString(),
		User1ID:         requesterID,
		User2ID:         input.TargetID,
		Status:          models.MatchStatusPending,
		MeetingDate:     &input.MeetingDate,
		StartTime:       &input.StartTime,
		MeetingLocation: &location,
	}
	if input.EndTime != "" {
		match.EndTime = &input.EndTime
	}
	if message := strings.TrimSpace(input.Message); message != "" {
		match.InitialMessage = &message
	}

	if err := s.matches.Create(ctx, match); err != nil {
		return nil, err
	}

	s.publish(events.TypeMatchCreated, match)
	return match, nil
}

var matchTransitions = map[models.MatchStatus][]models.MatchStatus{
	models.MatchStatusPending:           {models.MatchStatusPendingAcceptance, models.MatchStatusConfirmed, models.MatchStatusCancelled},
	models.MatchStatusPendingAcceptance: {models.MatchStatusConfirmed, models.MatchStatusCancelled},
	models.MatchStatusConfirmed:         {models.MatchStatusCompleted, models.MatchStatusCancelled},
}

func (s *MatchService) UpdateStatus(ctx context.Context, actorID, matchID string, next models.MatchStatus) (*models.Match, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if match.Counterpart(actorID) == "" {
		return nil, ErrForbidden
	}

	allowed := false
	for _, status := range matchTransitions[match.Status] {
		if status == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.matches.UpdateStatus(ctx, matchID, next)
	if err != nil {
		return nil, err
	}

	s.publish(events.TypeMatchUpdated, updated)
	return updated, nil
}

func (s *MatchService) ListForUser(ctx context.Context, userID string) ([]models.Match, error) {
	return s.matches.ListForUser(ctx, userID)
}

func (s *MatchService) publish(eventType string, match *models.Match) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Type:       eventType,
		Match:      *match,
		Recipients: []string{match.User1ID, match.User2ID},
	})
}
