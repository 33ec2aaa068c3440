package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/nicolebling/CupCircle-sub000/internal/events"
	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

type stubMatchStore struct {
	created       *models.Match
	existing      *models.Match
	activeBetween bool
	updated       *models.Match
	list          []models.Match
	getErr        error
}

func (s *stubMatchStore) Create(_ context.Context, match *models.Match) error {
	s.created = match
	return nil
}

func (s *stubMatchStore) GetByID(_ context.Context, _ string) (*models.Match, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.existing, nil
}

func (s *stubMatchStore) UpdateStatus(_ context.Context, id string, status models.MatchStatus) (*models.Match, error) {
	updated := *s.existing
	updated.ID = id
	updated.Status = status
	s.updated = &updated
	return &updated, nil
}

func (s *stubMatchStore) ListForUser(_ context.Context, _ string) ([]models.Match, error) {
	return s.list, nil
}

func (s *stubMatchStore) ActiveBetween(_ context.Context, _, _ string) (bool, error) {
	return s.activeBetween, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(event events.Event) {
	b.published = append(b.published, event)
}

func validRequest() MatchRequestInput {
	return MatchRequestInput{
		TargetID:    "them",
		Cafe:        models.FavoriteCafe{Name: "Blue Bottle", Address: "76 9th Ave"},
		MeetingDate: "2024-06-10",
		StartTime:   "9:30 AM",
		EndTime:     "10:30 AM",
		Message:     "Coffee?",
	}
}

func TestCreateRequestHappyPath(t *testing.T) {
	store := &stubMatchStore{}
	bus := &recordingBus{}
	service := NewMatchService(store, bus)

	match, err := service.CreateRequest(context.Background(), "me", validRequest())
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if match.ID == "" {
		t.Fatal("expected generated match id")
	}
	if match.Status != models.MatchStatusPending {
		t.Fatalf("expected pending, got %s", match.Status)
	}
	if match.MeetingLocation == nil || *match.MeetingLocation != "Blue Bottle|||76 9th Ave" {
		t.Fatalf("expected encoded cafe, got %v", match.MeetingLocation)
	}
	if store.created == nil {
		t.Fatal("expected match persisted")
	}
	if len(bus.published) != 1 || bus.published[0].Type != events.TypeMatchCreated {
		t.Fatalf("expected match.created event, got %+v", bus.published)
	}
	if got := bus.published[0].Recipients; len(got) != 2 || got[0] != "me" || got[1] != "them" {
		t.Fatalf("unexpected recipients: %v", got)
	}
}

func TestCreateRequestRequiresCafeAndSlot(t *testing.T) {
	service := NewMatchService(&stubMatchStore{}, nil)

	missingCafe := validRequest()
	missingCafe.Cafe = models.FavoriteCafe{}
	missingDate := validRequest()
	missingDate.MeetingDate = ""
	missingStart := validRequest()
	missingStart.StartTime = ""

	for _, input := range []MatchRequestInput{missingCafe, missingDate, missingStart} {
		if _, err := service.CreateRequest(context.Background(), "me", input); !errors.Is(err, ErrIncompleteRequest) {
			t.Fatalf("expected ErrIncompleteRequest, got %v", err)
		}
	}
}

func TestCreateRequestRejectsSelfAndMalformed(t *testing.T) {
	service := NewMatchService(&stubMatchStore{}, nil)

	self := validRequest()
	self.TargetID = "me"
	if _, err := service.CreateRequest(context.Background(), "me", self); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self match, got %v", err)
	}

	badDate := validRequest()
	badDate.MeetingDate = "June 10th"
	if _, err := service.CreateRequest(context.Background(), "me", badDate); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}

	badTime := validRequest()
	badTime.StartTime = "09:30"
	if _, err := service.CreateRequest(context.Background(), "me", badTime); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad time, got %v", err)
	}
}

func TestCreateRequestConflictsOnActiveMatch(t *testing.T) {
	service := NewMatchService(&stubMatchStore{activeBetween: true}, nil)
	if _, err := service.CreateRequest(context.Background(), "me", validRequest()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		from models.MatchStatus
		to   models.MatchStatus
		want error
	}{
		{models.MatchStatusPending, models.MatchStatusConfirmed, nil},
		{models.MatchStatusPending, models.MatchStatusPendingAcceptance, nil},
		{models.MatchStatusPendingAcceptance, models.MatchStatusConfirmed, nil},
		{models.MatchStatusConfirmed, models.MatchStatusCompleted, nil},
		{models.MatchStatusConfirmed, models.MatchStatusCancelled, nil},
		{models.MatchStatusCompleted, models.MatchStatusConfirmed, ErrInvalidStateTransition},
		{models.MatchStatusCancelled, models.MatchStatusCancelled, ErrInvalidStateTransition},
		{models.MatchStatusPending, models.MatchStatusCompleted, ErrInvalidStateTransition},
	}

	for _, tc := range cases {
		store := &stubMatchStore{existing: &models.Match{
			ID: "m1", User1ID: "me", User2ID: "them", Status: tc.from,
		}}
		bus := &recordingBus{}
		service := NewMatchService(store, bus)

		updated, err := service.UpdateStatus(context.Background(), "them", "m1", tc.to)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, err)
		}
		if tc.want == nil {
			if updated.Status != tc.to {
				t.Fatalf("expected status %s, got %s", tc.to, updated.Status)
			}
			if len(bus.published) != 1 || bus.published[0].Type != events.TypeMatchUpdated {
				t.Fatalf("expected match.updated event, got %+v", bus.published)
			}
		}
	}
}

func TestUpdateStatusAuthorization(t *testing.T) {
	store := &stubMatchStore{existing: &models.Match{
		ID: "m1", User1ID: "me", User2ID: "them", Status: models.MatchStatusPending,
	}}
	service := NewMatchService(store, nil)

	if _, err := service.UpdateStatus(context.Background(), "stranger", "m1", models.MatchStatusConfirmed); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := service.UpdateStatus(context.Background(), "them", "m1", models.MatchStatus("nope")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	service := NewMatchService(&stubMatchStore{getErr: pgx.ErrNoRows}, nil)
	if _, err := service.UpdateStatus(context.Background(), "me", "missing", models.MatchStatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
