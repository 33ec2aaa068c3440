package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

const (
	availabilityWindowDays = 7
	dateLayout             = "2006-01-02"
	clockLayout            = "3:04 PM"
)

type availabilitySlotStore interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	DeleteOwned(ctx context.Context, id int64, userID string) (int64, error)
	ListForUser(ctx context.Context, userID string) ([]models.AvailabilitySlot, error)
}

type AvailabilityService struct {
	slots availabilitySlotStore
	now   func() time.Time
}

func NewAvailabilityService(slots availabilitySlotStore) *AvailabilityService {
	return &AvailabilityService{slots: slots, now: time.Now}
}

type CreateSlotInput struct {
	Date      string
	StartTime string
	EndTime   string
	Timezone  *string
}

func (s *AvailabilityService) CreateSlot(ctx context.Context, userID string, input CreateSlotInput) (*models.AvailabilitySlot, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	now := s.now()
	// Dates are naive calendar days; anchor them in now's location so the
	// today comparison is offset-free.
	date, err := time.ParseInLocation(dateLayout, input.Date, now.Location())
	if err != nil {
		return nil, ErrInvalidInput
	}
	start, ok := parseClockMinutes(input.StartTime)
	if !ok {
		return nil, ErrInvalidInput
	}
	end, ok := parseClockMinutes(input.EndTime)
	if !ok || end <= start {
		return nil, ErrInvalidInput
	}

	today := dateOnly(now)
	if date.Before(today) {
		return nil, ErrSlotInPast
	}
	if date.Equal(today) && start <= minutesOfDay(now) {
		return nil, ErrSlotInPast
	}

	slot := &models.AvailabilitySlot{
		UserID:    userID,
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Timezone:  input.Timezone,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *AvailabilityService) DeleteSlot(ctx context.Context, userID string, id int64) error {
	deleted, err := s.slots.DeleteOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AvailabilityService) ListSlots(ctx context.Context, userID string) ([]models.AvailabilitySlot, error) {
	return s.slots.ListForUser(ctx, userID)
}

// ValidAvailability is the availability picture at one instant: each user's
// still-upcoming slots inside the rolling window, ordered by date then
// start time.
type ValidAvailability struct {
	SlotsByUser map[string][]models.AvailabilitySlot
}

// UserIDs returns the users with at least one valid slot, sorted so that
// downstream consumers see the same universe no matter how the input rows
// were ordered.
func (v ValidAvailability) UserIDs() []string {
	ids := make([]string, 0, len(v.SlotsByUser))
	for id := range v.SlotsByUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (v ValidAvailability) HasUpcoming(userID string) bool {
	return len(v.SlotsByUser[userID]) > 0
}

// FilterValidSlots keeps the rows that are still bookable as of now: date
// inside [today, today+7] inclusive, and strictly in the future (today's
// rows need a start time past the current wall clock). Rows with dates or
// times that do not parse are dropped; one bad row never aborts the batch.
func FilterValidSlots(now time.Time, rows []models.AvailabilitySlot) ValidAvailability {
	today := dateOnly(now)
	windowEnd := today.AddDate(0, 0, availabilityWindowDays)
	nowMinutes := minutesOfDay(now)

	type timedSlot struct {
		slot  models.AvailabilitySlot
		date  time.Time
		start int
	}
	byUser := make(map[string][]timedSlot)
	for _, row := range rows {
		// Anchor the row's naive date in now's location; parsing in UTC
		// would shift the today boundary by the zone offset.
		date, err := time.ParseInLocation(dateLayout, row.Date, now.Location())
		if err != nil {
			continue
		}
		if date.Before(today) || date.After(windowEnd) {
			continue
		}
		start, ok := parseClockMinutes(row.StartTime)
		if !ok {
			continue
		}
		if date.Equal(today) && start <= nowMinutes {
			continue
		}
		byUser[row.UserID] = append(byUser[row.UserID], timedSlot{slot: row, date: date, start: start})
	}

	valid := ValidAvailability{SlotsByUser: make(map[string][]models.AvailabilitySlot, len(byUser))}
	for userID, timed := range byUser {
		sort.SliceStable(timed, func(i, j int) bool {
			if !timed[i].date.Equal(timed[j].date) {
				return timed[i].date.Before(timed[j].date)
			}
			return timed[i].start < timed[j].start
		})
		slots := make([]models.AvailabilitySlot, len(timed))
		for i, ts := range timed {
			slots[i] = ts.slot
		}
		valid.SlotsByUser[userID] = slots
	}
	return valid
}

// parseClockMinutes converts a 12-hour wall-clock string ("3:30 PM") to
// minutes since midnight. ok is false for anything that does not parse,
// including a missing AM/PM marker.
func parseClockMinutes(raw string) (int, bool) {
	parsed, err := time.Parse(clockLayout, strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return 0, false
	}
	return parsed.Hour()*60 + parsed.Minute(), true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
