package models

import "time"

// AvailabilitySlot is one coffee-meeting window a user has opened up.
// Dates are calendar dates ("2006-01-02"); times are 12-hour wall-clock
// strings ("3:30 PM") in the creator's local frame. Slots are only ever
// created and deleted, never mutated.
type AvailabilitySlot struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Timezone  *string   `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}
