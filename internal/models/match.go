package models

import "time"

type MatchStatus string

const (
	MatchStatusPending           MatchStatus = "pending"
	MatchStatusPendingAcceptance MatchStatus = "pending_acceptance"
	MatchStatusConfirmed         MatchStatus = "confirmed"
	MatchStatusCancelled         MatchStatus = "cancelled"
	MatchStatusCompleted         MatchStatus = "completed"
)

// Active reports whether the match still blocks the pair from seeing each
// other in candidate rankings. Cancelled and completed matches do not.
func (s MatchStatus) Active() bool {
	switch s {
	case MatchStatusPending, MatchStatusPendingAcceptance, MatchStatusConfirmed:
		return true
	default:
		return false
	}
}

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusPendingAcceptance, MatchStatusConfirmed,
		MatchStatusCancelled, MatchStatusCompleted:
		return true
	default:
		return false
	}
}

type Match struct {
	ID              string      `json:"id"`
	User1ID         string      `json:"user1_id"`
	User2ID         string      `json:"user2_id"`
	Status          MatchStatus `json:"status"`
	MeetingDate     *string     `json:"meeting_date"`
	StartTime       *string     `json:"start_time"`
	EndTime         *string     `json:"end_time"`
	MeetingLocation *string     `json:"meeting_location"`
	InitialMessage  *string     `json:"initial_message"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Counterpart returns the other participant's user ID, or "" when userID is
// not part of the match.
func (m *Match) Counterpart(userID string) string {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	default:
		return ""
	}
}
