package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Profile struct {
	ID                 int64              `json:"id"`
	UserID             string             `json:"user_id"`
	FullName           *string            `json:"full_name"`
	AvatarURL          *string            `json:"avatar_url"`
	Occupation         *string            `json:"occupation"`
	Bio                *string            `json:"bio"`
	Education          *string            `json:"education"`
	ExperienceLevel    *string            `json:"experience_level"`
	IndustryCategories *[]string          `json:"industry_categories"`
	Interests          *[]string          `json:"interests"`
	Employment         []EmploymentEntry  `json:"employment"`
	CareerTransitions  []CareerTransition `json:"career_transitions"`
	FavoriteCafes      *[]string          `json:"favorite_cafes"`
	CentroidLat        *float64           `json:"centroid_lat"`
	CentroidLong       *float64           `json:"centroid_long"`
	OnboardingComplete bool               `json:"onboarding_complete"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type EmploymentEntry struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

type CareerTransition struct {
	Position1 string `json:"position1"`
	Position2 string `json:"position2"`
}

// DecodeEmployment accepts the stored jsonb array, whose elements may be
// structured objects or JSON-encoded strings of objects (both forms exist in
// production data). Entries that decode as neither are dropped.
func DecodeEmployment(raw []byte) []EmploymentEntry {
	elements, ok := splitArray(raw)
	if !ok {
		return nil
	}

	entries := make([]EmploymentEntry, 0, len(elements))
	for _, element := range elements {
		var entry EmploymentEntry
		if err := json.Unmarshal(element, &entry); err == nil {
			entries = append(entries, entry)
			continue
		}
		var encoded string
		if err := json.Unmarshal(element, &encoded); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(encoded), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// DecodeCareerTransitions mirrors DecodeEmployment for transition entries.
func DecodeCareerTransitions(raw []byte) []CareerTransition {
	elements, ok := splitArray(raw)
	if !ok {
		return nil
	}

	transitions := make([]CareerTransition, 0, len(elements))
	for _, element := range elements {
		var transition CareerTransition
		if err := json.Unmarshal(element, &transition); err == nil {
			transitions = append(transitions, transition)
			continue
		}
		var encoded string
		if err := json.Unmarshal(element, &encoded); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(encoded), &transition); err != nil {
			continue
		}
		transitions = append(transitions, transition)
	}
	return transitions
}

func splitArray(raw []byte) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}
	return elements, true
}

// cafeDelimiter is the flat encoding used for favorite cafés in existing
// stored rows. Kept for compatibility with data written by older clients.
const cafeDelimiter = "|||"

type FavoriteCafe struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (c FavoriteCafe) Encode() string {
	if c.Address == "" {
		return c.Name
	}
	return c.Name + cafeDelimiter + c.Address
}

func DecodeFavoriteCafe(encoded string) FavoriteCafe {
	name, address, found := strings.Cut(encoded, cafeDelimiter)
	if !found {
		return FavoriteCafe{Name: encoded}
	}
	return FavoriteCafe{Name: name, Address: address}
}
