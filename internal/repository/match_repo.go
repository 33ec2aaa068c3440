package repository

import (
	"context"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

const matchColumns = `id, user1_id, user2_id, status, meeting_date, start_time, end_time,
	   meeting_location, initial_message, created_at, updated_at`

type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, user1_id, user2_id, status, meeting_date,
							 start_time, end_time, meeting_location, initial_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		match.ID,
		match.User1ID,
		match.User2ID,
		match.Status,
		match.MeetingDate,
		match.StartTime,
		match.EndTime,
		match.MeetingLocation,
		match.InitialMessage,
	).Scan(&match.CreatedAt, &match.UpdatedAt)
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE id = $1
	`
	var match models.Match
	if err := scanMatch(r.db.QueryRow(ctx, query, id), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// ListActiveForUser returns every match involving userID whose status still
// blocks the pair from re-matching (pending, pending_acceptance, confirmed).
func (r *MatchRepository) ListActiveForUser(ctx context.Context, userID string) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (user1_id = $1 OR user2_id = $1)
		  AND status IN ('pending', 'pending_acceptance', 'confirmed')
		ORDER BY created_at
	`
	return r.listForQuery(ctx, query, userID)
}

func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	return r.listForQuery(ctx, query, userID)
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, id string, status models.MatchStatus) (*models.Match, error) {
	query := `
		UPDATE matches
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + matchColumns + `
	`
	var match models.Match
	if err := scanMatch(r.db.QueryRow(ctx, query, status, id), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// ActiveBetween reports whether an active match already links the two users
// in either direction.
func (r *MatchRepository) ActiveBetween(ctx context.Context, userA, userB string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE ((user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1))
			  AND status IN ('pending', 'pending_acceptance', 'confirmed')
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userA, userB).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *MatchRepository) listForQuery(ctx context.Context, query string, args ...any) ([]models.Match, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		var match models.Match
		if err := scanMatch(rows, &match); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func scanMatch(row rowScanner, match *models.Match) error {
	return row.Scan(
		&match.ID,
		&match.User1ID,
		&match.User2ID,
		&match.Status,
		&match.MeetingDate,
		&match.StartTime,
		&match.EndTime,
		&match.MeetingLocation,
		&match.InitialMessage,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
}
