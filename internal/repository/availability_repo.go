package repository

import (
	"context"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

type AvailabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (user_id, date, start_time, end_time, timezone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		slot.UserID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.Timezone,
	).Scan(&slot.ID, &slot.CreatedAt)
}

// DeleteOwned removes a slot only when it belongs to userID. Returns the
// number of rows removed so callers can distinguish "not yours" from done.
func (r *AvailabilityRepository) DeleteOwned(ctx context.Context, id int64, userID string) (int64, error) {
	query := `DELETE FROM availability_slots WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *AvailabilityRepository) ListForUser(ctx context.Context, userID string) ([]models.AvailabilitySlot, error) {
	query := `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), start_time, end_time, timezone, created_at
		FROM availability_slots
		WHERE user_id = $1
		ORDER BY date, start_time
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

// ListWindow returns every slot with a date inside [from, to] inclusive,
// across all users, ordered by user then date so downstream grouping is
// deterministic. from/to are calendar dates formatted "2006-01-02".
func (r *AvailabilityRepository) ListWindow(ctx context.Context, from, to string) ([]models.AvailabilitySlot, error) {
	query := `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), start_time, end_time, timezone, created_at
		FROM availability_slots
		WHERE date BETWEEN $1 AND $2
		ORDER BY user_id, date, start_time
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

func collectSlots(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.AvailabilitySlot, error) {
	slots := []models.AvailabilitySlot{}
	for rows.Next() {
		var slot models.AvailabilitySlot
		err := rows.Scan(
			&slot.ID,
			&slot.UserID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Timezone,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
