package repository

import (
	"context"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

const profileColumns = `id, user_id, full_name, avatar_url, occupation, bio, education,
	   experience_level, industry_categories, interests, employment,
	   career_transitions, favorite_cafes, centroid_lat, centroid_long,
	   onboarding_complete, created_at, updated_at`

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID string) error {
	query := `INSERT INTO profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	if err := scanProfile(r.db.QueryRow(ctx, query, userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListByUserIDs returns completed profiles for the given user-ID set,
// ordered by user ID so ranking input is deterministic regardless of how
// the ID set was assembled.
func (r *ProfileRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return []models.Profile{}, nil
	}

	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = ANY($1) AND onboarding_complete
		ORDER BY user_id
	`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0, len(userIDs))
	for rows.Next() {
		var profile models.Profile
		if err := scanProfile(rows, &profile); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) UpdateOnboarding(ctx context.Context, userID string, req ProfileOnboardingInput) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $1,
			occupation = $2,
			bio = $3,
			education = $4,
			experience_level = $5,
			industry_categories = $6,
			interests = $7,
			employment = $8,
			career_transitions = $9,
			favorite_cafes = $10,
			centroid_lat = $11,
			centroid_long = $12,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $13
		RETURNING ` + profileColumns + `
	`
	var profile models.Profile
	err := scanProfile(r.db.QueryRow(ctx, query,
		req.FullName,
		req.Occupation,
		req.Bio,
		req.Education,
		req.ExperienceLevel,
		req.IndustryCategories,
		req.Interests,
		req.Employment,
		req.CareerTransitions,
		req.FavoriteCafes,
		req.CentroidLat,
		req.CentroidLong,
		userID,
	), &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdatePartial(ctx context.Context, userID string, req UpdateProfileInput) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			occupation = COALESCE($3, occupation),
			bio = COALESCE($4, bio),
			education = COALESCE($5, education),
			experience_level = COALESCE($6, experience_level),
			industry_categories = COALESCE($7, industry_categories),
			interests = COALESCE($8, interests),
			employment = COALESCE($9, employment),
			career_transitions = COALESCE($10, career_transitions),
			favorite_cafes = COALESCE($11, favorite_cafes),
			centroid_lat = COALESCE($12, centroid_lat),
			centroid_long = COALESCE($13, centroid_long),
			updated_at = NOW()
		WHERE user_id = $14
		RETURNING ` + profileColumns + `
	`
	var profile models.Profile
	err := scanProfile(r.db.QueryRow(ctx, query,
		req.FullName,
		req.AvatarURL,
		req.Occupation,
		req.Bio,
		req.Education,
		req.ExperienceLevel,
		req.IndustryCategories,
		req.Interests,
		req.Employment,
		req.CareerTransitions,
		req.FavoriteCafes,
		req.CentroidLat,
		req.CentroidLong,
		userID,
	), &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner, profile *models.Profile) error {
	var employment, transitions []byte
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Occupation,
		&profile.Bio,
		&profile.Education,
		&profile.ExperienceLevel,
		&profile.IndustryCategories,
		&profile.Interests,
		&employment,
		&transitions,
		&profile.FavoriteCafes,
		&profile.CentroidLat,
		&profile.CentroidLong,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	profile.Employment = models.DecodeEmployment(employment)
	profile.CareerTransitions = models.DecodeCareerTransitions(transitions)
	return nil
}

type ProfileOnboardingInput struct {
	FullName           string
	Occupation         string
	Bio                string
	Education          string
	ExperienceLevel    string
	IndustryCategories []string
	Interests          []string
	Employment         []byte
	CareerTransitions  []byte
	FavoriteCafes      []string
	CentroidLat        *float64
	CentroidLong       *float64
}

type UpdateProfileInput struct {
	FullName           *string
	AvatarURL          *string
	Occupation         *string
	Bio                *string
	Education          *string
	ExperienceLevel    *string
	IndustryCategories *[]string
	Interests          *[]string
	Employment         []byte
	CareerTransitions  []byte
	FavoriteCafes      *[]string
	CentroidLat        *float64
	CentroidLong       *float64
}
