package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/upb/jwt-auth-api/models"
	"github.com/upb/jwt-auth-api/repositories"
	"go.uber.org/zap"
)

// ProfileRepository implements the repositories.ProfileRepository interface
type ProfileRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB, logger *zap.Logger) repositories.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetBySubject retrieves a profile by token subject
func (r *ProfileRepository) GetBySubject(ctx context.Context, subject string) (*models.Profile, error) {
	query := `
		SELECT id, subject, username, email, bio, location, website, created_at, updated_at
		FROM profiles
		WHERE subject = $1
	`

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, subject).Scan(
		&profile.ID,
		&profile.Subject,
		&profile.Username,
		&profile.Email,
		&profile.Bio,
		&profile.Location,
		&profile.Website,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Upsert inserts the profile or updates the existing row for the same subject
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, subject, username, email, bio, location, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (subject) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			website = EXCLUDED.website,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		profile.ID,
		profile.Subject,
		profile.Username,
		profile.Email,
		profile.Bio,
		profile.Location,
		profile.Website,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID, &profile.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	r.logger.Debug("profile saved", zap.String("id", profile.ID.String()), zap.String("subject", profile.Subject))
	return nil
}
