package repositories

import (
	"context"
	"errors"

	"github.com/upb/jwt-auth-api/models"
)

// ErrProfileNotFound is returned when no profile exists for a subject
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository handles profile data operations
type ProfileRepository interface {
	// GetBySubject retrieves the profile owned by a token subject.
	// Returns ErrProfileNotFound when there is none.
	GetBySubject(ctx context.Context, subject string) (*models.Profile, error)

	// Upsert creates the profile or replaces the editable fields of an existing one.
	// The stored row is written back into profile (ID, CreatedAt).
	Upsert(ctx context.Context, profile *models.Profile) error
}

// HealthChecker is implemented by stores backed by an external system
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Profiles ProfileRepository
}
