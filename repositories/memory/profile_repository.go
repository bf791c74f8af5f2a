// Package memory provides process-local repositories used when no database
// is configured. Contents are lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/upb/jwt-auth-api/models"
	"github.com/upb/jwt-auth-api/repositories"
)

// ProfileRepository implements repositories.ProfileRepository on a map keyed by subject
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

// NewProfileRepository creates an empty in-memory profile repository
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]models.Profile),
	}
}

// GetBySubject returns a copy of the stored profile
func (r *ProfileRepository) GetBySubject(ctx context.Context, subject string) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[subject]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return &profile, nil
}

// Upsert stores a copy of profile, keeping the original ID and CreatedAt of an existing entry
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.profiles[profile.Subject]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	r.profiles[profile.Subject] = *profile
	return nil
}

var _ repositories.ProfileRepository = (*ProfileRepository)(nil)
