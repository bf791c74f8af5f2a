package services

import (
	"context"
	"errors"
	"time"

	"github.com/upb/jwt-auth-api/models"
	"github.com/upb/jwt-auth-api/repositories"
	"github.com/upb/jwt-auth-api/tokens"
	"github.com/upb/jwt-auth-api/utils"
	"go.uber.org/zap"
)

// UpdateProfileInput is the body accepted by the profile update endpoint
type UpdateProfileInput struct {
	Bio      string `json:"bio" validate:"max=500"`
	Location string `json:"location" validate:"max=100"`
	Website  string `json:"website" validate:"omitempty,url,max=2048"`
}

// ProfileService reads and updates the profile attached to a token subject
type ProfileService struct {
	repo   repositories.ProfileRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(repo repositories.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the stored profile for the identity. ErrProfileNotFound is
// returned when the subject never saved one.
func (s *ProfileService) Get(ctx context.Context, claims tokens.Claims) (*models.Profile, error) {
	subject := claims.SubjectID()
	if subject == "" {
		return nil, ErrUnauthorized
	}

	profile, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, WrapInternal("Error accessing profile", err)
	}
	return profile, nil
}

// Update validates input and stores it as the identity's profile
func (s *ProfileService) Update(ctx context.Context, claims tokens.Claims, input UpdateProfileInput) (*models.Profile, error) {
	subject := claims.SubjectID()
	if subject == "" {
		return nil, ErrUnauthorized
	}

	if err := utils.ValidateStruct(&input); err != nil {
		domainErr := NewDomainError(ErrorTypeValidation, ErrInvalidInput.Message, err)
		for field, msg := range utils.GetValidationFields(err) {
			domainErr.WithDetail(field, msg)
		}
		return nil, domainErr
	}

	profile := models.NewProfile(subject, claims.Username, claims.Email)
	profile.Bio = input.Bio
	profile.Location = input.Location
	profile.Website = input.Website
	profile.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, WrapInternal("Error updating profile", err)
	}

	s.logger.Info("profile updated",
		zap.String("sub", subject),
		zap.String("profile_id", profile.ID.String()))

	return profile, nil
}
