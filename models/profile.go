package models

import (
	"time"

	"github.com/google/uuid"
)

// Placeholders shown for profile fields the user never filled in
const (
	DefaultBio      = "No bio provided"
	DefaultLocation = "No location provided"
	DefaultWebsite  = "No website provided"
)

// Profile holds the editable details of an authenticated user, keyed by token subject
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Subject   string    `json:"subject" db:"subject"` // token "sub" claim
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Bio       string    `json:"bio" db:"bio"`
	Location  string    `json:"location" db:"location"`
	Website   string    `json:"website" db:"website"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewProfile creates a new, empty Profile for a subject
func NewProfile(subject, username, email string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		ID:        uuid.New(),
		Subject:   subject,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithDefaults returns a copy with placeholders in place of empty fields
func (p Profile) WithDefaults() Profile {
	if p.Bio == "" {
		p.Bio = DefaultBio
	}
	if p.Location == "" {
		p.Location = DefaultLocation
	}
	if p.Website == "" {
		p.Website = DefaultWebsite
	}
	return p
}
