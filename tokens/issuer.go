package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs HS256 access tokens with the shared secret.
// Used by tests and developer tooling; the HTTP surface never issues tokens.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer creates an Issuer producing tokens that live for ttl
func NewIssuer(cfg Config, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	o := buildOptions(opts)

	return &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      o.now,
	}, nil
}

// Issue signs a token for id and returns it with its expiry time
func (i *Issuer) Issue(id Identity) (string, time.Time, error) {
	if id.Subject == "" {
		return "", time.Time{}, errors.New("subject is required")
	}

	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		UserID:   UserID(id.Subject),
		Username: id.Username,
		Email:    id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}
