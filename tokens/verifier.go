package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret is returned when the signing secret is absent or blank
	ErrMissingSecret = errors.New("signing secret is required")

	// ErrEmptyToken is returned for an empty credential
	ErrEmptyToken = errors.New("empty token")
)

// hmacMethods are the algorithms accepted for a shared signing secret
var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Config holds the shared settings for Verifier and Issuer
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Option customizes a Verifier or Issuer
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for expiry checks and issuance
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Secret) == "" {
		return ErrMissingSecret
	}
	if cfg.Leeway < 0 {
		return fmt.Errorf("invalid leeway: %s", cfg.Leeway)
	}
	return nil
}

// Verifier validates HMAC-signed access tokens against a shared secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a Verifier. An empty secret is a startup error.
func NewVerifier(cfg Config, opts ...Option) (*Verifier, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(hmacMethods),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(o.now),
	}
	if cfg.Leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

// Verify checks the signature and expiry of tokenString and returns the outcome
func (v *Verifier) Verify(tokenString string) Outcome {
	if tokenString == "" {
		return Invalid(FailureMissingCredential, ErrEmptyToken)
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Invalid(classify(err), err)
	}

	if !token.Valid {
		return Invalid(FailureUnknown, jwt.ErrTokenInvalidClaims)
	}

	return Valid(claims)
}

// classify maps a parser error onto a FailureKind.
// The parser checks the signature before claims, so an expiry error implies a good signature.
func classify(err error) FailureKind {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return FailureUnknown
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience):
		return FailureMalformed
	default:
		return FailureUnknown
	}
}
