package middleware

import (
	"net/http"
	"strings"

	"github.com/upb/jwt-auth-api/tokens"
	"github.com/upb/jwt-auth-api/utils"
	"go.uber.org/zap"
)

// TokenVerifier defines the interface for verifying bearer tokens
type TokenVerifier interface {
	// Verify checks a token and classifies the result
	Verify(token string) tokens.Outcome
}

// AuthMiddleware provides the mandatory and optional authentication gates
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// authenticate runs extraction and verification for one request
func (m *AuthMiddleware) authenticate(r *http.Request) tokens.Outcome {
	token, ok := BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return tokens.Invalid(tokens.FailureMissingCredential, nil)
	}
	return m.verifier.Verify(token)
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer token.
// On success the claims are attached and next is invoked exactly once.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		outcome := m.authenticate(r)
		claims, ok := outcome.Claims()
		if !ok {
			kind := outcome.Failure()
			m.logger.Warn("authentication rejected",
				zap.String("request_id", requestID),
				zap.String("reason", kind.String()),
				zap.Error(outcome.Err()))
			if err := utils.WriteUnauthorized(w, kind.Message()); err != nil {
				m.logger.Error("failed to write unauthorized response", zap.Error(err))
			}
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", claims.SubjectID()))

		next.ServeHTTP(w, r.WithContext(withClaims(ctx, claims)))
	})
}

// OptionalAuth attaches claims when the request carries a valid bearer token and
// always invokes next exactly once. Failures are only logged.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		outcome := m.authenticate(r)
		if claims, ok := outcome.Claims(); ok {
			ctx = withClaims(ctx, claims)
		} else if kind := outcome.Failure(); kind != tokens.FailureMissingCredential {
			m.logger.Debug("optional auth: invalid token provided",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.String("reason", kind.String()))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the credential from an Authorization header value of the
// form "Bearer <token>". The scheme is case-sensitive; any other scheme, a missing
// scheme or an empty token yields ok=false, the same as an absent header.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}
