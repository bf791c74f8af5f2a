package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/jwt-auth-api/middleware"
	"github.com/upb/jwt-auth-api/models"
	"github.com/upb/jwt-auth-api/repositories/memory"
	"github.com/upb/jwt-auth-api/services"
	"github.com/upb/jwt-auth-api/tokens"
	"github.com/upb/jwt-auth-api/utils"
	"go.uber.org/zap"
)

const handlerTestSecret = "handler-test-secret"

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, claims tokens.Claims) (*models.Profile, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, claims tokens.Claims, input services.UpdateProfileInput) (*models.Profile, error) {
	args := m.Called(ctx, claims, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// testAuth bundles a gate and an issuer sharing handlerTestSecret
type testAuth struct {
	gate   *middleware.AuthMiddleware
	issuer *tokens.Issuer
}

func newTestAuth(t *testing.T) testAuth {
	t.Helper()
	cfg := tokens.Config{Secret: handlerTestSecret}
	verifier, err := tokens.NewVerifier(cfg)
	require.NoError(t, err)
	issuer, err := tokens.NewIssuer(cfg, time.Hour)
	require.NoError(t, err)
	return testAuth{
		gate:   middleware.NewAuthMiddleware(verifier, zap.NewNop()),
		issuer: issuer,
	}
}

func (a testAuth) token(t *testing.T, id tokens.Identity) string {
	t.Helper()
	token, _, err := a.issuer.Issue(id)
	require.NoError(t, err)
	return token
}

func alice() tokens.Identity {
	return tokens.Identity{Subject: "user-1", Username: "alice", Email: "alice@example.com"}
}

func doRequest(h http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	auth := newTestAuth(t)
	handler := NewProtectedHandler(new(MockProfileService), zap.NewNop())

	routes := map[string]http.HandlerFunc{
		"/api/protected/profile":        handler.HandleProfile,
		"/api/protected/dashboard":      handler.HandleDashboard,
		"/api/protected/update-profile": handler.HandleUpdateProfile,
		"/api/protected/settings":       handler.HandleSettings,
		"/api/protected/logout":         handler.HandleLogout,
	}

	for path, h := range routes {
		t.Run(path, func(t *testing.T) {
			w := doRequest(auth.gate.RequireAuth(h), http.MethodGet, path, "", nil)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"Access token is required"}`, w.Body.String())
		})
	}
}

func TestHandleProfile(t *testing.T) {
	auth := newTestAuth(t)

	t.Run("returns claims and stored profile", func(t *testing.T) {
		profiles := new(MockProfileService)
		stored := models.NewProfile("user-1", "alice", "alice@example.com")
		stored.Bio = "Gopher"
		profiles.On("Get", mock.Anything, mock.MatchedBy(func(c tokens.Claims) bool {
			return c.Subject == "user-1"
		})).Return(stored, nil)

		handler := NewProtectedHandler(profiles, zap.NewNop())
		w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleProfile)),
			http.MethodGet, "/api/protected/profile", auth.token(t, alice()), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeEnvelope(t, w)
		assert.Equal(t, true, response["success"])
		assert.Equal(t, "Profile accessed successfully", response["message"])

		data := response["data"].(map[string]interface{})
		user := data["user"].(map[string]interface{})
		assert.Equal(t, "user-1", user["sub"])
		assert.Equal(t, "user-1", user["id"])
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "alice@example.com", user["email"])
		assert.NotNil(t, user["exp"])

		profile := data["profile"].(map[string]interface{})
		assert.Equal(t, "Gopher", profile["bio"])
		assert.Equal(t, models.DefaultLocation, profile["location"])
		profiles.AssertExpectations(t)
	})

	t.Run("echoes every claim of the token", func(t *testing.T) {
		profiles := new(MockProfileService)
		profiles.On("Get", mock.Anything, mock.Anything).Return(nil, services.ErrProfileNotFound)

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":      "user-2",
			"username": 7,
			"role":     "admin",
			"exp":      time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(handlerTestSecret))
		require.NoError(t, err)

		handler := NewProtectedHandler(profiles, zap.NewNop())
		w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleProfile)),
			http.MethodGet, "/api/protected/profile", token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		user := decodeEnvelope(t, w)["data"].(map[string]interface{})["user"].(map[string]interface{})
		assert.Equal(t, "user-2", user["sub"])
		assert.Equal(t, "admin", user["role"])
		assert.EqualValues(t, 7, user["username"])
	})

	t.Run("no stored profile omits it", func(t *testing.T) {
		profiles := new(MockProfileService)
		profiles.On("Get", mock.Anything, mock.Anything).Return(nil, services.ErrProfileNotFound)

		handler := NewProtectedHandler(profiles, zap.NewNop())
		w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleProfile)),
			http.MethodGet, "/api/protected/profile", auth.token(t, alice()), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeEnvelope(t, w)["data"].(map[string]interface{})
		assert.NotContains(t, data, "profile")
		assert.Contains(t, data["message"], "protected route")
	})

	t.Run("store failure", func(t *testing.T) {
		profiles := new(MockProfileService)
		profiles.On("Get", mock.Anything, mock.Anything).
			Return(nil, services.WrapInternal("Error accessing profile", errors.New("pq: timeout")))

		handler := NewProtectedHandler(profiles, zap.NewNop())
		w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleProfile)),
			http.MethodGet, "/api/protected/profile", auth.token(t, alice()), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Error accessing profile"}`, w.Body.String())
	})

	t.Run("without gate", func(t *testing.T) {
		handler := NewProtectedHandler(new(MockProfileService), zap.NewNop())
		w := doRequest(http.HandlerFunc(handler.HandleProfile), http.MethodGet, "/api/protected/profile", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandleDashboard(t *testing.T) {
	auth := newTestAuth(t)
	fixed := time.Date(2026, time.May, 4, 12, 0, 0, 0, time.UTC)

	handler := NewProtectedHandler(new(MockProfileService), zap.NewNop())
	handler.now = func() time.Time { return fixed }

	w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleDashboard)),
		http.MethodGet, "/api/protected/dashboard", auth.token(t, alice()), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    DashboardResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.True(t, response.Success)
	assert.Equal(t, "Dashboard accessed successfully", response.Message)
	assert.Equal(t, "alice", response.Data.User.Username)
	assert.Equal(t, 15, response.Data.Stats.TotalPosts)
	assert.Equal(t, 234, response.Data.Stats.TotalLikes)
	assert.Equal(t, 89, response.Data.Stats.TotalComments)
	require.Len(t, response.Data.RecentActivity, 3)
	assert.Equal(t, "2026-05-04T12:00:00Z", response.Data.RecentActivity[0].Timestamp)
	assert.Equal(t, "2026-05-04T11:00:00Z", response.Data.RecentActivity[1].Timestamp)
	assert.Equal(t, "2026-05-04T10:00:00Z", response.Data.RecentActivity[2].Timestamp)
}

func TestHandleUpdateProfile(t *testing.T) {
	auth := newTestAuth(t)

	newRealHandler := func() http.Handler {
		svc := services.NewProfileService(memory.NewProfileRepository(), zap.NewNop())
		handler := NewProtectedHandler(svc, zap.NewNop())
		return auth.gate.RequireAuth(http.HandlerFunc(handler.HandleUpdateProfile))
	}

	t.Run("stores and echoes profile with defaults", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"bio": "Gopher", "website": "https://go.dev"})
		w := doRequest(newRealHandler(), http.MethodPost, "/api/protected/update-profile", auth.token(t, alice()), body)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeEnvelope(t, w)
		assert.Equal(t, "Profile updated successfully", response["message"])

		profile := response["data"].(map[string]interface{})["profile"].(map[string]interface{})
		assert.Equal(t, "user-1", profile["id"])
		assert.Equal(t, "alice", profile["username"])
		assert.Equal(t, "alice@example.com", profile["email"])
		assert.Equal(t, "Gopher", profile["bio"])
		assert.Equal(t, "No location provided", profile["location"])
		assert.Equal(t, "https://go.dev", profile["website"])
		assert.NotEmpty(t, profile["updatedAt"])
	})

	t.Run("empty object uses every default", func(t *testing.T) {
		w := doRequest(newRealHandler(), http.MethodPost, "/api/protected/update-profile", auth.token(t, alice()), []byte(`{}`))

		assert.Equal(t, http.StatusOK, w.Code)
		profile := decodeEnvelope(t, w)["data"].(map[string]interface{})["profile"].(map[string]interface{})
		assert.Equal(t, "No bio provided", profile["bio"])
		assert.Equal(t, "No location provided", profile["location"])
		assert.Equal(t, "No website provided", profile["website"])
	})

	t.Run("empty body uses every default", func(t *testing.T) {
		w := doRequest(newRealHandler(), http.MethodPost, "/api/protected/update-profile", auth.token(t, alice()), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		profile := decodeEnvelope(t, w)["data"].(map[string]interface{})["profile"].(map[string]interface{})
		assert.Equal(t, "No bio provided", profile["bio"])
		assert.Equal(t, "No location provided", profile["location"])
		assert.Equal(t, "No website provided", profile["website"])
	})

	t.Run("validation failure", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"bio": strings.Repeat("x", 501), "website": "nope"})
		w := doRequest(newRealHandler(), http.MethodPost, "/api/protected/update-profile", auth.token(t, alice()), body)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.False(t, response.Success)
		assert.Equal(t, "Validation failed", response.Message)
		assert.Contains(t, response.Errors, "Bio")
		assert.Contains(t, response.Errors, "Website")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(newRealHandler(), http.MethodPost, "/api/protected/update-profile", auth.token(t, alice()), []byte(`{"bio":`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Error updating profile"}`, w.Body.String())
	})

	t.Run("store failure hides cause", func(t *testing.T) {
		profiles := new(MockProfileService)
		profiles.On("Update", mock.Anything, mock.Anything, services.UpdateProfileInput{Bio: "x"}).
			Return(nil, errors.New("pq: relation does not exist"))

		handler := NewProtectedHandler(profiles, zap.NewNop())
		w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleUpdateProfile)),
			http.MethodPost, "/api/protected/update-profile", auth.token(t, alice()), []byte(`{"bio":"x"}`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Error updating profile"}`, w.Body.String())
	})
}

func TestHandleSettings(t *testing.T) {
	auth := newTestAuth(t)
	handler := NewProtectedHandler(new(MockProfileService), zap.NewNop())

	w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleSettings)),
		http.MethodGet, "/api/protected/settings", auth.token(t, alice()), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Message string           `json:"message"`
		Data    SettingsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.Equal(t, "Settings retrieved successfully", response.Message)
	assert.Equal(t, "user-1", response.Data.UserID)
	assert.True(t, response.Data.Notifications.Email)
	assert.False(t, response.Data.Notifications.Push)
	assert.Equal(t, "public", response.Data.Privacy.ProfileVisibility)
	assert.True(t, response.Data.Privacy.AllowMessages)
	assert.Equal(t, "light", response.Data.Preferences.Theme)
	assert.Equal(t, "UTC", response.Data.Preferences.Timezone)
}

func TestHandleLogout(t *testing.T) {
	auth := newTestAuth(t)
	handler := NewProtectedHandler(new(MockProfileService), zap.NewNop())

	w := doRequest(auth.gate.RequireAuth(http.HandlerFunc(handler.HandleLogout)),
		http.MethodPost, "/api/protected/logout", auth.token(t, alice()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"success":true,"message":"Logout successful. Please delete the token from your client-side storage."}`,
		w.Body.String())
}
