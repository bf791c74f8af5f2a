package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/upb/jwt-auth-api/middleware"
	"github.com/upb/jwt-auth-api/models"
	"github.com/upb/jwt-auth-api/services"
	"github.com/upb/jwt-auth-api/tokens"
	"github.com/upb/jwt-auth-api/utils"
	"go.uber.org/zap"
)

const maxProfileBodyBytes = 1 << 20

// ProfileService defines the profile operations the protected handlers need
type ProfileService interface {
	Get(ctx context.Context, claims tokens.Claims) (*models.Profile, error)
	Update(ctx context.Context, claims tokens.Claims, input services.UpdateProfileInput) (*models.Profile, error)
}

// ProfileResponse is the profile as shown to its owner
type ProfileResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	Website   string `json:"website"`
	UpdatedAt string `json:"updatedAt"`
}

// DashboardStats holds the simulated dashboard counters
type DashboardStats struct {
	TotalPosts    int `json:"totalPosts"`
	TotalLikes    int `json:"totalLikes"`
	TotalComments int `json:"totalComments"`
}

// Activity is one entry of the dashboard activity feed
type Activity struct {
	ID        int    `json:"id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// DashboardResponse is the data of GET /api/protected/dashboard
type DashboardResponse struct {
	User           tokens.Claims  `json:"user"`
	Stats          DashboardStats `json:"stats"`
	RecentActivity []Activity     `json:"recentActivity"`
}

// SettingsResponse is the data of GET /api/protected/settings
type SettingsResponse struct {
	UserID        string `json:"userId"`
	Notifications struct {
		Email bool `json:"email"`
		Push  bool `json:"push"`
		SMS   bool `json:"sms"`
	} `json:"notifications"`
	Privacy struct {
		ProfileVisibility string `json:"profileVisibility"`
		ShowEmail         bool   `json:"showEmail"`
		AllowMessages     bool   `json:"allowMessages"`
	} `json:"privacy"`
	Preferences struct {
		Theme    string `json:"theme"`
		Language string `json:"language"`
		Timezone string `json:"timezone"`
	} `json:"preferences"`
}

// ProtectedHandler serves the routes mounted behind RequireAuth
type ProtectedHandler struct {
	profiles ProfileService
	logger   *zap.Logger
	now      func() time.Time
}

// NewProtectedHandler creates a new ProtectedHandler
func NewProtectedHandler(profiles ProfileService, logger *zap.Logger) *ProtectedHandler {
	return &ProtectedHandler{
		profiles: profiles,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// claims reads the identity attached by the gate. A missing identity means the
// route was mounted without RequireAuth, which is answered like an absent token.
func (h *ProtectedHandler) claims(w http.ResponseWriter, r *http.Request) (tokens.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.logger.Error("protected handler reached without identity",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path))
		_ = utils.WriteUnauthorized(w, tokens.FailureMissingCredential.Message())
	}
	return claims, ok
}

// HandleProfile handles GET /api/protected/profile
func (h *ProtectedHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	data := map[string]interface{}{
		"user":    claims,
		"message": "This is a protected route. You can only see this if you have a valid JWT token.",
	}

	profile, err := h.profiles.Get(r.Context(), claims)
	switch {
	case err == nil:
		data["profile"] = toProfileResponse(profile)
	case services.IsNotFoundError(err):
		// nothing saved yet
	default:
		h.logger.Error("failed to load profile",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Error accessing profile", "")
		return
	}

	_ = utils.WriteOK(w, "Profile accessed successfully", data)
}

// HandleDashboard handles GET /api/protected/dashboard
func (h *ProtectedHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	now := h.now()
	response := DashboardResponse{
		User: claims,
		Stats: DashboardStats{
			TotalPosts:    15,
			TotalLikes:    234,
			TotalComments: 89,
		},
		RecentActivity: []Activity{
			{ID: 1, Action: "Created a new post", Timestamp: now.Format(time.RFC3339Nano)},
			{ID: 2, Action: "Liked a post", Timestamp: now.Add(-time.Hour).Format(time.RFC3339Nano)},
			{ID: 3, Action: "Commented on a post", Timestamp: now.Add(-2 * time.Hour).Format(time.RFC3339Nano)},
		},
	}

	_ = utils.WriteOK(w, "Dashboard accessed successfully", response)
}

// HandleUpdateProfile handles POST /api/protected/update-profile
func (h *ProtectedHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestIDFromContext(r.Context())

	var input services.UpdateProfileInput
	body := http.MaxBytesReader(w, r.Body, maxProfileBodyBytes)
	// An empty body updates nothing and falls back to the profile defaults.
	if err := json.NewDecoder(body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid profile update body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Error updating profile", "")
		return
	}

	profile, err := h.profiles.Update(r.Context(), claims, input)
	if err != nil {
		var domainErr *services.DomainError
		if !errors.As(err, &domainErr) {
			err = services.WrapInternal("Error updating profile", err)
		}
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Profile updated successfully", map[string]interface{}{
		"profile": toProfileResponse(profile),
	})
}

// HandleSettings handles GET /api/protected/settings
func (h *ProtectedHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var settings SettingsResponse
	settings.UserID = claims.SubjectID()
	settings.Notifications.Email = true
	settings.Privacy.ProfileVisibility = "public"
	settings.Privacy.AllowMessages = true
	settings.Preferences.Theme = "light"
	settings.Preferences.Language = "en"
	settings.Preferences.Timezone = "UTC"

	_ = utils.WriteOK(w, "Settings retrieved successfully", settings)
}

// HandleLogout handles POST /api/protected/logout. Tokens stay valid until they
// expire; the client is expected to discard its copy.
func (h *ProtectedHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	h.logger.Info("user logged out",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("sub", claims.SubjectID()))

	_ = utils.WriteOK(w, "Logout successful. Please delete the token from your client-side storage.", nil)
}

func toProfileResponse(p *models.Profile) ProfileResponse {
	view := p.WithDefaults()
	return ProfileResponse{
		ID:        view.Subject,
		Username:  view.Username,
		Email:     view.Email,
		Bio:       view.Bio,
		Location:  view.Location,
		Website:   view.Website,
		UpdatedAt: view.UpdatedAt.Format(time.RFC3339Nano),
	}
}
