package handlers

import (
	"net/http"

	"github.com/upb/jwt-auth-api/middleware"
	"github.com/upb/jwt-auth-api/utils"
)

// APIVersion is reported by GET /api
const APIVersion = "1.0.0"

// APIInfoResponse describes the service and its route groups
type APIInfoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// WelcomeResponse is the data of GET /api/welcome
type WelcomeResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	UserID        string `json:"userId,omitempty"`
}

// HandleAPIInfo handles GET /api
func HandleAPIInfo(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, APIInfoResponse{
		Message: "JWT Authentication API",
		Version: APIVersion,
		Endpoints: map[string]string{
			"welcome":   "/api/welcome",
			"protected": "/api/protected",
		},
	})
}

// HandleWelcome handles GET /api/welcome, mounted behind OptionalAuth.
// Anonymous callers get the generic greeting.
func HandleWelcome(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		_ = utils.WriteOK(w, "Welcome, guest!", WelcomeResponse{Authenticated: false})
		return
	}

	name := claims.Username
	if name == "" {
		name = claims.SubjectID()
	}
	_ = utils.WriteOK(w, "Welcome back, "+name+"!", WelcomeResponse{
		Authenticated: true,
		Username:      claims.Username,
		UserID:        claims.SubjectID(),
	})
}
