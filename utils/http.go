package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope shared by every endpoint
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK success envelope
func WriteOK(w http.ResponseWriter, message string, data interface{}) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteBadRequest writes a 400 Bad Request response with per-field messages
func WriteBadRequest(w http.ResponseWriter, message string, fields map[string]string) error {
	if message == "" {
		message = "Bad request"
	}
	return WriteJSON(w, http.StatusBadRequest, Response{
		Message: message,
		Errors:  fields,
	})
}

// WriteUnauthorized writes a 401 Unauthorized response
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return WriteJSON(w, http.StatusUnauthorized, Response{Message: message})
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteJSON(w, http.StatusNotFound, Response{Message: message})
}

// WriteInternalServerError writes a 500 response. detail is only set by callers
// that are allowed to expose it (development mode).
func WriteInternalServerError(w http.ResponseWriter, message, detail string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteJSON(w, http.StatusInternalServerError, Response{
		Message: message,
		Error:   detail,
	})
}

// WriteError writes a failure envelope with an arbitrary status code
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, Response{Message: message})
}
