package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/tmarwah/shopline-api/pkg/errors"
)

// ApiResponse is the envelope every endpoint responds with
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Health represents the health check response
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// healthCheckHandler handles the health check endpoint
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := Health{
		Status:    "ok",
		Version:   "1.0.0",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    health,
	})
}

// respondWithError sends a JSON response with an error message
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, ApiResponse{
		Success: false,
		Error:   message,
	})
}

// respondWithAppError maps a service error onto its HTTP status
func (s *Server) respondWithAppError(w http.ResponseWriter, err error) {
	code := apperrors.StatusCode(err)

	if code == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
		s.respondWithError(w, code, "Internal server error")
		return
	}

	s.respondWithError(w, code, err.Error())
}

// respondWithMutationError is respondWithAppError for order mutation
// endpoints. There a missing order or product means the request itself
// referenced something that does not exist, so it is a 400; only reads
// answer 404.
func (s *Server) respondWithMutationError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondWithAppError(w, err)
}

// respondWithJSON sends a JSON response
func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)

	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
