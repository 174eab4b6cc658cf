package api

import (
	"encoding/json"
	"net/http"

	"github.com/tmarwah/shopline-api/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// signupHandler registers a new account and returns a bearer token
func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := s.userService.Signup(r.Context(), &req)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Data:    resp,
	})
}

// loginHandler verifies credentials and returns a bearer token
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := s.userService.Login(r.Context(), req.Username, req.Password)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    resp,
	})
}

// getProfileHandler returns the account of the authenticated caller
func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)

	if !ok {
		s.respondWithError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	user, err := s.userService.GetProfile(r.Context(), identity)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    user,
	})
}
