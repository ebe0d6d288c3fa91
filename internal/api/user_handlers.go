package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/steptracker/steptracker/internal/logger"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Users.Register(r.Context(), req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setUserCookie(w, user.ID)

	// A fresh session is a good moment to precompute the dashboard.
	if err := s.Queue.EnqueueDashboardWarm(user.ID); err != nil {
		log.Warn("failed to enqueue dashboard warm: %v", err)
	}

	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleSelectUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	user, err := s.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	setUserCookie(w, user.ID)
	if err := s.Queue.EnqueueDashboardWarm(user.ID); err != nil {
		log.Warn("failed to enqueue dashboard warm: %v", err)
	}

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearUserCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
