package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/steptracker/steptracker/internal/apperr"
)

func (s *Server) handleQuestionHistory(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to view attempt history"))
		return
	}

	attempts, err := s.Attempts.History(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attempts)
}

func (s *Server) handleCommitAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := s.Attempts.Commit(r.Context(), currentUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, attempt)
}

func (s *Server) handleDeleteAttempt(w http.ResponseWriter, r *http.Request) {
	if err := s.Attempts.Delete(r.Context(), currentUserID(r.Context()), chi.URLParam(r, "ref")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
