package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/models"
)

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to use drafts"))
		return
	}

	draft, err := s.Drafts.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to use drafts"))
		return
	}

	var req struct {
		Status         models.Status `json:"status"`
		ElapsedSeconds int           `json:"elapsed_seconds"`
		Difficulty     int           `json:"difficulty"`
		Notes          string        `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	draft := models.Draft{
		UserID:         userID,
		QuestionID:     chi.URLParam(r, "id"),
		Status:         req.Status,
		ElapsedSeconds: req.ElapsedSeconds,
		Difficulty:     req.Difficulty,
		Notes:          req.Notes,
	}
	if err := s.Drafts.Save(r.Context(), draft); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to use drafts"))
		return
	}

	if err := s.Drafts.Clear(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to use the timer"))
		return
	}

	state, err := s.Drafts.StartTimer(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to use the timer"))
		return
	}

	state, err := s.Drafts.StopTimer(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to use the timer"))
		return
	}

	state, err := s.Drafts.Timer(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}
